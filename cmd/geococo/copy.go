package main

import (
	"time"

	"github.com/wgdzlh/geococo"

	"github.com/spf13/cobra"
)

func newCopyCmd() *cobra.Command {
	var description, contributor string
	cmd := &cobra.Command{
		Use:   "copy <source.json> <dest.json>",
		Short: "Copy a COCO dataset, optionally updating its metadata",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := geococo.LoadDataset(args[0])
			if err != nil {
				return err
			}
			if description != "" {
				ds.Info.Description = description
			}
			if contributor != "" {
				ds.Info.Contributor = contributor
			}
			ds.Info.DateCreated = time.Now()
			ds.Info.Year = ds.Info.DateCreated.Year()
			if err = geococo.SaveDataset(ds, args[1]); err != nil {
				return err
			}
			cmd.Printf("copied %s -> %s\n", args[0], args[1])
			return nil
		},
	}
	cmd.Flags().StringVar(&description, "description", "", "new dataset description")
	cmd.Flags().StringVar(&contributor, "contributor", "", "new dataset contributor")
	return cmd
}
