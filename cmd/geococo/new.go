package main

import (
	"github.com/wgdzlh/geococo"

	"github.com/spf13/cobra"
)

func newNewCmd() *cobra.Command {
	var description, contributor string
	cmd := &cobra.Command{
		Use:   "new <dataset.json>",
		Short: "Initialize an empty COCO dataset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ds := geococo.NewCocoDataset(description, contributor)
			if err := geococo.SaveDataset(ds, args[0]); err != nil {
				return err
			}
			cmd.Printf("created %s (version %s)\n", args[0], ds.Info.Version)
			return nil
		},
	}
	cmd.Flags().StringVar(&description, "description", "", "dataset description")
	cmd.Flags().StringVar(&contributor, "contributor", "", "dataset contributor")
	return cmd
}
