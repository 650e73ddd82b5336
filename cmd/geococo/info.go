package main

import (
	"github.com/wgdzlh/geococo"

	"github.com/spf13/cobra"
)

func newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info <dataset.json>",
		Short: "Print a summary of a COCO dataset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := geococo.LoadDataset(args[0])
			if err != nil {
				return err
			}
			cmd.Printf("version:      %s\n", ds.Info.Version)
			cmd.Printf("description:  %s\n", ds.Info.Description)
			cmd.Printf("contributor:  %s\n", ds.Info.Contributor)
			cmd.Printf("created:      %s\n", ds.Info.DateCreated.Format("2006-01-02 15:04:05"))
			cmd.Printf("images:       %d\n", len(ds.Images))
			cmd.Printf("annotations:  %d\n", len(ds.Annotations))
			cmd.Printf("categories:   %d\n", len(ds.Categories))
			for _, src := range ds.Sources {
				cmd.Printf("source %d:    %s\n", src.Id, src.FileName)
			}
			return nil
		},
	}
}
