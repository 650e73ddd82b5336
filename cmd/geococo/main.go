package main

import (
	"os"

	"github.com/wgdzlh/geococo/log"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var verbose bool
	cmd := &cobra.Command{
		Use:   "geococo",
		Short: "Transform GIS annotations into COCO datasets",
		Long: `geococo converts geospatial vector annotations overlapping a raster image
into a COCO object-detection dataset with per-instance RLE segmentation masks.

A moving window scans the raster, adapting its step size to the average
annotation extent; every window that retains annotations is saved as an
image subset and appended to the dataset with a semantic version bump.`,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				log.SetLogger(log.NewDevLogger())
			} else if l, err := zap.NewProduction(); err == nil {
				log.SetLogger(l)
			}
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			log.Sync()
		},
	}
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	cmd.AddCommand(newNewCmd(), newCopyCmd(), newAddCmd(), newInfoCmd())
	return cmd
}
