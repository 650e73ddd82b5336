package main

import (
	"github.com/wgdzlh/geococo"

	"github.com/spf13/cobra"
)

func newAddCmd() *cobra.Command {
	var (
		outputDir       string
		width, height   int
		idCol           string
		nameCol         string
		superCol        string
		continueOnError bool
	)
	cmd := &cobra.Command{
		Use:   "add <raster.tif> <labels.shp|labels.geojson> <dataset.json>",
		Short: "Scan a raster and append intersecting annotations to a COCO dataset",
		Long: `Moves a window across the raster, converts every intersecting label into an
RLE-masked COCO annotation, writes the retained window subsets as JPEG tiles
into the output directory, and appends the result to the dataset JSON.

The window step adapts to the average label extent, so densely packed small
annotations get more window overlap and large ones less.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			dataset, err := geococo.LoadDataset(args[2])
			if err != nil {
				return err
			}
			src, err := geococo.OpenRaster(args[0])
			if err != nil {
				return err
			}
			defer src.Close()
			labels, err := geococo.LoadLabels(args[1], geococo.ColumnMapping{
				CategoryID:    idCol,
				CategoryName:  nameCol,
				Supercategory: superCol,
			})
			if err != nil {
				return err
			}
			out, err := geococo.NewPipeline().AddLabels(cmd.Context(), dataset, src, labels, geococo.PipelineConfig{
				RasterPath:      args[0],
				OutputDir:       outputDir,
				WindowWidth:     width,
				WindowHeight:    height,
				ContinueOnError: continueOnError,
			})
			if err != nil {
				return err
			}
			if err = geococo.SaveDataset(out, args[2]); err != nil {
				return err
			}
			cmd.Printf("dataset %s now at version %s (%d images, %d annotations)\n",
				args[2], out.Info.Version, len(out.Images), len(out.Annotations))
			return nil
		},
	}
	cmd.Flags().StringVarP(&outputDir, "output-dir", "o", "images", "output directory for image subsets")
	cmd.Flags().IntVarP(&width, "width", "W", 512, "width of the output images")
	cmd.Flags().IntVarP(&height, "height", "H", 512, "height of the output images")
	cmd.Flags().StringVar(&idCol, "category-id", geococo.CATEGORY_ID_COLUMN, "label field holding category ids")
	cmd.Flags().StringVar(&nameCol, "category-name", geococo.CATEGORY_NAME_COLUMN, "label field holding category names")
	cmd.Flags().StringVar(&superCol, "supercategory", geococo.SUPERCATEGORY_COLUMN, "label field holding supercategory names")
	cmd.Flags().BoolVar(&continueOnError, "continue-on-error", false, "skip windows that fail to read or write instead of aborting")
	return cmd
}
