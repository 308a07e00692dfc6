package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"kmlmap/internal/geom"
	"kmlmap/internal/logging"
	"kmlmap/internal/pipeline"
)

// newConvertCmd runs the pipeline without a terminal UI.
func newConvertCmd() *cobra.Command {
	convertCmd := &cobra.Command{
		Use:          "convert <file.kml>",
		Short:        "Convert a KML file to a GeoJSON FeatureCollection",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE:         runConvert,
	}
	convertCmd.Flags().StringP("output", "o", "", "output file (default stdout)")
	return convertCmd
}

func runConvert(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logging.Setup(cfg.Log.Level, cfg.Log.Format, cmd.ErrOrStderr())

	out, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}
	return convert(cmd, args[0], out)
}

func convert(cmd *cobra.Command, in, out string) error {
	res, err := pipeline.Load(cmd.Context(), in)
	if err != nil {
		return fmt.Errorf("%s: %w", pipeline.Outcome(err), err)
	}

	var w io.Writer = cmd.OutOrStdout()
	if out != "" {
		f, err := os.Create(out)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer f.Close()
		w = f
	}
	if err := geom.WriteGeoJSON(w, res.Collection); err != nil {
		return fmt.Errorf("write geojson: %w", err)
	}
	slog.Info("converted",
		"in", in,
		"out", out,
		"features", len(res.Collection.Features),
		"extent", res.Extent.String(),
	)
	return nil
}
