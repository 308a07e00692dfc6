package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/paulmach/orb"
	"github.com/spf13/cobra"

	"kmlmap/internal/config"
	"kmlmap/internal/logging"
	"kmlmap/internal/overlay"
	"kmlmap/internal/tui"
)

// newRootCmd builds the command tree; the root launches the terminal viewer.
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "kmlmap [file.kml]",
		Short:        "View KML files as a map overlay in the terminal",
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE:         runViewer,
	}
	rootCmd.PersistentFlags().String("config", "", "config file (default ./kmlmap.yaml or $HOME/.config/kmlmap/kmlmap.yaml)")
	rootCmd.AddCommand(newConvertCmd())
	return rootCmd
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	return config.Load(path)
}

func runViewer(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	// stdout belongs to the terminal UI
	if cfg.Log.File != "" {
		f, err := tea.LogToFile(cfg.Log.File, "kmlmap")
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		logging.Setup(cfg.Log.Level, cfg.Log.Format, f)
	} else {
		logging.Setup(cfg.Log.Level, cfg.Log.Format, io.Discard)
	}

	opts := viewerOptions(cfg)
	if len(args) == 1 {
		opts.Preload = args[0]
	}
	slog.Info("starting viewer", "dir", opts.Dir, "preload", opts.Preload)

	p := tea.NewProgram(tui.New(opts), tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run viewer: %w", err)
	}
	return nil
}

func viewerOptions(cfg *config.Config) tui.Options {
	style := overlay.DefaultStyle()
	style.StrokeColor = cfg.Style.StrokeColor
	style.StrokeWeight = cfg.Style.StrokeWeight
	return tui.Options{
		Dir:   cfg.Browse.Dir,
		Style: style,
		Fitter: overlay.Fitter{
			FallbackCenter: orb.Point{cfg.Map.FallbackLng, cfg.Map.FallbackLat},
			FallbackZoom:   cfg.Map.FallbackZoom,
			Padding:        cfg.Map.Padding,
		},
	}
}
