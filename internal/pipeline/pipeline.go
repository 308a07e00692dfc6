// Package pipeline runs an uploaded file through the KML ingestion chain:
// extension gate, read, parse, extent.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/paulmach/orb/geojson"

	"kmlmap/internal/geom"
)

var (
	ErrInvalidFileType = errors.New("invalid file type")
	ErrNoFeatures      = errors.New("no geometric features")
	ErrRead            = errors.New("read failed")
)

// Outcome messages shown to the user.
const (
	MsgInvalidFileType = "Invalid file type. Please upload a .kml file."
	MsgCorruptMarkup   = "Could not parse the KML file. It may be corrupt or invalid XML."
	MsgNoFeatures      = "KML file parsed successfully, but no geometric features were found."
	MsgRead            = "Error reading file."
)

// Result is a successfully ingested dataset. Extent is never nil.
type Result struct {
	Collection *geojson.FeatureCollection
	Extent     *geom.Extent
}

// CheckExtension accepts names ending in ".kml", case-insensitively.
func CheckExtension(name string) error {
	if !strings.EqualFold(filepath.Ext(name), ".kml") {
		return fmt.Errorf("%w: %q", ErrInvalidFileType, filepath.Base(name))
	}
	return nil
}

// Process parses raw KML text and computes its extent.
func Process(raw string) (Result, error) {
	fc, err := geom.ParseKML(raw)
	if err != nil {
		return Result{}, err
	}
	if len(fc.Features) == 0 {
		return Result{}, ErrNoFeatures
	}
	ext := geom.ComputeExtent(fc)
	if ext == nil {
		return Result{}, ErrNoFeatures
	}
	return Result{Collection: fc, Extent: ext}, nil
}

// Load gates path on its extension, reads it and processes its contents.
// The extension is checked before any I/O.
func Load(ctx context.Context, path string) (Result, error) {
	if err := CheckExtension(path); err != nil {
		return Result{}, err
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrRead, err)
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	res, err := Process(string(raw))
	if err != nil {
		slog.Warn("kml ingest failed", "path", path, "error", err)
		return Result{}, err
	}
	slog.Info("kml loaded",
		"path", path,
		"features", len(res.Collection.Features),
		"extent", res.Extent.String(),
	)
	return res, nil
}

// Outcome maps a pipeline error to the message shown to the user.
// A nil error yields "".
func Outcome(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidFileType):
		return MsgInvalidFileType
	case errors.Is(err, geom.ErrCorruptMarkup):
		return MsgCorruptMarkup
	case errors.Is(err, ErrNoFeatures):
		return MsgNoFeatures
	default:
		return MsgRead
	}
}
