package config

import "strings"

type GridDensity string

const (
	GridDensityComfortable GridDensity = "comfortable"
	GridDensityCompact     GridDensity = "compact"
)

type GridSettings struct {
	CardWidth  int         `json:"card_width"  toml:"card_width"`
	CardHeight int         `json:"card_height" toml:"card_height"`
	Gap        int         `json:"gap"         toml:"gap"`
	Density    GridDensity `json:"density"     toml:"density"`
	// MaxColumns caps the inferred column count; 0 means as many as fit.
	MaxColumns int `json:"max_columns" toml:"max_columns"`
}

const (
	GridCardWidthDefault  = 24
	GridCardWidthMin      = 14
	GridCardWidthMax      = 60
	GridCardHeightDefault = 5
	GridCardHeightMin     = 3
	GridCardHeightMax     = 12
	GridGapDefault        = 1
	GridGapMin            = 1
	GridGapMax            = 4
	GridMaxColumnsMax     = 16
)

func DefaultGridSettings() GridSettings {
	return GridSettings{
		CardWidth:  GridCardWidthDefault,
		CardHeight: GridCardHeightDefault,
		Gap:        GridGapDefault,
		Density:    GridDensityComfortable,
	}
}

func NormaliseGridSettings(in GridSettings) GridSettings {
	grid := DefaultGridSettings()
	grid.CardWidth = clampInt(in.CardWidth, GridCardWidthMin, GridCardWidthMax, GridCardWidthDefault)
	grid.CardHeight = clampInt(in.CardHeight, GridCardHeightMin, GridCardHeightMax, GridCardHeightDefault)
	grid.Gap = clampInt(in.Gap, GridGapMin, GridGapMax, GridGapDefault)
	if in.MaxColumns > 0 {
		grid.MaxColumns = min(in.MaxColumns, GridMaxColumnsMax)
	}
	grid.Density = normaliseDensity(in.Density, grid.Density)
	return grid
}

func normaliseDensity(in GridDensity, def GridDensity) GridDensity {
	switch strings.ToLower(strings.TrimSpace(string(in))) {
	case string(GridDensityCompact):
		return GridDensityCompact
	case string(GridDensityComfortable):
		return GridDensityComfortable
	default:
		return def
	}
}

func clampInt[T ~int](value, min, max, fallback T) T {
	if value == 0 {
		return fallback
	}
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}
