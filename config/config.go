// Package config loads engine tuning from YAML files and STAMPKIT_*
// environment variables, with working defaults for a standard
// completion form so a host can start with no file at all.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"stampkit/coords"
	"stampkit/layout"
	"stampkit/overlay"
	"stampkit/snap"
)

// ErrInvalid marks configuration values the engine cannot run with.
var ErrInvalid = errors.New("config: invalid value")

type Config struct {
	Page         PageConfig    `mapstructure:"page"`
	Table        TableConfig   `mapstructure:"table"`
	Snap         SnapConfig    `mapstructure:"snap"`
	Elements     ElementConfig `mapstructure:"elements"`
	Requirements []string      `mapstructure:"requirements"`
}

// PageConfig is the document page size in unscaled units.
type PageConfig struct {
	Width  float64 `mapstructure:"width"`
	Height float64 `mapstructure:"height"`
}

// TableConfig is the requirement-table geometry.
type TableConfig struct {
	LeftMargin   float64 `mapstructure:"left_margin"`
	TopMargin    float64 `mapstructure:"top_margin"`
	HeaderHeight float64 `mapstructure:"header_height"`
	RowHeight    float64 `mapstructure:"row_height"`

	RequirementWidth float64 `mapstructure:"requirement_width"`
	DateWidth        float64 `mapstructure:"date_width"`
	RemarksWidth     float64 `mapstructure:"remarks_width"`
	SignatureWidth   float64 `mapstructure:"signature_width"`
}

// SnapConfig tunes the placement rule chain.
type SnapConfig struct {
	GridSize       float64 `mapstructure:"grid_size"`
	ThresholdPx    float64 `mapstructure:"threshold_px"`
	EdgeMargin     float64 `mapstructure:"edge_margin"`
	OverlapPadding float64 `mapstructure:"overlap_padding"`
	RowBandFactor  float64 `mapstructure:"row_band_factor"`
}

// ElementConfig sets the footprints of new elements and the keyboard
// and clipboard steps.
type ElementConfig struct {
	SignatureWidth  float64 `mapstructure:"signature_width"`
	SignatureHeight float64 `mapstructure:"signature_height"`
	StampWidth      float64 `mapstructure:"stamp_width"`
	StampHeight     float64 `mapstructure:"stamp_height"`
	PasteOffset     float64 `mapstructure:"paste_offset"`
	NudgeFine       float64 `mapstructure:"nudge_fine"`
	NudgeMedium     float64 `mapstructure:"nudge_medium"`
	NudgeCoarse     float64 `mapstructure:"nudge_coarse"`
}

// Default returns the stock completion-form configuration: a US Letter
// page, the default table geometry, and the standard requirement list.
func Default() Config {
	return Config{
		Page: PageConfig{
			Width:  612,
			Height: 792,
		},
		Table: TableConfig{
			LeftMargin:       40,
			TopMargin:        120,
			HeaderHeight:     30,
			RowHeight:        48,
			RequirementWidth: 220,
			DateWidth:        110,
			RemarksWidth:     130,
			SignatureWidth:   90,
		},
		Snap: SnapConfig{
			GridSize:       20,
			ThresholdPx:    10,
			EdgeMargin:     10,
			OverlapPadding: 5,
			RowBandFactor:  3,
		},
		Elements: ElementConfig{
			SignatureWidth:  150,
			SignatureHeight: 50,
			StampWidth:      100,
			StampHeight:     40,
			PasteOffset:     20,
			NudgeFine:       1,
			NudgeMedium:     5,
			NudgeCoarse:     10,
		},
		Requirements: []string{
			"Registration Form",
			"Program of Study",
			"Medical Certificate",
			"Certificate of Completion",
			"Exit Clearance",
			"Final Evaluation",
		},
	}
}

// Load reads a YAML file merged over the defaults, then applies
// STAMPKIT_* environment overrides ("snap.grid_size" becomes
// STAMPKIT_SNAP_GRID_SIZE). With an empty path it searches the working
// directory for stampkit.yaml and falls back to pure defaults when no
// file exists; an explicit path must exist.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("stampkit")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("STAMPKIT")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v, Default())

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, fmt.Errorf("config: read %s: %w", v.ConfigFileUsed(), err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// setDefaults registers every key so environment overrides resolve even
// without a file.
func setDefaults(v *viper.Viper, d Config) {
	v.SetDefault("page.width", d.Page.Width)
	v.SetDefault("page.height", d.Page.Height)

	v.SetDefault("table.left_margin", d.Table.LeftMargin)
	v.SetDefault("table.top_margin", d.Table.TopMargin)
	v.SetDefault("table.header_height", d.Table.HeaderHeight)
	v.SetDefault("table.row_height", d.Table.RowHeight)
	v.SetDefault("table.requirement_width", d.Table.RequirementWidth)
	v.SetDefault("table.date_width", d.Table.DateWidth)
	v.SetDefault("table.remarks_width", d.Table.RemarksWidth)
	v.SetDefault("table.signature_width", d.Table.SignatureWidth)

	v.SetDefault("snap.grid_size", d.Snap.GridSize)
	v.SetDefault("snap.threshold_px", d.Snap.ThresholdPx)
	v.SetDefault("snap.edge_margin", d.Snap.EdgeMargin)
	v.SetDefault("snap.overlap_padding", d.Snap.OverlapPadding)
	v.SetDefault("snap.row_band_factor", d.Snap.RowBandFactor)

	v.SetDefault("elements.signature_width", d.Elements.SignatureWidth)
	v.SetDefault("elements.signature_height", d.Elements.SignatureHeight)
	v.SetDefault("elements.stamp_width", d.Elements.StampWidth)
	v.SetDefault("elements.stamp_height", d.Elements.StampHeight)
	v.SetDefault("elements.paste_offset", d.Elements.PasteOffset)
	v.SetDefault("elements.nudge_fine", d.Elements.NudgeFine)
	v.SetDefault("elements.nudge_medium", d.Elements.NudgeMedium)
	v.SetDefault("elements.nudge_coarse", d.Elements.NudgeCoarse)

	v.SetDefault("requirements", d.Requirements)
}

// Validate rejects geometry and tuning the engine cannot run with.
func (c Config) Validate() error {
	if c.Page.Width <= 0 || c.Page.Height <= 0 {
		return fmt.Errorf("%w: page %gx%g", ErrInvalid, c.Page.Width, c.Page.Height)
	}
	if c.Table.RowHeight <= 0 {
		return fmt.Errorf("%w: row height %g", ErrInvalid, c.Table.RowHeight)
	}
	if c.Snap.GridSize <= 0 {
		return fmt.Errorf("%w: grid size %g", ErrInvalid, c.Snap.GridSize)
	}
	if c.Snap.ThresholdPx < 0 || c.Snap.EdgeMargin < 0 || c.Snap.OverlapPadding < 0 || c.Snap.RowBandFactor < 0 {
		return fmt.Errorf("%w: negative snap tuning", ErrInvalid)
	}
	if c.Elements.SignatureWidth <= 0 || c.Elements.SignatureHeight <= 0 ||
		c.Elements.StampWidth <= 0 || c.Elements.StampHeight <= 0 {
		return fmt.Errorf("%w: element footprint", ErrInvalid)
	}
	if len(c.Requirements) == 0 {
		return fmt.Errorf("%w: empty requirement list", ErrInvalid)
	}
	seen := make(map[string]struct{}, len(c.Requirements))
	for _, label := range c.Requirements {
		if label == "" {
			return fmt.Errorf("%w: empty requirement label", ErrInvalid)
		}
		if _, ok := seen[label]; ok {
			return fmt.Errorf("%w: duplicate requirement %q", ErrInvalid, label)
		}
		seen[label] = struct{}{}
	}
	return nil
}

// LayoutTable builds the table geometry this configuration describes.
func (c Config) LayoutTable() layout.Table {
	return layout.DefaultTable(
		layout.WithMargins(c.Table.LeftMargin, c.Table.TopMargin),
		layout.WithHeaderHeight(c.Table.HeaderHeight),
		layout.WithRowHeight(c.Table.RowHeight),
		layout.WithColumnWidths(
			c.Table.RequirementWidth,
			c.Table.DateWidth,
			c.Table.RemarksWidth,
			c.Table.SignatureWidth,
		),
	)
}

// Catalog builds the requirement catalog from the configured labels.
func (c Config) Catalog() (layout.Catalog, error) {
	return layout.NewCatalog(c.Requirements...)
}

// SnapOptions expresses the snap tuning as engine options.
func (c Config) SnapOptions() []snap.Option {
	return []snap.Option{
		snap.WithGridSize(c.Snap.GridSize),
		snap.WithThresholdPx(c.Snap.ThresholdPx),
		snap.WithEdgeMargin(c.Snap.EdgeMargin),
		snap.WithOverlapPadding(c.Snap.OverlapPadding),
		snap.WithRowBandFactor(c.Snap.RowBandFactor),
	}
}

// ControllerOptions expresses the element tuning as overlay options.
func (c Config) ControllerOptions() []overlay.Option {
	return []overlay.Option{
		overlay.WithSignatureSize(c.Elements.SignatureWidth, c.Elements.SignatureHeight),
		overlay.WithStampSize(c.Elements.StampWidth, c.Elements.StampHeight),
		overlay.WithPasteOffset(c.Elements.PasteOffset),
		overlay.WithNudgeSteps(c.Elements.NudgeFine, c.Elements.NudgeMedium, c.Elements.NudgeCoarse),
	}
}

// Viewport builds the coordinate viewport for a render scale.
func (c Config) Viewport(scale float64) coords.Viewport {
	return coords.NewViewport(c.Page.Width, c.Page.Height, scale)
}
