package style

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// TextTransform is applied to caption text before it is painted.
type TextTransform int

const (
	TransformNone TextTransform = iota
	TransformUppercase
)

// Fixed presentation constants for the caption box.
const (
	RoundedRadiusPx = 12
	PaddingXPx      = 16
	PaddingYPx      = 8
	StrokeBlurPx    = 10
)

// PaintParams is everything a renderer needs to draw one caption.
type PaintParams struct {
	FontFamily         string
	FontSizePx         int
	Color              RGBA
	Stroke             RGBA  // glow around glyphs, blurred by StrokeBlurPx
	StrokeBlurPx       int
	Background         *RGBA // nil when no backdrop is drawn
	BackgroundRadiusPx int
	PaddingXPx         int
	PaddingYPx         int
	VerticalOffsetPct  float64 // distance of the caption from the bottom edge
	TextTransform      TextTransform
}

// Apply runs the text transform over s.
func (p PaintParams) Apply(s string) string {
	if p.TextTransform == TransformUppercase {
		return strings.ToUpper(s)
	}
	return s
}

// Resolve turns a style config into paint parameters. The config is clamped
// first; an unparseable color yields a *ColorError naming the field.
func Resolve(cfg Config) (PaintParams, error) {
	cfg = cfg.Clamped()

	fg, err := parseField("font_color", cfg.FontColor, 100)
	if err != nil {
		return PaintParams{}, err
	}
	stroke, err := parseField("stroke_color", cfg.StrokeColor, 100)
	if err != nil {
		return PaintParams{}, err
	}

	p := PaintParams{
		FontFamily:        cfg.Font,
		FontSizePx:        cfg.FontSizePx,
		Color:             fg,
		Stroke:            stroke,
		StrokeBlurPx:      StrokeBlurPx,
		VerticalOffsetPct: (1 - cfg.VerticalPosition) * 100,
	}

	if cfg.BackgroundShape != NoShape {
		bg, err := parseField("background_color", cfg.BackgroundColor, cfg.BackgroundOpacityPct)
		if err != nil {
			return PaintParams{}, err
		}
		p.Background = &bg
		p.PaddingXPx = PaddingXPx
		p.PaddingYPx = PaddingYPx
		if cfg.BackgroundShape == Rounded {
			p.BackgroundRadiusPx = RoundedRadiusPx
		}
	}

	if cfg.Animation == WordWindow {
		p.TextTransform = TransformUppercase
	}
	return p, nil
}

// ReadConfig loads a style config from YAML. Fields missing from the file
// keep their defaults.
func ReadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse style %s: %w", path, err)
	}
	return cfg, nil
}

// WriteConfig saves a style config as YAML.
func WriteConfig(cfg Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
