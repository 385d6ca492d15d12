package style

import (
	"fmt"
	"math"
	"strings"
)

// Animation selects how caption text is revealed over a scene
type Animation int

const (
	// Continuous shows the whole scene text for the entire scene.
	Continuous Animation = iota
	// WordWindow shows a sliding window of words paced by scene progress.
	WordWindow
	// Typewriter is accepted as a setting; it renders like Continuous.
	Typewriter
)

var animationNames = map[Animation]string{
	Continuous: "continuous",
	WordWindow: "word-window",
	Typewriter: "typewriter",
}

// Accepted spellings, including the labels used by the editor UI.
var animationAliases = map[string]Animation{
	"continuous":  Continuous,
	"classic":     Continuous,
	"word-window": WordWindow,
	"wordwindow":  WordWindow,
	"tiktok":      WordWindow,
	"typewriter":  Typewriter,
}

func (a Animation) String() string {
	if name, ok := animationNames[a]; ok {
		return name
	}
	return fmt.Sprintf("animation(%d)", int(a))
}

func (a Animation) MarshalText() ([]byte, error) {
	if _, ok := animationNames[a]; !ok {
		return nil, fmt.Errorf("unknown animation style %d", int(a))
	}
	return []byte(a.String()), nil
}

func (a *Animation) UnmarshalText(text []byte) error {
	v, ok := animationAliases[normalize(string(text))]
	if !ok {
		return fmt.Errorf("unknown animation style %q", string(text))
	}
	*a = v
	return nil
}

// Shape is the backdrop drawn behind caption text
type Shape int

const (
	// NoShape draws no backdrop ("Default" in the editor).
	NoShape Shape = iota
	Rounded
	Outline
)

var shapeNames = map[Shape]string{
	NoShape: "none",
	Rounded: "rounded",
	Outline: "outline",
}

var shapeAliases = map[string]Shape{
	"none":    NoShape,
	"default": NoShape,
	"":        NoShape,
	"rounded": Rounded,
	"outline": Outline,
}

func (s Shape) String() string {
	if name, ok := shapeNames[s]; ok {
		return name
	}
	return fmt.Sprintf("shape(%d)", int(s))
}

func (s Shape) MarshalText() ([]byte, error) {
	if _, ok := shapeNames[s]; !ok {
		return nil, fmt.Errorf("unknown background shape %d", int(s))
	}
	return []byte(s.String()), nil
}

func (s *Shape) UnmarshalText(text []byte) error {
	v, ok := shapeAliases[normalize(string(text))]
	if !ok {
		return fmt.Errorf("unknown background shape %q", string(text))
	}
	*s = v
	return nil
}

func normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.ReplaceAll(s, "_", "-")
}

// Size and speed bounds enforced by Clamped.
const (
	MinFontSize  = 12
	MaxFontSize  = 120
	DefaultFont  = "Titan One"
	DefaultSpeed = 1.0
)

// Config holds the caption styling chosen by the user.
type Config struct {
	Font                 string    `yaml:"font" json:"font"`
	FontSizePx           int       `yaml:"font_size" json:"font_size"`
	VerticalPosition     float64   `yaml:"vertical_position" json:"vertical_position"` // distance from the bottom is (1-v)*100 %
	FontColor            string    `yaml:"font_color" json:"font_color"`
	StrokeColor          string    `yaml:"stroke_color" json:"stroke_color"`
	WordsPerCaption      int       `yaml:"words_per_caption" json:"words_per_caption"`
	Animation            Animation `yaml:"animation_style" json:"animation_style"`
	Speed                float64   `yaml:"animation_speed" json:"animation_speed"`
	BackgroundShape      Shape     `yaml:"background_shape" json:"background_shape"`
	BackgroundColor      string    `yaml:"background_color" json:"background_color"`
	BackgroundOpacityPct float64   `yaml:"background_opacity" json:"background_opacity"`
}

// DefaultConfig returns the editor's initial settings.
func DefaultConfig() Config {
	return Config{
		Font:                 DefaultFont,
		FontSizePx:           64,
		VerticalPosition:     0.60,
		FontColor:            "#FFFFFF",
		StrokeColor:          "#000000",
		WordsPerCaption:      1,
		Animation:            WordWindow,
		Speed:                1.4,
		BackgroundShape:      NoShape,
		BackgroundColor:      "#FF0000",
		BackgroundOpacityPct: 60,
	}
}

// Clamped returns a copy of c with every numeric field forced into range
// and unknown enum values replaced by their defaults. Colors are left as is;
// they are validated by Resolve.
func (c Config) Clamped() Config {
	def := DefaultConfig()

	if strings.TrimSpace(c.Font) == "" {
		c.Font = DefaultFont
	}
	c.FontSizePx = clampInt(c.FontSizePx, MinFontSize, MaxFontSize)
	c.VerticalPosition = clampFloat(c.VerticalPosition, 0, 1)
	if c.WordsPerCaption < 1 {
		c.WordsPerCaption = 1
	}
	if c.Speed <= 0 || math.IsNaN(c.Speed) || math.IsInf(c.Speed, 0) {
		c.Speed = DefaultSpeed
	}
	c.BackgroundOpacityPct = clampFloat(c.BackgroundOpacityPct, 0, 100)
	if _, ok := animationNames[c.Animation]; !ok {
		c.Animation = def.Animation
	}
	if _, ok := shapeNames[c.BackgroundShape]; !ok {
		c.BackgroundShape = def.BackgroundShape
	}
	return c
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampFloat(v, lo, hi float64) float64 {
	if math.IsNaN(v) || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
