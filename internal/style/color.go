package style

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrInvalidColor is matched by every *ColorError.
var ErrInvalidColor = errors.New("invalid color")

// ColorError reports which style field held an unparseable color.
type ColorError struct {
	Field string
	Value string
}

func (e *ColorError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%v %q, want [#]RRGGBB", ErrInvalidColor, e.Value)
	}
	return fmt.Sprintf("%s: %v %q, want #RRGGBB", e.Field, ErrInvalidColor, e.Value)
}

func (e *ColorError) Unwrap() error { return ErrInvalidColor }

// RGBA is an 8-bit color with a fractional alpha in [0, 1].
type RGBA struct {
	R, G, B uint8
	A       float64
}

// CSS formats the color as rgba(r, g, b, a).
func (c RGBA) CSS() string {
	return fmt.Sprintf("rgba(%d, %d, %d, %s)", c.R, c.G, c.B, strconv.FormatFloat(c.A, 'f', -1, 64))
}

// Hex formats the color as #RRGGBB, dropping alpha.
func (c RGBA) Hex() string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// Alpha8 converts the fractional alpha to 0..255.
func (c RGBA) Alpha8() uint8 {
	return uint8(math.Round(clampFloat(c.A, 0, 1) * 255))
}

// ParseHex parses RRGGBB, with an optional leading #, and attaches
// opacityPct/100 as alpha.
func ParseHex(hex string, opacityPct float64) (RGBA, error) {
	s := strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(s) != 6 || !isHexDigits(s) {
		return RGBA{}, &ColorError{Value: hex}
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return RGBA{}, &ColorError{Value: hex}
	}
	return RGBA{
		R: uint8(v >> 16),
		G: uint8(v >> 8),
		B: uint8(v),
		A: clampFloat(opacityPct, 0, 100) / 100,
	}, nil
}

func isHexDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !('0' <= c && c <= '9' || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F') {
			return false
		}
	}
	return true
}

func parseField(field, hex string, opacityPct float64) (RGBA, error) {
	c, err := ParseHex(hex, opacityPct)
	if err != nil {
		var ce *ColorError
		if errors.As(err, &ce) {
			ce.Field = field
		}
		return RGBA{}, err
	}
	return c, nil
}
