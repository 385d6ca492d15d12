package frame

import (
	"image"
	"image/color"
	"image/png"
	"io"
	"math"
	"strings"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/ivlev/captionsync/internal/caption"
	"github.com/ivlev/captionsync/internal/scene"
	"github.com/ivlev/captionsync/internal/style"
)

// Glyphs are rasterised from a fixed bitmap face and scaled up to the
// requested pixel size; the configured font family is not loaded.
var face = basicfont.Face7x13

// Renderer draws still preview frames: the scene background scaled to fit,
// with the caption painted over it.
type Renderer struct {
	width  int
	height int
	pool   *imagePool
	media  *mediaCache
}

// NewRenderer creates a renderer for width x height frames. Relative scene
// media references are resolved against baseDir.
func NewRenderer(width, height int, baseDir string) *Renderer {
	if width <= 0 {
		width = 1280
	}
	if height <= 0 {
		height = 720
	}
	return &Renderer{
		width:  width,
		height: height,
		pool:   newImagePool(),
		media:  newMediaCache(baseDir),
	}
}

// Bounds returns the frame rectangle.
func (r *Renderer) Bounds() image.Rectangle {
	return image.Rect(0, 0, r.width, r.height)
}

// Release returns a frame from Render to the pool. The frame must not be
// used afterwards.
func (r *Renderer) Release(img *image.RGBA) {
	r.pool.put(img)
}

// RenderAt draws the frame shown at clock time t.
func (r *Renderer) RenderAt(scenes []scene.Scene, t float64, cfg style.Config) (*image.RGBA, error) {
	text, pos, err := caption.At(scenes, t, cfg)
	if err != nil {
		return nil, err
	}
	paint, err := style.Resolve(cfg)
	if err != nil {
		return nil, err
	}
	bg := r.media.load(scenes[pos.Index].MediaOr(scene.PlaceholderMedia))
	return r.Render(bg, text, paint), nil
}

// Render draws background (may be nil) and caption into a pooled frame.
func (r *Renderer) Render(background image.Image, text string, paint style.PaintParams) *image.RGBA {
	dst := r.pool.get(r.Bounds())
	draw.Draw(dst, dst.Bounds(), image.Black, image.Point{}, draw.Src)

	if background != nil {
		sr := background.Bounds()
		draw.CatmullRom.Scale(dst, fitRect(sr, dst.Bounds()), background, sr, draw.Over, nil)
	}

	text = paint.Apply(text)
	if text == "" {
		return dst
	}

	mask := r.textMask(text, paint.FontSizePx)
	size := mask.Bounds().Size()

	x0 := (r.width - size.X) / 2
	bottom := r.height - int(math.Round(float64(r.height)*paint.VerticalOffsetPct/100))
	y0 := bottom - size.Y
	if y0 < 0 {
		y0 = 0
	}
	if y0+size.Y > r.height {
		y0 = r.height - size.Y
	}
	textRect := image.Rectangle{Min: image.Pt(x0, y0), Max: image.Pt(x0+size.X, y0+size.Y)}

	if paint.Background != nil {
		box := textRect.Inset(-paint.PaddingXPx)
		box.Min.Y = textRect.Min.Y - paint.PaddingYPx
		box.Max.Y = textRect.Max.Y + paint.PaddingYPx
		fill := image.NewUniform(nrgba(*paint.Background))
		draw.DrawMask(dst, box, fill, image.Point{}, &roundedRect{size: box.Size(), radius: paint.BackgroundRadiusPx}, image.Point{}, draw.Over)
	}

	// Stroke: the mask stamped around the glyphs, then the fill on top.
	stroke := image.NewUniform(nrgba(paint.Stroke))
	reach := paint.FontSizePx / 16
	if reach < 1 {
		reach = 1
	}
	for _, d := range strokeOffsets(reach) {
		draw.DrawMask(dst, textRect.Add(d), stroke, image.Point{}, mask, image.Point{}, draw.Over)
	}
	draw.DrawMask(dst, textRect, image.NewUniform(nrgba(paint.Color)), image.Point{}, mask, image.Point{}, draw.Over)

	return dst
}

// textMask rasterises text scaled so the line height matches sizePx.
// Text wider than the frame is wrapped at word boundaries; a word that
// still does not fit shrinks the whole block, below the bitmap size if needed.
func (r *Renderer) textMask(text string, sizePx int) *image.Alpha {
	metrics := face.Metrics()
	lineH := metrics.Height.Ceil()
	maxW := float64(r.width) * 0.9

	scale := float64(sizePx) / float64(lineH)
	if scale < 1 {
		scale = 1
	}
	lines := wrapLines(text, int(maxW/scale))

	w := 1
	for _, line := range lines {
		if lw := font.MeasureString(face, line).Ceil(); lw > w {
			w = lw
		}
	}
	h := lineH * len(lines)
	if float64(w)*scale > maxW {
		scale = maxW / float64(w)
	}
	if float64(h)*scale > float64(r.height) {
		scale = float64(r.height) / float64(h)
	}

	small := image.NewAlpha(image.Rect(0, 0, w, h))
	for i, line := range lines {
		lw := font.MeasureString(face, line).Ceil()
		d := font.Drawer{
			Dst:  small,
			Src:  image.Opaque,
			Face: face,
			Dot:  fixed.P((w-lw)/2, i*lineH+metrics.Ascent.Ceil()),
		}
		d.DrawString(line)
	}

	bw := max(1, int(math.Round(float64(w)*scale)))
	bh := max(1, int(math.Round(float64(h)*scale)))
	big := image.NewAlpha(image.Rect(0, 0, bw, bh))
	draw.NearestNeighbor.Scale(big, big.Bounds(), small, small.Bounds(), draw.Src, nil)
	return big
}

// wrapLines greedily packs words into lines no wider than limit bitmap pixels.
func wrapLines(text string, limit int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return []string{text}
	}

	var lines []string
	line := words[0]
	for _, word := range words[1:] {
		next := line + " " + word
		if font.MeasureString(face, next).Ceil() > limit {
			lines = append(lines, line)
			line = word
			continue
		}
		line = next
	}
	return append(lines, line)
}

// fitRect centres src inside dst, keeping its aspect ratio.
func fitRect(src, dst image.Rectangle) image.Rectangle {
	sw, sh := float64(src.Dx()), float64(src.Dy())
	dw, dh := float64(dst.Dx()), float64(dst.Dy())
	if sw == 0 || sh == 0 {
		return dst
	}
	scale := math.Min(dw/sw, dh/sh)
	w := int(math.Round(sw * scale))
	h := int(math.Round(sh * scale))
	x := dst.Min.X + (dst.Dx()-w)/2
	y := dst.Min.Y + (dst.Dy()-h)/2
	return image.Rect(x, y, x+w, y+h)
}

func strokeOffsets(reach int) []image.Point {
	return []image.Point{
		{-reach, 0}, {reach, 0}, {0, -reach}, {0, reach},
		{-reach, -reach}, {reach, -reach}, {-reach, reach}, {reach, reach},
	}
}

func nrgba(c style.RGBA) color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.Alpha8()}
}

// roundedRect is an alpha mask of a rectangle with rounded corners.
type roundedRect struct {
	size   image.Point
	radius int
}

func (m *roundedRect) ColorModel() color.Model { return color.AlphaModel }

func (m *roundedRect) Bounds() image.Rectangle {
	return image.Rectangle{Max: m.size}
}

func (m *roundedRect) At(x, y int) color.Color {
	r := m.radius
	if limit := min(m.size.X, m.size.Y) / 2; r > limit {
		r = limit
	}
	if r <= 0 {
		return color.Opaque
	}

	// Distance from the nearest corner centre, only inside corner squares.
	cx, cy := -1, -1
	switch {
	case x < r:
		cx = r
	case x >= m.size.X-r:
		cx = m.size.X - r - 1
	}
	switch {
	case y < r:
		cy = r
	case y >= m.size.Y-r:
		cy = m.size.Y - r - 1
	}
	if cx < 0 || cy < 0 {
		return color.Opaque
	}
	dx, dy := float64(x-cx), float64(y-cy)
	if dx*dx+dy*dy > float64(r*r) {
		return color.Transparent
	}
	return color.Opaque
}

// EncodePNG writes img as PNG.
func EncodePNG(w io.Writer, img image.Image) error {
	return png.Encode(w, img)
}
