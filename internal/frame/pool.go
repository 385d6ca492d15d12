package frame

import (
	"image"
	"sync"
)

// imagePool hands out frames by size; each size gets its own sync.Pool.
type imagePool struct {
	mu    sync.Mutex
	sizes map[image.Rectangle]*sync.Pool
}

func newImagePool() *imagePool {
	return &imagePool{sizes: make(map[image.Rectangle]*sync.Pool)}
}

func (p *imagePool) forRect(rect image.Rectangle) *sync.Pool {
	p.mu.Lock()
	defer p.mu.Unlock()

	sp, ok := p.sizes[rect]
	if !ok {
		sp = &sync.Pool{New: func() any { return image.NewRGBA(rect) }}
		p.sizes[rect] = sp
	}
	return sp
}

func (p *imagePool) get(rect image.Rectangle) *image.RGBA {
	return p.forRect(rect).Get().(*image.RGBA)
}

func (p *imagePool) put(img *image.RGBA) {
	if img != nil {
		p.forRect(img.Rect).Put(img)
	}
}
