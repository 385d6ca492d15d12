package frame

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"log"
	"os"
	"path/filepath"
	"sync"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/ivlev/captionsync/internal/scene"
)

// LoadImage decodes a png, jpeg, webp or bmp file.
func LoadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}

// mediaCache keeps decoded scene backgrounds. Failed loads are cached as nil
// so a broken reference is reported once.
type mediaCache struct {
	baseDir string

	mu     sync.Mutex
	images map[string]image.Image
}

func newMediaCache(baseDir string) *mediaCache {
	return &mediaCache{baseDir: baseDir, images: make(map[string]image.Image)}
}

func (c *mediaCache) load(ref string) image.Image {
	if ref == "" || ref == scene.PlaceholderMedia {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if img, ok := c.images[ref]; ok {
		return img
	}

	path := ref
	if !filepath.IsAbs(path) && c.baseDir != "" {
		path = filepath.Join(c.baseDir, ref)
	}
	img, err := LoadImage(path)
	if err != nil {
		log.Printf("[!] scene media %s: %v", ref, err)
		img = nil
	}
	c.images[ref] = img
	return img
}
