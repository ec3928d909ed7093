package raster

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"

	"boxkit/pkg/host"
)

// Texture is a decoded image.
type Texture struct {
	img image.Image
}

// NewTexture wraps an already decoded image.
func NewTexture(img image.Image) *Texture {
	return &Texture{img: img}
}

func (t *Texture) Size() (float64, float64) {
	b := t.img.Bounds()
	return float64(b.Dx()), float64(b.Dy())
}

func (t *Texture) Image() image.Image { return t.img }

// TextureCache loads images from files or data URIs and caches them by
// reference. Relative paths resolve against the cache's root directory.
type TextureCache struct {
	root   string
	logger *zap.Logger

	mu    sync.RWMutex
	cache map[string]*Texture
}

func NewTextureCache(root string, logger *zap.Logger) *TextureCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TextureCache{
		root:   root,
		logger: logger.Named("textures"),
		cache:  make(map[string]*Texture),
	}
}

// Root returns the directory relative references resolve against.
func (c *TextureCache) Root() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.root
}

// SetRoot changes the directory relative references resolve against and
// drops every cached texture.
func (c *TextureCache) SetRoot(root string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.root = root
	c.cache = make(map[string]*Texture)
}

// Texture implements host.TextureProvider.
func (c *TextureCache) Texture(ref string) (host.Texture, error) {
	t, err := c.Load(ref)
	if err != nil {
		return nil, err
	}
	return t, nil
}

// Load returns the texture for ref, decoding it on first use. Unreadable
// files and undecodable data wrap host.ErrMissingResource.
func (c *TextureCache) Load(ref string) (*Texture, error) {
	c.mu.RLock()
	t, ok := c.cache[ref]
	c.mu.RUnlock()
	if ok {
		return t, nil
	}

	var img image.Image
	var err error
	if IsDataURI(ref) {
		img, err = decodeDataURI(ref)
	} else {
		img, err = c.loadFile(ref)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: texture %q: %v", host.ErrMissingResource, ref, err)
	}

	t = NewTexture(img)
	c.mu.Lock()
	c.cache[ref] = t
	c.mu.Unlock()

	w, h := t.Size()
	c.logger.Debug("Loaded texture", zap.String("ref", shortRef(ref)), zap.Float64("width", w), zap.Float64("height", h))
	return t, nil
}

// Len returns the number of cached textures.
func (c *TextureCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.cache)
}

func (c *TextureCache) loadFile(ref string) (image.Image, error) {
	path := ref
	if root := c.Root(); !filepath.IsAbs(path) && root != "" {
		path = filepath.Join(root, path)
	}
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errors.New("file not found")
		}
		return nil, err
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	return img, err
}

// IsDataURI reports whether ref is a data: URI.
func IsDataURI(ref string) bool {
	return strings.HasPrefix(ref, "data:")
}

// decodeDataURI decodes data:[<mediatype>][;base64],<data>.
func decodeDataURI(ref string) (image.Image, error) {
	meta, payload, ok := strings.Cut(strings.TrimPrefix(ref, "data:"), ",")
	if !ok {
		return nil, errors.New("malformed data URI")
	}

	var raw []byte
	if strings.HasSuffix(meta, ";base64") {
		b, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return nil, fmt.Errorf("decode base64: %w", err)
		}
		raw = b
	} else {
		s, err := url.PathUnescape(payload)
		if err != nil {
			return nil, err
		}
		raw = []byte(s)
	}

	img, _, err := image.Decode(bytes.NewReader(raw))
	return img, err
}

func shortRef(ref string) string {
	if len(ref) > 48 {
		return ref[:45] + "..."
	}
	return ref
}
