package window

import (
	"strings"

	"boxkit/pkg/host"
)

// FontPool caches fonts by family for one window. Families registered with
// Register take precedence over the host provider. Misses are cached too so
// a missing family is only asked for once.
type FontPool struct {
	provider host.FontProvider
	fonts    map[string]host.Font
	misses   map[string]error
}

func NewFontPool(provider host.FontProvider) *FontPool {
	return &FontPool{
		provider: provider,
		fonts:    make(map[string]host.Font),
		misses:   make(map[string]error),
	}
}

// Register makes f available as family.
func (p *FontPool) Register(family string, f host.Font) {
	family = normalizeFamily(family)
	p.fonts[family] = f
	delete(p.misses, family)
}

// Font implements host.FontProvider.
func (p *FontPool) Font(family string) (host.Font, error) {
	family = normalizeFamily(family)
	if f, ok := p.fonts[family]; ok {
		return f, nil
	}
	if err, ok := p.misses[family]; ok {
		return nil, err
	}
	if p.provider == nil {
		return nil, host.ErrMissingResource
	}

	f, err := p.provider.Font(family)
	if err == nil && f == nil {
		err = host.ErrMissingResource
	}
	if err != nil {
		p.misses[family] = err
		return nil, err
	}
	p.fonts[family] = f
	return f, nil
}

// Len returns the number of loaded families.
func (p *FontPool) Len() int { return len(p.fonts) }

func normalizeFamily(family string) string {
	return strings.ToLower(strings.TrimSpace(family))
}
