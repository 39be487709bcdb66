package sources

import (
	"fmt"

	"EndoDigest/internal/ports"
)

// Registry keeps a mapping from source names to their adapters, so the
// configured source order can be resolved at startup.
type Registry struct {
	sources map[string]ports.ArticleSource
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{sources: map[string]ports.ArticleSource{}}
}

// Register adds or replaces a source adapter.
func (r *Registry) Register(src ports.ArticleSource) {
	if r.sources == nil {
		r.sources = map[string]ports.ArticleSource{}
	}
	r.sources[src.Name()] = src
}

// Resolve returns a source by name or an error if it is absent.
func (r *Registry) Resolve(name string) (ports.ArticleSource, error) {
	if src, ok := r.sources[name]; ok {
		return src, nil
	}
	return nil, fmt.Errorf("source %s is not registered", name)
}

// ResolveAll maps the configured source order to adapters. The pipeline
// tries them in this order, falling back on transport errors.
func (r *Registry) ResolveAll(names []string) ([]ports.ArticleSource, error) {
	resolved := make([]ports.ArticleSource, 0, len(names))
	for _, name := range names {
		src, err := r.Resolve(name)
		if err != nil {
			return nil, err
		}
		resolved = append(resolved, src)
	}
	return resolved, nil
}
