package loader

import (
	"github.com/bgraf/trackmap/bounds"
	"github.com/bgraf/trackmap/config"
	"github.com/bgraf/trackmap/fetch"
	"github.com/bgraf/trackmap/registry"
	"github.com/bgraf/trackmap/render"
)

// Session wires a registry to a scene and a loader, as used by every command.
type Session struct {
	Registry *registry.Registry
	Scene    *render.Scene
	Loader   *Loader

	fetcher *fetch.HTTPFetcher
}

// NewSession builds a session configured from the global config.
func NewSession() *Session {
	fetcher := fetch.New(fetch.Options{
		Timeout:   config.FetchTimeout(),
		UserAgent: config.FetchUserAgent(),
	})

	scene := render.NewScene()
	reg := registry.New(bounds.New(), scene, scene, &registry.Options{
		Weight:  config.StyleWeight(),
		Opacity: config.StyleOpacity(),
	})

	return &Session{
		Registry: reg,
		Scene:    scene,
		Loader:   New(fetcher, reg, scene, render.NewPalette(), OptionsFromConfig()),
		fetcher:  fetcher,
	}
}

func (s *Session) Close() error {
	s.Loader.Close()
	if s.fetcher == nil {
		return nil
	}
	return s.fetcher.Close()
}
