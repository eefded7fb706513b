// Package fern renders directive-annotated markup fragments against a
// reactive data store.
//
// The subpackages carry the machinery: pkg/store holds state, pkg/expr
// evaluates the restricted expression language, pkg/engine processes the
// four directives and interpolation, and pkg/app ties them to a router
// and content source. This package is the convenience surface for
// embedding a whole project.
package fern

import (
	"github.com/fernweh-dev/fern/internal/config"
	"github.com/fernweh-dev/fern/pkg/app"
	"github.com/fernweh-dev/fern/pkg/content"
	"github.com/fernweh-dev/fern/pkg/pref"
)

// Version is the library version.
const Version = "0.1.0"

// Open loads the project at dir — fern.json, fragments, payload,
// preferences — and returns a ready app with every disk fragment
// registered as a route. Callers still Navigate and LoadData themselves.
func Open(dir string, opts ...app.Option) (*app.App, error) {
	cfg, err := config.Load(dir)
	if err != nil {
		return nil, err
	}

	prefs, err := pref.Open(cfg.PrefsPath())
	if err != nil {
		return nil, err
	}

	loader := content.NewDisk(cfg.FragmentsPath(), cfg.DataPath())
	a := app.New(loader, append([]app.Option{
		app.WithDefaultRoute(cfg.Route),
		app.WithTheme(cfg.Theme),
		app.WithPrefs(prefs),
	}, opts...)...)

	names, err := loader.Fragments()
	if err != nil {
		return nil, err
	}
	a.RegisterFragments(names)
	return a, nil
}
