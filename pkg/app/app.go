package app

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"golang.org/x/net/html"

	"github.com/fernweh-dev/fern/pkg/content"
	"github.com/fernweh-dev/fern/pkg/dom"
	"github.com/fernweh-dev/fern/pkg/engine"
	"github.com/fernweh-dev/fern/pkg/pref"
	"github.com/fernweh-dev/fern/pkg/router"
	"github.com/fernweh-dev/fern/pkg/store"
)

// PrefTheme is the preference key holding the chosen theme.
const PrefTheme = "theme"

// Theme values the toggle flips between.
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// notFoundMarkup is rendered when a fragment cannot be loaded, including
// when the not-found fragment itself is missing from the content source.
const notFoundMarkup = `<section class="not-found"><h1>Not found</h1><p>No content for {{ route }}.</p></section>`

// App ties the store, engine, router, and content loader into one
// navigable site. It owns a container element; each navigation clears the
// container and mounts the new fragment inside it.
type App struct {
	store  *store.Store
	engine *engine.Engine
	router *router.Router
	loader content.Loader
	prefs  *pref.Prefs
	logger *slog.Logger

	defaultRoute string
	theme        string
	engineOpts   []engine.Option

	container *html.Node
}

// Option configures an App.
type Option func(*App)

// WithLogger sets the app's logger.
func WithLogger(l *slog.Logger) Option {
	return func(a *App) {
		a.logger = l
	}
}

// WithRouter replaces the default router.
func WithRouter(r *router.Router) Option {
	return func(a *App) {
		a.router = r
	}
}

// WithPrefs attaches a preference store. The stored theme, if any,
// overrides the configured initial theme.
func WithPrefs(p *pref.Prefs) Option {
	return func(a *App) {
		a.prefs = p
	}
}

// WithDefaultRoute sets the route served for an empty location hash.
func WithDefaultRoute(route string) Option {
	return func(a *App) {
		a.defaultRoute = route
	}
}

// WithTheme sets the initial theme used when no preference is stored.
func WithTheme(theme string) Option {
	return func(a *App) {
		a.theme = theme
	}
}

// WithEngineOptions forwards options to the engine, for wiring a custom
// evaluator or logger into it.
func WithEngineOptions(opts ...engine.Option) Option {
	return func(a *App) {
		a.engineOpts = append(a.engineOpts, opts...)
	}
}

// New creates an app over the given content loader.
func New(loader content.Loader, opts ...Option) *App {
	a := &App{
		loader:       loader,
		defaultRoute: "home",
		theme:        ThemeLight,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.logger == nil {
		a.logger = slog.Default().With("component", "app")
	}
	if a.router == nil {
		a.router = router.New(a.defaultRoute)
	}
	if a.prefs != nil {
		a.theme = a.prefs.GetDefault(PrefTheme, a.theme)
	}

	a.store = store.New(a.defaultRoute, a.theme)
	a.engine = engine.New(a.store, append([]engine.Option{engine.WithLogger(a.logger)}, a.engineOpts...)...)

	a.container = dom.NewElement("div")
	dom.SetAttr(a.container, "id", "app")
	return a
}

// Store returns the app's store.
func (a *App) Store() *store.Store {
	return a.store
}

// Engine returns the app's engine.
func (a *App) Engine() *engine.Engine {
	return a.engine
}

// Router returns the app's router.
func (a *App) Router() *router.Router {
	return a.router
}

// Container returns the element navigations render into.
func (a *App) Container() *html.Node {
	return a.container
}

// HTML returns the rendered markup of the container's contents.
func (a *App) HTML() string {
	return dom.RenderInner(a.container)
}

// RegisterFragments registers each fragment name as its own route. A
// disk-backed site calls this with the directory listing at startup.
func (a *App) RegisterFragments(names []string) {
	for _, name := range names {
		a.router.Register(name, name)
	}
}

// LoadData fetches the JSON data payload and publishes it under the
// store's data field. A missing or unparseable payload is logged and
// skipped; the site renders without it.
func (a *App) LoadData(ctx context.Context) {
	raw, err := a.loader.Data(ctx)
	if err != nil {
		a.logger.Warn("data payload unavailable", "error", err)
		return
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		a.logger.Warn("data payload is not valid JSON", "error", err)
		return
	}
	a.store.Set("data", v)
}

// Navigate resolves a hash location, publishes the new route, and mounts
// the route's fragment in the container. The route write lands before the
// fragment is fetched, so mounts already on screen see the new route for
// one last round before being replaced.
//
// Fragments that fail to load fall back to a built-in not-found body. The
// replaced mount's subscription stays registered; its callback degrades to
// a no-op over the detached tree.
func (a *App) Navigate(ctx context.Context, hash string) error {
	route := a.router.Resolve(hash)
	a.store.Set("route", route)

	name := a.router.Fragment(route)
	raw, err := a.loader.Fragment(ctx, name)
	if err != nil {
		if !errors.Is(err, content.ErrNotFound) {
			a.logger.Error("fragment load failed", "fragment", name, "error", err)
		}
		raw = []byte(notFoundMarkup)
	}

	root, err := dom.ParseFragment(string(raw))
	if err != nil {
		return err
	}
	dom.RemoveChildren(a.container)
	a.container.AppendChild(root)
	a.engine.Mount(root)

	a.logger.Info("navigated", "route", route, "fragment", name)
	return nil
}

// ApplyTheme publishes the stored theme preference to the store.
func (a *App) ApplyTheme() {
	theme := a.theme
	if a.prefs != nil {
		theme = a.prefs.GetDefault(PrefTheme, theme)
	}
	a.store.Set("theme", theme)
}

// ToggleTheme flips between light and dark, persists the choice when a
// preference store is attached, and publishes the new value.
func (a *App) ToggleTheme() (string, error) {
	next := ThemeDark
	if a.store.Theme() == ThemeDark {
		next = ThemeLight
	}
	if a.prefs != nil {
		if err := a.prefs.Set(PrefTheme, next); err != nil {
			return "", err
		}
	}
	a.store.Set("theme", next)
	return next, nil
}
