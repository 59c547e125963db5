// Package app wires the catalog, search, annotation, history, collection and
// homework components behind one controller that owns the session state.
package app

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/mavinms/prism-project/client"
	"github.com/mavinms/prism-project/internal/annotate"
	"github.com/mavinms/prism-project/internal/catalog"
	"github.com/mavinms/prism-project/internal/collections"
	"github.com/mavinms/prism-project/internal/config"
	"github.com/mavinms/prism-project/internal/history"
	"github.com/mavinms/prism-project/internal/homework"
	"github.com/mavinms/prism-project/internal/localstore"
	"github.com/mavinms/prism-project/internal/search"
)

// ErrNoTermSelected is returned by operations that act on the viewed term.
var ErrNoTermSelected = annotate.ErrNoTermSelected

// Service is the catalog service as the controller uses it.
type Service interface {
	catalog.Source
	search.MetaSource
	annotate.MetaStore
	TermsBySubject(ctx context.Context, subject string) ([]client.Term, error)
	MetaCounts(ctx context.Context) (*client.MetaCounts, error)
	FilterByMeta(ctx context.Context, f client.Filter) ([]client.Term, error)
	StatsOverview(ctx context.Context) (*client.StatsOverview, error)
}

// Confirm asks the user to approve a destructive action.
type Confirm func(prompt string) bool

// View names what the user is looking at.
type View string

const (
	ViewDiscover    View = "discover"
	ViewSearch      View = "search"
	ViewSubject     View = "subject"
	ViewLetter      View = "letter"
	ViewTerm        View = "term"
	ViewFilter      View = "filter"
	ViewCollections View = "collections"
	ViewCollection  View = "collection"
	ViewHistory     View = "history"
	ViewHomework    View = "homework"
	ViewStats       View = "stats"
)

// State is the session state owned by the controller.
type State struct {
	View         View   `json:"view"`
	CurrentTerm  string `json:"current_term,omitempty"`
	SessionTerms int    `json:"session_terms"`
}

// App is the controller.
type App struct {
	mu    sync.Mutex
	state State

	cfg         *config.Config
	svc         Service
	store       localstore.Store
	catalog     *catalog.Catalog
	search      *search.Engine
	session     *annotate.Session
	history     *history.Ledger
	collections *collections.Manager
	homework    *homework.Tracker
	log         zerolog.Logger
}

// New loads the catalog from svc and wires every component over store.
func New(ctx context.Context, cfg *config.Config, svc Service, store localstore.Store, log zerolog.Logger) (*App, error) {
	cat, err := catalog.Load(ctx, svc,
		catalog.WithAttempts(cfg.CatalogLoadAttempts),
		catalog.WithLogger(log),
	)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	ledger := history.New(store, history.WithLimit(cfg.HistoryLimit), history.WithLogger(log))
	a := &App{
		state:       State{View: ViewDiscover},
		cfg:         cfg,
		svc:         svc,
		store:       store,
		catalog:     cat,
		history:     ledger,
		session:     annotate.NewSession(svc, ledger, log),
		collections: collections.NewManager(store),
		homework:    homework.NewTracker(store),
		log:         log,
	}
	a.search = search.NewEngine(cat, svc,
		search.WithMinQueryLength(cfg.MinQueryLength),
		search.WithDebounce(cfg.SearchDebounce),
		search.WithLogger(log),
	)
	return a, nil
}

// Open builds the HTTP client and local store from cfg, then calls New.
// Close releases the store.
func Open(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*App, error) {
	opts := []client.Option{client.WithDebugLogging(cfg.Debug)}
	if cfg.HTTPTimeout > 0 {
		opts = append(opts, client.WithHTTPTimeout(cfg.HTTPTimeout))
	}
	svc, err := client.New(cfg.APIURL, opts...)
	if err != nil {
		return nil, err
	}
	store, err := localstore.Open(cfg.StoreDriver, cfg.StorePath)
	if err != nil {
		return nil, fmt.Errorf("open local store: %w", err)
	}
	a, err := New(ctx, cfg, svc, store, log)
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	return a, nil
}

// Close releases the local store and cancels any pending search.
func (a *App) Close() error {
	a.search.Cancel()
	return a.store.Close()
}

// State returns a copy of the session state.
func (a *App) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

func (a *App) setView(v View) {
	a.mu.Lock()
	a.state.View = v
	a.mu.Unlock()
}

// Catalog returns the loaded catalog.
func (a *App) Catalog() *catalog.Catalog { return a.catalog }

// Config returns the controller's configuration.
func (a *App) Config() *config.Config { return a.cfg }

// ------------------------------
// Browsing
// ------------------------------

// Subjects returns the subject list.
func (a *App) Subjects() []client.Subject {
	return a.catalog.Subjects()
}

// BySubject asks the service for subject's terms and falls back to the local
// catalog when the call fails.
func (a *App) BySubject(ctx context.Context, subject string) []client.Term {
	a.setView(ViewSubject)
	terms, err := a.svc.TermsBySubject(ctx, subject)
	if err != nil {
		a.log.Warn().Err(err).Str("subject", subject).Msg("subject fetch failed, using cached catalog")
		return a.catalog.BySubject(subject)
	}
	return terms
}

// ByLetter returns the alphabet view for letter.
func (a *App) ByLetter(letter string) []client.Term {
	a.setView(ViewLetter)
	return a.catalog.ByLetter(letter)
}

// Discover returns n random terms.
func (a *App) Discover(n int, rng *rand.Rand) []client.Term {
	a.setView(ViewDiscover)
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return a.catalog.Random(n, rng)
}

// Filter returns the terms matching a server-side metadata filter.
func (a *App) Filter(ctx context.Context, typ client.FilterType, param string) ([]client.Term, error) {
	a.setView(ViewFilter)
	return a.svc.FilterByMeta(ctx, client.Filter{Type: typ, Param: param})
}

// ------------------------------
// Search
// ------------------------------

// Search runs one ranking pass immediately.
func (a *App) Search(ctx context.Context, query string) search.Outcome {
	a.setView(ViewSearch)
	return a.search.Search(ctx, query)
}

// SubmitSearch debounces query; deliver receives the outcome of the last
// query of a burst.
func (a *App) SubmitSearch(ctx context.Context, query string, deliver func(search.Outcome)) {
	a.setView(ViewSearch)
	a.search.Submit(ctx, query, deliver)
}

// ------------------------------
// Viewed term and annotations
// ------------------------------

// ViewTerm opens name, making it the current term.
func (a *App) ViewTerm(ctx context.Context, name string) (client.TermDetail, error) {
	detail, err := a.session.View(ctx, name)
	if err != nil {
		return client.TermDetail{}, err
	}
	a.mu.Lock()
	a.state.View = ViewTerm
	a.state.CurrentTerm = detail.Name
	a.state.SessionTerms++
	a.mu.Unlock()
	return detail, nil
}

// CurrentTerm returns the viewed term, if any.
func (a *App) CurrentTerm() (client.TermDetail, bool) {
	return a.session.Current()
}

// CloseTerm deselects the viewed term.
func (a *App) CloseTerm() {
	a.session.Close()
	a.mu.Lock()
	a.state.CurrentTerm = ""
	a.state.View = ViewDiscover
	a.mu.Unlock()
}

func (a *App) ToggleFavorite(ctx context.Context) (client.TermMetadata, error) {
	return a.session.ToggleFavorite(ctx)
}

func (a *App) ToggleBookmark(ctx context.Context) (client.TermMetadata, error) {
	return a.session.ToggleBookmark(ctx)
}

func (a *App) SetDifficulty(ctx context.Context, d client.Difficulty) (client.TermMetadata, error) {
	return a.session.SetDifficulty(ctx, d)
}

func (a *App) SetRating(ctx context.Context, r int) (client.TermMetadata, error) {
	return a.session.SetRating(ctx, r)
}

func (a *App) SaveNotes(ctx context.Context, text string) (annotate.NotesOutcome, client.TermMetadata, error) {
	return a.session.SaveNotes(ctx, text)
}

// EditTerm applies e to the named term. It does not change the viewed term,
// so callers serving concurrent requests address terms by name through here.
func (a *App) EditTerm(ctx context.Context, name string, e annotate.Edit) (annotate.EditResult, error) {
	return a.session.EditTerm(ctx, name, e)
}

// ------------------------------
// History
// ------------------------------

// History returns ledger entries within period.
func (a *App) History(ctx context.Context, p history.Period) ([]history.Entry, error) {
	a.setView(ViewHistory)
	return a.history.Query(ctx, p)
}

// HistoryLimit is the number of entries the ledger keeps.
func (a *App) HistoryLimit() int { return a.history.Limit() }

// ClearHistory empties the ledger once confirm approves. It reports whether
// anything was cleared.
func (a *App) ClearHistory(ctx context.Context, confirm Confirm) (bool, error) {
	if confirm == nil || !confirm("Clear all history? This cannot be undone.") {
		return false, nil
	}
	if err := a.history.Clear(ctx); err != nil {
		return false, err
	}
	return true, nil
}

// ------------------------------
// Collections
// ------------------------------

// CreateCollection creates a collection seeded with the viewed term, if any.
func (a *App) CreateCollection(ctx context.Context, levels []string) (collections.Collection, error) {
	seed := ""
	if cur, ok := a.session.Current(); ok {
		seed = cur.Name
	}
	return a.collections.Create(ctx, levels, seed)
}

func (a *App) ListCollections(ctx context.Context) ([]collections.Collection, error) {
	a.setView(ViewCollections)
	return a.collections.List(ctx)
}

func (a *App) GetCollection(ctx context.Context, id string) (collections.Collection, error) {
	return a.collections.Get(ctx, id)
}

// AddCurrentTerm adds the viewed term to the collection. It reports false
// when the term was already there.
func (a *App) AddCurrentTerm(ctx context.Context, id string) (bool, error) {
	cur, ok := a.session.Current()
	if !ok {
		return false, ErrNoTermSelected
	}
	return a.collections.AddTerm(ctx, id, cur.Name)
}

// AddTermToCollection adds a named term to the collection.
func (a *App) AddTermToCollection(ctx context.Context, id, term string) (bool, error) {
	return a.collections.AddTerm(ctx, id, term)
}

func (a *App) RemoveFromCollection(ctx context.Context, id, term string) (bool, error) {
	return a.collections.RemoveTerm(ctx, id, term)
}

func (a *App) RenameCollection(ctx context.Context, id string, levels []string) (collections.Collection, error) {
	return a.collections.Rename(ctx, id, levels)
}

// DeleteCollection deletes the collection once confirm approves.
func (a *App) DeleteCollection(ctx context.Context, id string, confirm Confirm) (bool, error) {
	c, err := a.collections.Get(ctx, id)
	if err != nil {
		return false, err
	}
	if confirm == nil || !confirm(fmt.Sprintf("Delete collection %q?", c.Name)) {
		return false, nil
	}
	if err := a.collections.Delete(ctx, id); err != nil {
		return false, err
	}
	return true, nil
}

// CollectionTerms resolves a collection's terms through the catalog, in
// catalog order. Names missing from the catalog are omitted.
func (a *App) CollectionTerms(ctx context.Context, id string) (collections.Collection, []client.Term, error) {
	c, err := a.collections.Get(ctx, id)
	if err != nil {
		return collections.Collection{}, nil, err
	}
	a.setView(ViewCollection)
	return c, a.catalog.Select(c.Terms), nil
}

// ------------------------------
// Homework
// ------------------------------

func (a *App) AddHomework(ctx context.Context, in homework.NewItem) (homework.Item, error) {
	return a.homework.Add(ctx, in)
}

func (a *App) ListHomework(ctx context.Context) ([]homework.Item, error) {
	a.setView(ViewHomework)
	return a.homework.List(ctx)
}

// DeleteHomework deletes the item once confirm approves.
func (a *App) DeleteHomework(ctx context.Context, id string, confirm Confirm) (bool, error) {
	if confirm == nil || !confirm("Delete this homework item?") {
		return false, nil
	}
	if err := a.homework.Delete(ctx, id); err != nil {
		return false, err
	}
	return true, nil
}

// SuggestTerms returns term-name suggestions for the homework picker.
func (a *App) SuggestTerms(query string) []client.Term {
	return a.catalog.Suggest(query, a.cfg.SuggestLimit)
}

// ------------------------------
// Stats
// ------------------------------

// Overview is the statistics view.
type Overview struct {
	Stats        client.StatsOverview `json:"stats"`
	Counts       client.MetaCounts    `json:"counts"`
	Collections  int                  `json:"collections"`
	SessionViews int                  `json:"session_views"`
	Subjects     []client.Subject     `json:"subjects"`
	CatalogAt    time.Time            `json:"catalog_loaded_at"`
}

// Overview combines service totals with local counts.
func (a *App) Overview(ctx context.Context) (Overview, error) {
	a.setView(ViewStats)
	stats, err := a.svc.StatsOverview(ctx)
	if err != nil {
		return Overview{}, err
	}
	counts, err := a.svc.MetaCounts(ctx)
	if err != nil {
		return Overview{}, err
	}
	cs, err := a.collections.List(ctx)
	if err != nil && !errors.Is(err, localstore.ErrCorrupt) {
		return Overview{}, err
	}
	return Overview{
		Stats:        *stats,
		Counts:       *counts,
		Collections:  len(cs),
		SessionViews: a.State().SessionTerms,
		Subjects:     a.catalog.Subjects(),
		CatalogAt:    a.catalog.LoadedAt(),
	}, nil
}
