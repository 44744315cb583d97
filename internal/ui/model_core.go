package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/unkn0wn-root/cardvault/internal/bindings"
	"github.com/unkn0wn-root/cardvault/internal/config"
	"github.com/unkn0wn-root/cardvault/internal/dispatch"
	"github.com/unkn0wn-root/cardvault/internal/gridnav"
	"github.com/unkn0wn-root/cardvault/internal/overlay"
	"github.com/unkn0wn-root/cardvault/internal/scene"
	"github.com/unkn0wn-root/cardvault/internal/selection"
	"github.com/unkn0wn-root/cardvault/internal/storage"
	"github.com/unkn0wn-root/cardvault/internal/submit"
	"github.com/unkn0wn-root/cardvault/internal/telemetry"
	"github.com/unkn0wn-root/cardvault/internal/theme"
)

const searchFocusID = "search"

type Config struct {
	Cards        storage.CardRepository
	Collection   storage.CollectionRepository
	Settings     config.Settings
	Bindings     *bindings.Map
	Theme        *theme.Theme
	Instrumenter telemetry.Instrumenter
	Version      string
	// SetCode limits the grid to one set when not empty.
	SetCode string
}

// sessionStats is shared by every copy of the model.
type sessionStats struct {
	invalid   int
	submitted int
	failed    int
}

type Model struct {
	cfg      Config
	theme    theme.Theme
	bindings *bindings.Map
	entry    config.EntrySettings
	grid     config.GridSettings

	scene    *scene.Scene
	sel      *selection.Registry
	nav      *gridnav.Engine
	overlay  *overlay.Renderer
	dispatch *dispatch.Dispatcher
	submit   *submit.Coordinator

	view  *viewport
	cache *cardCache
	stats *sessionStats

	catalog   []storage.Card
	cardIndex map[string]storage.Card
	sets      map[string]storage.Set
	owned     map[string]int
	totals    storage.Totals
	rows      []layoutRow

	holdingsFor string
	holdings    []storage.Holding

	search   textinput.Model
	filter   string
	showHelp bool

	statusMessage statusMsg

	ready  bool
	width  int
	height int
}

func New(cfg Config) Model {
	th := theme.DefaultTheme()
	if cfg.Theme != nil {
		th = *cfg.Theme
	}
	bindingMap := cfg.Bindings
	if bindingMap == nil {
		bindingMap = bindings.DefaultMap()
	}
	settings := cfg.Settings.Normalise()

	sc := scene.New()
	reg := selection.New(sc)
	view := &viewport{}
	renderer := overlay.New(overlay.Options{
		InvalidFlash: settings.Entry.InvalidFlash(),
		ResultFlash:  settings.Entry.ResultFlash(),
	})
	coord := submit.New(renderer, submit.Options{
		Timeout:      settings.Entry.SubmitTimeout(),
		Instrumenter: cfg.Instrumenter,
	})

	searchInput := textinput.New()
	searchInput.Placeholder = "card name"
	searchInput.Prompt = "/ "
	searchInput.CharLimit = 64
	searchInput.Blur()

	m := Model{
		cfg:       cfg,
		theme:     th,
		bindings:  bindingMap,
		entry:     settings.Entry,
		grid:      settings.Grid,
		scene:     sc,
		sel:       reg,
		nav:       gridnav.New(sc, reg, view),
		overlay:   renderer,
		dispatch:  dispatch.New(sc, reg, renderer, coord),
		submit:    coord,
		view:      view,
		cache:     newCardCache(),
		stats:     &sessionStats{},
		cardIndex: make(map[string]storage.Card),
		sets:      make(map[string]storage.Set),
		owned:     make(map[string]int),
		search:    searchInput,
	}

	ctx := context.Background()
	if err := m.loadCatalog(ctx); err != nil {
		m.setStatusMessage(statusMsg{text: fmt.Sprintf("catalog error: %v", err), level: statusError})
	}
	if err := m.refreshCollection(ctx); err != nil {
		m.setStatusMessage(statusMsg{text: fmt.Sprintf("collection error: %v", err), level: statusError})
	}
	if m.statusMessage.text == "" {
		m.statusMessage = m.initialStatus(ctx)
	}
	m.relayout()
	return m
}

func (m Model) Init() tea.Cmd {
	return nextSubmitResultCmd(m.submit.Results())
}

// Close stops running submissions. It is safe to call after the program exits.
func (m Model) Close() {
	m.submit.Close()
}

func (m *Model) initialStatus(ctx context.Context) statusMsg {
	if len(m.catalog) == 0 {
		return statusMsg{text: "No cards loaded. Run with -import <file> or -fetch-set <code>.", level: statusWarn}
	}
	if m.cfg.Collection != nil {
		recent, err := m.cfg.Collection.RecentChanges(ctx, 1)
		if err == nil && len(recent) > 0 {
			last := recent[0]
			name := last.CardID
			if card, ok := m.cardIndex[last.CardID]; ok {
				name = card.Name
			}
			return statusMsg{
				text: fmt.Sprintf("Last entry: %+d %s %s (%s)",
					last.Delta, last.Finish, name, last.CreatedAt.Local().Format("Jan 2 15:04")),
				level: statusInfo,
			}
		}
	}
	return statusMsg{text: "Select a card and type a count. Press ? for help.", level: statusInfo}
}

// loadCatalog reads the printings matching the set restriction and the
// search filter, in document order.
func (m *Model) loadCatalog(ctx context.Context) error {
	repo := m.cfg.Cards
	if repo == nil {
		m.catalog = nil
		return nil
	}
	var (
		cards []storage.Card
		err   error
	)
	setCode := strings.ToLower(strings.TrimSpace(m.cfg.SetCode))
	switch {
	case m.filter != "":
		cards, err = repo.Search(ctx, m.filter, 0)
		if err == nil && setCode != "" {
			cards = filterBySet(cards, setCode)
		}
	case setCode != "":
		cards, err = repo.ListBySet(ctx, setCode)
	default:
		cards, err = repo.All(ctx)
	}
	if err != nil {
		return err
	}
	m.catalog = cards
	for _, c := range cards {
		m.cardIndex[c.ID] = c
	}

	sets, err := repo.Sets(ctx)
	if err != nil {
		return err
	}
	for _, s := range sets {
		m.sets[s.Code] = s
	}
	return nil
}

func filterBySet(cards []storage.Card, code string) []storage.Card {
	out := cards[:0]
	for _, c := range cards {
		if c.SetCode == code {
			out = append(out, c)
		}
	}
	return out
}

// refreshCollection reloads owned counts after a commit. Cached card renders
// pick the new counts up on their own.
func (m *Model) refreshCollection(ctx context.Context) error {
	repo := m.cfg.Collection
	if repo == nil {
		return nil
	}
	owned, err := repo.Owned(ctx)
	if err != nil {
		return err
	}
	totals, err := repo.Totals(ctx)
	if err != nil {
		return err
	}
	m.owned = owned
	m.totals = totals
	m.holdingsFor = ""
	return nil
}

// syncHoldings loads the holdings of the selected card when it changed.
func (m *Model) syncHoldings() {
	id, ok := m.sel.Selected()
	if !ok {
		m.holdingsFor = ""
		m.holdings = nil
		return
	}
	if id == m.holdingsFor || m.cfg.Collection == nil {
		return
	}
	holdings, err := m.cfg.Collection.Holdings(context.Background(), id)
	if err != nil {
		m.setStatusMessage(statusMsg{text: fmt.Sprintf("holdings error: %v", err), level: statusError})
		return
	}
	m.holdingsFor = id
	m.holdings = holdings
}
