package wizard

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/chatform/internal/shared/types"
)

// Catalog is the read side of the chatform API the wizard lists from.
type Catalog interface {
	FilterSource
	ListOptions(ctx context.Context) ([]types.Option, error)
	ListItems(ctx context.Context, q types.Query) ([]types.Item, error)
	ListLocations(ctx context.Context, q types.Query) ([]types.Location, error)
}

// Emitter receives each completed request.
type Emitter interface {
	Emit(ctx context.Context, req types.Request) error
}

// EmitterFunc adapts a function to Emitter
type EmitterFunc func(ctx context.Context, req types.Request) error

// Emit calls f
func (f EmitterFunc) Emit(ctx context.Context, req types.Request) error {
	return f(ctx, req)
}

// Chip is one clickable entry: an option, item or location.
type Chip struct {
	Kind types.Kind
	ID   int
	Text string
}

// View is everything a host needs to draw the form.
type View struct {
	Phase   Phase
	Step    int
	MaxStep int
	Notice  string

	// Filters lists the builtin values offered for the step, led by
	// NoFilter. Empty for the option and review steps.
	Filters      []string
	ActiveFilter string
	Search       string
	ShowFilters  bool

	Selected []Chip
	Results  []Chip
	// Loading is set while the results for the current state are not in.
	Loading bool

	ButtonLabel    string
	SubmitDisabled bool
}

// candidates holds the last listing and the state generation it belongs to.
type candidates struct {
	generation uint64
	loaded     bool
	options    []types.Option
	items      []types.Item
	locations  []types.Location
}

// Controller drives a Machine from a host UI. All methods are safe for
// concurrent use; catalog calls run without holding the lock.
type Controller struct {
	mu         sync.Mutex
	machine    *Machine
	generation uint64
	inflight   map[uint64]bool
	results    candidates

	catalog Catalog
	emitter Emitter
	filters *FilterCache
	labels  Labels
	logger  *zap.Logger
}

// Option configures a Controller
type Option func(*Controller)

// WithLabels sets the texts shown by the view
func WithLabels(labels Labels) Option {
	return func(c *Controller) { c.labels = labels }
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(c *Controller) { c.logger = logger }
}

// WithFilterCache shares a filter cache between controllers
func WithFilterCache(cache *FilterCache) Option {
	return func(c *Controller) { c.filters = cache }
}

// NewController creates a controller at step 1
func NewController(catalog Catalog, emitter Emitter, opts ...Option) *Controller {
	c := &Controller{
		machine:  NewMachine(),
		inflight: make(map[uint64]bool),
		catalog:  catalog,
		emitter:  emitter,
		labels:   EnglishLabels(),
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.filters == nil {
		c.filters = NewFilterCache(c.logger)
	}
	return c
}

// Refresh brings the results up to date with the current state, fetching
// from the catalog when the state changed since the last listing, and
// returns the view. A failed fetch shows an empty list and is logged.
// Responses for a state that has since changed are dropped.
func (c *Controller) Refresh(ctx context.Context) View {
	c.mu.Lock()
	d := c.machine.Recompute()
	gen := c.generation
	if (c.results.loaded && c.results.generation == gen) || c.inflight[gen] {
		v := c.viewLocked(d)
		c.mu.Unlock()
		return v
	}
	c.inflight[gen] = true
	c.mu.Unlock()

	if d.Fetch == types.KindItem || d.Fetch == types.KindLocation {
		if err := c.filters.Ensure(ctx, c.catalog); err != nil {
			c.logger.Warn("filter values unavailable", zap.Error(err))
		}
	}

	fetched := c.fetch(ctx, gen, d)

	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.inflight, gen)

	if gen != c.generation {
		c.logger.Debug("dropping stale listing",
			zap.String("kind", d.Fetch.String()),
			zap.Uint64("generation", gen),
			zap.Uint64("current", c.generation),
		)
	} else {
		c.results = fetched
	}
	return c.viewLocked(c.machine.Recompute())
}

func (c *Controller) fetch(ctx context.Context, gen uint64, d Directive) candidates {
	out := candidates{generation: gen, loaded: true}
	var err error

	switch d.Fetch {
	case types.KindOption:
		out.options, err = c.catalog.ListOptions(ctx)
	case types.KindItem:
		out.items, err = c.catalog.ListItems(ctx, d.Query)
	case types.KindLocation:
		out.locations, err = c.catalog.ListLocations(ctx, d.Query)
	}

	if err != nil {
		c.logger.Warn("catalog fetch failed",
			zap.String("kind", d.Fetch.String()),
			zap.Stringer("query", d.Query),
			zap.Error(err),
		)
		return candidates{generation: gen, loaded: true}
	}
	return out
}

// View returns the view without fetching
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewLocked(c.machine.Recompute())
}

// ChooseOption picks the displayed option with id
func (c *Controller) ChooseOption(id int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.machine.Phase() != PhaseOption {
		return ErrWrongStep
	}
	opt, ok := c.findOption(id)
	if !ok {
		return fmt.Errorf("%w: option %d", ErrUnknownChip, id)
	}
	if err := c.machine.ChooseOption(opt); err != nil {
		return err
	}
	c.bump()
	return nil
}

// Toggle adds or removes the item or location with id. The chip must be
// selected or come from the last listing; chips from a listing that a
// filter change has just invalidated stay usable until the next one lands.
func (c *Controller) Toggle(kind types.Kind, id int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if kind != c.machine.Phase().Kind() || kind == types.KindOption {
		return ErrWrongStep
	}

	switch kind {
	case types.KindItem:
		item, ok := c.machine.Items().Get(id)
		if !ok {
			item, ok = findByID(c.results.items, id, func(i types.Item) int { return i.ID })
		}
		if !ok {
			return fmt.Errorf("%w: item %d", ErrUnknownChip, id)
		}
		_, err := c.machine.ToggleItem(item)
		return err
	default:
		loc, ok := c.machine.Locations().Get(id)
		if !ok {
			loc, ok = findByID(c.results.locations, id, func(l types.Location) int { return l.ID })
		}
		if !ok {
			return fmt.Errorf("%w: location %d", ErrUnknownChip, id)
		}
		_, err := c.machine.ToggleLocation(loc)
		return err
	}
}

// SetBuiltinFilter applies a value from View.Filters. Only the item and
// location steps have a filter.
func (c *Controller) SetBuiltinFilter(value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	kind := c.machine.Phase().Kind()
	if kind != types.KindItem && kind != types.KindLocation {
		return ErrWrongStep
	}
	if value != "" && value != NoFilter && !slices.Contains(c.filters.Values(kind), value) {
		return fmt.Errorf("%w: %q", ErrUnknownFilter, value)
	}

	if c.machine.SetBuiltinFilter(value) {
		c.bump()
	}
	return nil
}

// SetSearch applies the search text
func (c *Controller) SetSearch(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.machine.SetSearch(text) {
		c.bump()
	}
}

// ToggleFilterPanel expands or collapses the filter panel
func (c *Controller) ToggleFilterPanel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.machine.ToggleFilterPanel()
}

// Advance moves the wizard forward; see Machine.Advance. When the request
// is emitted the form is already reset by the time the emitter runs, and
// an emitter error is returned without restoring it.
func (c *Controller) Advance(ctx context.Context, ready bool) (bool, error) {
	c.mu.Lock()
	step := c.machine.Step()
	req, emitted := c.machine.Advance(ready)
	if emitted || c.machine.Step() != step {
		c.bump()
	}
	c.mu.Unlock()

	if !emitted {
		return false, nil
	}

	c.logger.Info("request emitted",
		zap.Int("option", req.Option.ID),
		zap.Int("items", len(req.Items)),
		zap.Int("locations", len(req.Locations)),
	)
	if c.emitter == nil {
		return true, nil
	}
	if err := c.emitter.Emit(ctx, *req); err != nil {
		return true, fmt.Errorf("emit request: %w", err)
	}
	return true, nil
}

// bump invalidates the listing for the previous state
func (c *Controller) bump() {
	c.generation++
}

func (c *Controller) fresh() bool {
	return c.results.loaded && c.results.generation == c.generation
}

func (c *Controller) findOption(id int) (types.Option, bool) {
	return findByID(c.results.options, id, func(o types.Option) int { return o.ID })
}

func findByID[T any](list []T, id int, key func(T) int) (T, bool) {
	for _, e := range list {
		if key(e) == id {
			return e, true
		}
	}
	var zero T
	return zero, false
}

func (c *Controller) viewLocked(d Directive) View {
	m := c.machine
	f := m.Filter()

	v := View{
		Phase:          d.Phase,
		Step:           m.Step(),
		MaxStep:        m.MaxStep(),
		Notice:         c.labels.notice(d.Phase),
		ActiveFilter:   f.Builtin(),
		Search:         f.Search(),
		ShowFilters:    f.PanelOpen(),
		Loading:        d.Fetch != "" && !c.fresh(),
		ButtonLabel:    c.labels.button(d.Final),
		SubmitDisabled: !d.SubmitEnabled,
	}

	switch d.Phase {
	case PhaseOption:
		if c.fresh() {
			for _, o := range c.results.options {
				v.Results = append(v.Results, Chip{Kind: types.KindOption, ID: o.ID, Text: o.Description})
			}
		}
	case PhaseItems:
		v.Filters = filterChoices(c.filters.Values(types.KindItem))
		var listed []types.Item
		if c.fresh() {
			listed = c.results.items
		}
		selected, unselected := Reconcile(m.Items(), listed)
		v.Selected = itemChips(selected)
		v.Results = itemChips(unselected)
	case PhaseLocations:
		v.Filters = filterChoices(c.filters.Values(types.KindLocation))
		var listed []types.Location
		if c.fresh() {
			listed = c.results.locations
		}
		selected, unselected := Reconcile(m.Locations(), listed)
		v.Selected = locationChips(selected)
		v.Results = locationChips(unselected)
	case PhaseReview:
		v.Selected = append(itemChips(m.Items().Values()), locationChips(m.Locations().Values())...)
	}

	return v
}

func filterChoices(values []string) []string {
	out := make([]string, 0, len(values)+1)
	out = append(out, NoFilter)
	return append(out, values...)
}

func itemChips(items []types.Item) []Chip {
	chips := make([]Chip, 0, len(items))
	for _, i := range items {
		chips = append(chips, Chip{Kind: types.KindItem, ID: i.ID, Text: i.Name})
	}
	return chips
}

func locationChips(locs []types.Location) []Chip {
	chips := make([]Chip, 0, len(locs))
	for _, l := range locs {
		chips = append(chips, Chip{Kind: types.KindLocation, ID: l.ID, Text: l.Name})
	}
	return chips
}
