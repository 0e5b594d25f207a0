package wizard

import (
	"errors"

	"github.com/GriffinCanCode/chatform/internal/shared/types"
)

// Step indexes.
const (
	StepOption    = 1
	StepItems     = 2
	StepLocations = 3
	StepReview    = 4
)

// NoMaxStep is the final-step value before an option is chosen.
const NoMaxStep = -1

var (
	// ErrWrongStep is returned for an action the current step does not offer.
	ErrWrongStep = errors.New("wizard: action not available at this step")
	// ErrUnknownChip is returned when a chip ID is not currently displayed.
	ErrUnknownChip = errors.New("wizard: unknown chip")
	// ErrUnknownFilter is returned for a builtin filter value not offered.
	ErrUnknownFilter = errors.New("wizard: unknown filter value")
)

// Phase is what the current step asks the user for.
type Phase int

const (
	PhaseOption Phase = iota
	PhaseItems
	PhaseLocations
	PhaseReview
)

// String returns the phase name
func (p Phase) String() string {
	switch p {
	case PhaseOption:
		return "option"
	case PhaseItems:
		return "items"
	case PhaseLocations:
		return "locations"
	case PhaseReview:
		return "review"
	default:
		return "unknown"
	}
}

// Kind returns the catalog kind listed during the phase, "" for review.
func (p Phase) Kind() types.Kind {
	switch p {
	case PhaseOption:
		return types.KindOption
	case PhaseItems:
		return types.KindItem
	case PhaseLocations:
		return types.KindLocation
	default:
		return ""
	}
}

// Directive tells the host what the current state needs.
type Directive struct {
	Phase Phase
	// Fetch is the catalog kind to list, "" when nothing is listed.
	Fetch types.Kind
	// Query scopes item and location listings.
	Query types.Query
	// Final is set when advancing will emit the request.
	Final bool
	// SubmitEnabled reports whether the advance control is active.
	SubmitEnabled bool
}

// Machine is the selection wizard state. It is not safe for concurrent use;
// Controller adds locking.
type Machine struct {
	option    *types.Option
	items     *Selection[types.Item]
	locations *Selection[types.Location]
	step      int
	maxStep   int
	filter    Filter
}

// NewMachine returns a machine at step 1 with nothing chosen
func NewMachine() *Machine {
	m := &Machine{
		items:     NewItemSelection(),
		locations: NewLocationSelection(),
	}
	m.Reset()
	return m
}

// Reset returns to step 1 with no option, empty selections and no filters.
func (m *Machine) Reset() {
	m.option = nil
	m.items.Clear()
	m.locations.Clear()
	m.step = StepOption
	m.maxStep = NoMaxStep
	m.filter.Reset()
}

// Step returns the current step index
func (m *Machine) Step() int { return m.step }

// MaxStep returns the final step index, NoMaxStep before an option is chosen
func (m *Machine) MaxStep() int { return m.maxStep }

// Option returns the chosen option, nil at step 1
func (m *Machine) Option() *types.Option { return m.option }

// Items returns the item selection
func (m *Machine) Items() *Selection[types.Item] { return m.items }

// Locations returns the location selection
func (m *Machine) Locations() *Selection[types.Location] { return m.locations }

// Filter returns the current filter state
func (m *Machine) Filter() Filter { return m.filter }

// Phase returns what the current step asks for
func (m *Machine) Phase() Phase {
	switch {
	case m.option == nil:
		return PhaseOption
	case m.step == StepItems:
		return PhaseItems
	case m.step == StepLocations:
		return PhaseLocations
	default:
		return PhaseReview
	}
}

// Final reports whether advancing from the current step emits the request
func (m *Machine) Final() bool {
	return m.maxStep != NoMaxStep && m.step >= m.maxStep
}

// SubmitEnabled reports whether the advance control is active: the list
// step's selection is non-empty, or the request is under review.
func (m *Machine) SubmitEnabled() bool {
	switch m.Phase() {
	case PhaseItems:
		return m.items.Len() > 0
	case PhaseLocations:
		return m.locations.Len() > 0
	case PhaseReview:
		return true
	default:
		return false
	}
}

// Recompute skips steps the chosen option does not need and returns the
// directive for the resulting state. Calling it again without a state
// change returns the same directive.
func (m *Machine) Recompute() Directive {
	m.skip()

	phase := m.Phase()
	d := Directive{
		Phase:         phase,
		Fetch:         phase.Kind(),
		Final:         m.Final(),
		SubmitEnabled: m.SubmitEnabled(),
	}
	if phase == PhaseItems || phase == PhaseLocations {
		d.Query = m.filter.Query()
	}
	return d
}

func (m *Machine) skip() {
	for m.option != nil {
		switch {
		case m.step == StepItems && !m.option.AskForItem:
			m.step++
		case m.step == StepLocations && !m.option.AskForLocation:
			m.step++
		default:
			return
		}
	}
}

// ChooseOption records the request type and moves to the next step. The
// final step is the current step plus one per list step the option needs.
func (m *Machine) ChooseOption(opt types.Option) error {
	if m.option != nil {
		return ErrWrongStep
	}

	chosen := opt
	m.option = &chosen
	m.items.Clear()
	m.locations.Clear()
	m.maxStep = m.step + boolInt(opt.AskForItem) + boolInt(opt.AskForLocation)
	m.step++
	m.filter.Reset()
	m.skip()
	return nil
}

// ToggleItem adds or removes an item during the items step
func (m *Machine) ToggleItem(item types.Item) (bool, error) {
	if m.Phase() != PhaseItems {
		return false, ErrWrongStep
	}
	return m.items.Toggle(item), nil
}

// ToggleLocation adds or removes a location during the locations step
func (m *Machine) ToggleLocation(loc types.Location) (bool, error) {
	if m.Phase() != PhaseLocations {
		return false, ErrWrongStep
	}
	return m.locations.Toggle(loc), nil
}

// SetBuiltinFilter applies a builtin filter value; see Filter.SetBuiltin.
func (m *Machine) SetBuiltinFilter(value string) bool {
	return m.filter.SetBuiltin(value)
}

// SetSearch applies the search text; see Filter.SetSearch.
func (m *Machine) SetSearch(text string) bool {
	return m.filter.SetSearch(text)
}

// ToggleFilterPanel expands or collapses the filter panel
func (m *Machine) ToggleFilterPanel() {
	m.filter.TogglePanel()
}

// Advance moves forward. When the host is not ready, or the advance control
// is inactive, nothing happens. At the final step the request is returned
// and the machine resets; otherwise the step index grows, filters clear and
// skipped steps are passed.
func (m *Machine) Advance(ready bool) (*types.Request, bool) {
	if !ready || !m.SubmitEnabled() {
		return nil, false
	}

	if m.Final() {
		req := m.Snapshot()
		m.Reset()
		return &req, true
	}

	m.step++
	m.filter.Reset()
	m.skip()
	return nil, false
}

// Snapshot returns a copy of the request built so far
func (m *Machine) Snapshot() types.Request {
	req := types.Request{
		Items:     m.items.Values(),
		Locations: m.locations.Values(),
	}
	if m.option != nil {
		opt := *m.option
		req.Option = &opt
	}
	return req
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
