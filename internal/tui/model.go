package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/GriffinCanCode/chatform/internal/domain/wizard"
	"github.com/GriffinCanCode/chatform/internal/shared/types"
)

// ErrCanceled is reported when the user quits without finishing.
var ErrCanceled = errors.New("wizard canceled")

// Receipts exposes the last message the emitter posted.
type Receipts interface {
	Last() (types.Message, bool)
}

type focus int

const (
	focusChips focus = iota
	focusSearch
	focusFilters
)

type refreshedMsg struct{}

type advancedMsg struct {
	emitted bool
	err     error
}

// Model is the bubbletea model hosting one wizard.
type Model struct {
	ctx      context.Context
	ctrl     *wizard.Controller
	receipts Receipts
	theme    Theme

	view    wizard.View
	focus   focus
	cursor  int
	filter  int
	search  textinput.Model
	spinner spinner.Model
	sending bool

	status    string
	errorLine string
	err       error
}

// New builds a model for ctrl; receipts supplies the status line after a send.
func New(ctx context.Context, ctrl *wizard.Controller, receipts Receipts, theme Theme) Model {
	search := textinput.New()
	search.Prompt = "search: "
	search.Placeholder = "type to filter"
	search.CharLimit = 128
	search.PlaceholderStyle = theme.Muted

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		ctx:      ctx,
		ctrl:     ctrl,
		receipts: receipts,
		theme:    theme,
		view:     ctrl.View(),
		search:   search,
		spinner:  sp,
	}
}

// Err returns why the program stopped, if it did not end normally.
func (m Model) Err() error { return m.err }

// Init starts the first listing fetch, the spinner and the cursor blink.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.refresh(), m.spinner.Tick, textinput.Blink)
}

func (m Model) refresh() tea.Cmd {
	ctrl, ctx := m.ctrl, m.ctx
	return func() tea.Msg {
		ctrl.Refresh(ctx)
		return refreshedMsg{}
	}
}

func (m Model) advance() tea.Cmd {
	ctrl, ctx, ready := m.ctrl, m.ctx, !m.view.Loading
	return func() tea.Msg {
		emitted, err := ctrl.Advance(ctx, ready)
		return advancedMsg{emitted: emitted, err: err}
	}
}

// chips lists the selectable entries in display order: selected first.
func (m Model) chips() []wizard.Chip {
	out := make([]wizard.Chip, 0, len(m.view.Selected)+len(m.view.Results))
	if m.view.Phase != wizard.PhaseReview {
		out = append(out, m.view.Selected...)
	}
	return append(out, m.view.Results...)
}

// sync re-reads the controller and keeps cursors in range.
func (m *Model) sync() {
	m.view = m.ctrl.View()
	if n := len(m.chips()); m.cursor >= n {
		m.cursor = max(0, n-1)
	}
	if m.filter >= len(m.view.Filters) {
		m.filter = max(0, len(m.view.Filters)-1)
	}
	if !m.view.ShowFilters && m.focus == focusFilters {
		m.focus = focusChips
	}
	if m.search.Value() != m.view.Search && m.focus != focusSearch {
		m.search.SetValue(m.view.Search)
	}
}

func (m Model) filterable() bool {
	return m.view.Phase == wizard.PhaseItems || m.view.Phase == wizard.PhaseLocations
}

// Update handles keys and fetch/send completions.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case refreshedMsg:
		m.sync()
		return m, nil
	case advancedMsg:
		m.sending = false
		m.sync()
		m.search.SetValue("")
		switch {
		case msg.err != nil:
			m.errorLine = msg.err.Error()
			m.status = ""
		case msg.emitted:
			m.errorLine = ""
			m.status = "sent"
			if m.receipts != nil {
				if last, ok := m.receipts.Last(); ok {
					m.status = fmt.Sprintf("sent %s: %s", last.ID, firstLine(last.Content))
				}
			}
		}
		return m, m.refresh()
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.focus == focusSearch {
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		m.err = ErrCanceled
		return m, tea.Quit
	}

	switch m.focus {
	case focusSearch:
		return m.handleSearchKey(msg)
	case focusFilters:
		return m.handleFilterKey(msg)
	}

	switch msg.Type {
	case tea.KeyEsc:
		m.err = ErrCanceled
		return m, tea.Quit
	case tea.KeyUp:
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil
	case tea.KeyDown:
		if m.cursor < len(m.chips())-1 {
			m.cursor++
		}
		return m, nil
	case tea.KeyEnter, tea.KeySpace:
		return m.activate()
	case tea.KeyTab:
		if m.filterable() {
			m.focus = focusSearch
			return m, m.search.Focus()
		}
		return m, nil
	case tea.KeyCtrlS:
		return m.submit()
	case tea.KeyRunes:
		switch msg.String() {
		case "k":
			return m.Update(tea.KeyMsg{Type: tea.KeyUp})
		case "j":
			return m.Update(tea.KeyMsg{Type: tea.KeyDown})
		case "n", "s":
			return m.submit()
		case "f":
			if m.filterable() {
				m.ctrl.ToggleFilterPanel()
				m.sync()
				if m.view.ShowFilters {
					m.focus = focusFilters
				}
			}
			return m, nil
		case "q":
			m.err = ErrCanceled
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc, tea.KeyTab, tea.KeyEnter:
		m.focus = focusChips
		m.search.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if m.search.Value() == m.view.Search {
		return m, cmd
	}
	m.ctrl.SetSearch(m.search.Value())
	m.sync()
	return m, tea.Batch(cmd, m.refresh())
}

func (m Model) handleFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.ctrl.ToggleFilterPanel()
		m.focus = focusChips
		m.sync()
		return m, nil
	case tea.KeyUp:
		if m.filter > 0 {
			m.filter--
		}
		return m, nil
	case tea.KeyDown:
		if m.filter < len(m.view.Filters)-1 {
			m.filter++
		}
		return m, nil
	case tea.KeyEnter, tea.KeySpace:
		if len(m.view.Filters) == 0 {
			return m, nil
		}
		if err := m.ctrl.SetBuiltinFilter(m.view.Filters[m.filter]); err != nil {
			m.errorLine = err.Error()
			return m, nil
		}
		m.sync()
		if !m.view.ShowFilters {
			m.focus = focusChips
		}
		return m, m.refresh()
	}
	return m, nil
}

func (m Model) activate() (tea.Model, tea.Cmd) {
	chips := m.chips()
	if len(chips) == 0 {
		return m, nil
	}
	chip := chips[m.cursor]

	var err error
	if chip.Kind == types.KindOption {
		err = m.ctrl.ChooseOption(chip.ID)
		m.cursor = 0
	} else {
		err = m.ctrl.Toggle(chip.Kind, chip.ID)
	}
	if err != nil {
		m.errorLine = err.Error()
		return m, nil
	}

	m.errorLine = ""
	m.sync()
	return m, m.refresh()
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	if m.sending || m.view.SubmitDisabled {
		return m, nil
	}
	m.sending = true
	m.cursor = 0
	return m, m.advance()
}

// View renders the current wizard step.
func (m Model) View() string {
	var b strings.Builder
	v := m.view

	b.WriteString(m.theme.Header.Render(fmt.Sprintf("chatform · step %d", v.Step)))
	b.WriteString("\n\n")
	b.WriteString(m.theme.Notice.Render(v.Notice))
	b.WriteString("\n")

	if m.filterable() {
		active := v.ActiveFilter
		if active == "" {
			active = wizard.NoFilter
		}
		b.WriteString(m.search.View())
		b.WriteString(m.theme.Muted.Render(fmt.Sprintf("   filter: %s (f)", active)))
		b.WriteString("\n")
		if v.ShowFilters {
			b.WriteString(m.renderFilters())
			b.WriteString("\n")
		}
	}
	b.WriteString("\n")

	if v.Phase == wizard.PhaseReview {
		for _, chip := range v.Selected {
			b.WriteString("  " + m.theme.Selected.Render("✓ "+chip.Text) + "\n")
		}
	}

	chips := m.chips()
	selected := 0
	if v.Phase != wizard.PhaseReview {
		selected = len(v.Selected)
	}
	for i, chip := range chips {
		line := "  " + chip.Text
		if i < selected {
			line = m.theme.Selected.Render("✓ " + chip.Text)
		}
		if i == m.cursor && m.focus == focusChips {
			line = m.theme.Cursor.Render(line)
		}
		b.WriteString("  " + line + "\n")
	}
	if v.Loading {
		b.WriteString("  " + m.spinner.View() + m.theme.Muted.Render(" loading") + "\n")
	} else if len(chips) == 0 && v.Phase != wizard.PhaseReview {
		b.WriteString(m.theme.Muted.Render("  no results") + "\n")
	}

	b.WriteString("\n")
	switch {
	case m.sending:
		b.WriteString(m.spinner.View() + " " + v.ButtonLabel)
	case v.SubmitDisabled:
		b.WriteString(m.theme.Disabled.Render(v.ButtonLabel))
	default:
		b.WriteString(m.theme.Button.Render(v.ButtonLabel))
	}
	b.WriteString("\n")

	if m.status != "" {
		b.WriteString(m.theme.Success.Render(m.status) + "\n")
	}
	if m.errorLine != "" {
		b.WriteString(m.theme.Error.Render(m.errorLine) + "\n")
	}
	b.WriteString(m.theme.Muted.Render("↑/↓ move · enter select · tab search · f filters · n next · q quit"))
	b.WriteString("\n")
	return b.String()
}

func (m Model) renderFilters() string {
	lines := make([]string, 0, len(m.view.Filters))
	for i, value := range m.view.Filters {
		marker := "  "
		if value == m.view.ActiveFilter || (value == wizard.NoFilter && m.view.ActiveFilter == "") {
			marker = "• "
		}
		line := marker + value
		if i == m.filter && m.focus == focusFilters {
			line = m.theme.Cursor.Render(line)
		}
		lines = append(lines, line)
	}
	return m.theme.Panel.Render(strings.Join(lines, "\n"))
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

// Run hosts the wizard until the user quits.
func Run(ctx context.Context, ctrl *wizard.Controller, receipts Receipts, theme Theme, opts ...tea.ProgramOption) error {
	opts = append([]tea.ProgramOption{tea.WithContext(ctx), tea.WithAltScreen()}, opts...)
	prog := tea.NewProgram(New(ctx, ctrl, receipts, theme), opts...)
	out, err := prog.Run()
	if err != nil {
		return err
	}
	if final, ok := out.(Model); ok && final.err != nil && !errors.Is(final.err, ErrCanceled) {
		return final.err
	}
	return nil
}
