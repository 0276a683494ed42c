package tuicmder

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	bubbletea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/papercomputeco/similicana/pkg/card"
	"github.com/papercomputeco/similicana/pkg/render"
	"github.com/papercomputeco/similicana/pkg/session"
	"github.com/papercomputeco/similicana/pkg/typeahead"
	"github.com/papercomputeco/similicana/pkg/weights"
)

const (
	maxSuggestions = 8
	sliderStep     = 1
	barWidth       = 20
	defaultWidth   = 80
	defaultHeight  = 24

	// chromeLines is the header, rule, input, status, rule and footer.
	chromeLines = 6
)

var (
	titleStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
	mutedStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	dividerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("237"))
	labelStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("246")).Bold(true)
	valueStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	highlightStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("235")).Background(lipgloss.Color("214")).Bold(true)
	okStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("70"))
	failStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	warnStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	barStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("215"))
)

type deps struct {
	ctx         context.Context
	session     *session.Session
	typeahead   *typeahead.Typeahead
	search      *session.SearchController
	weights     *session.WeightsController
	bridge      *bridge
	backendURL  string
	initialCard string

	// remember is called after every successful search.
	remember func(name string)
}

type model struct {
	deps

	keys     keyMap
	help     help.Model
	input    textinput.Model
	spinner  spinner.Model
	viewport viewport.Model

	ready       bool
	loading     bool
	focus       focus
	suggestions []card.SearchMatch
	cursor      int
	factor      int
	results     *render.ResultView
	state       weights.State
	alert       string
	status      string
	width       int
	height      int
}

func newModel(d deps) model {
	input := textinput.New()
	input.Prompt = "card › "
	input.Placeholder = "Start typing a card name"
	input.CharLimit = 120

	return model{
		deps:     d,
		keys:     defaultKeyMap(),
		help:     help.New(),
		input:    input,
		spinner:  spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(warnStyle)),
		viewport: viewport.New(defaultWidth, defaultHeight-chromeLines),
		cursor:   -1,
		state:    d.weights.State(),
		width:    defaultWidth,
		height:   defaultHeight,
	}
}

func (m model) Init() bubbletea.Cmd {
	return bubbletea.Batch(m.bridge.listen(), m.spinner.Tick)
}

func (m model) Update(msg bubbletea.Msg) (bubbletea.Model, bubbletea.Cmd) {
	switch msg := msg.(type) {
	case bridged:
		next, cmd := m.Update(msg.msg)
		return next, bubbletea.Batch(cmd, m.bridge.listen())

	case bubbletea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = msg.Width
		m.viewport.Height = max(1, msg.Height-chromeLines)
		m.input.Width = max(10, msg.Width-len(m.input.Prompt)-2)
		m.renderResults()
		return m, nil

	case spinner.TickMsg:
		if m.ready && !m.loading {
			return m, nil
		}
		var cmd bubbletea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case readyMsg:
		return m.markReady()

	case suggestionsMsg:
		m.suggestions = msg.matches
		m.cursor = -1
		return m, nil

	case hideMsg:
		m.suggestions = nil
		m.cursor = -1
		return m, nil

	case alertMsg:
		m.alert = msg.message
		m.status = ""
		return m, nil

	case loadingMsg:
		wasLoading := m.loading
		m.loading = msg.loading
		if m.loading && !wasLoading {
			return m, m.spinner.Tick
		}
		return m, nil

	case resultsMsg:
		view := msg.view
		m.results = &view
		m.renderResults()
		m.viewport.GotoTop()
		return m, nil

	case weightsMsg:
		m.state = msg.state
		return m, nil

	case searchDoneMsg:
		if msg.err == nil && m.remember != nil {
			m.remember(msg.name)
		}
		return m, nil

	case appliedMsg:
		switch {
		case msg.err == nil:
			m.alert = ""
			m.status = "Weights applied"
		case errors.Is(msg.err, weights.ErrInvalidWeights):
			m.alert = msg.err.Error()
		}
		return m, nil

	case bubbletea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m model) handleKey(msg bubbletea.KeyMsg) (bubbletea.Model, bubbletea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m, bubbletea.Quit
	}
	if key.Matches(msg, m.keys.Switch) {
		return m.toggleFocus(), nil
	}
	if key.Matches(msg, m.keys.PageUp) {
		m.viewport.HalfViewUp()
		return m, nil
	}
	if key.Matches(msg, m.keys.PageDown) {
		m.viewport.HalfViewDown()
		return m, nil
	}

	if m.focus == focusWeights {
		return m.handleWeightsKey(msg)
	}
	return m.handleSearchKey(msg)
}

func (m model) handleSearchKey(msg bubbletea.KeyMsg) (bubbletea.Model, bubbletea.Cmd) {
	// Inputs stay disabled until the backend has loaded its cards.
	if !m.ready {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Down):
		if len(m.visibleSuggestions()) > 0 {
			m.cursor = clamp(m.cursor+1, len(m.visibleSuggestions())-1)
		} else {
			m.viewport.LineDown(1)
		}
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if len(m.visibleSuggestions()) > 0 {
			m.cursor = clamp(m.cursor-1, len(m.visibleSuggestions())-1)
		} else {
			m.viewport.LineUp(1)
		}
		return m, nil

	case key.Matches(msg, m.keys.Dismiss):
		m.typeahead.Dismiss()
		m.suggestions = nil
		m.cursor = -1
		return m, nil

	case key.Matches(msg, m.keys.Search):
		name := m.input.Value()
		if m.cursor >= 0 && m.cursor < len(m.visibleSuggestions()) {
			match := m.suggestions[m.cursor]
			m.typeahead.Select(match)
			m.input.SetValue(match.SimpleName)
			m.input.CursorEnd()
			name = match.SimpleName
		} else {
			m.typeahead.Dismiss()
		}
		m.suggestions = nil
		m.cursor = -1
		m.alert = ""
		m.status = ""
		return m, m.searchCmd(name)
	}

	before := m.input.Value()
	var cmd bubbletea.Cmd
	m.input, cmd = m.input.Update(msg)
	if value := m.input.Value(); value != before {
		m.alert = ""
		m.typeahead.Input(value)
	}
	return m, cmd
}

func (m model) handleWeightsKey(msg bubbletea.KeyMsg) (bubbletea.Model, bubbletea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Down):
		m.factor = clamp(m.factor+1, len(card.Factors)-1)
	case key.Matches(msg, m.keys.Up):
		m.factor = clamp(m.factor-1, len(card.Factors)-1)
	case key.Matches(msg, m.keys.Decrease):
		return m.nudge(-sliderStep), nil
	case key.Matches(msg, m.keys.Increase):
		return m.nudge(sliderStep), nil
	case key.Matches(msg, m.keys.Reset):
		m.state = m.weights.Reset()
		m.status = "Default weights restored"
		m.alert = ""
	case key.Matches(msg, m.keys.Apply):
		if !m.state.Valid {
			m.alert = fmt.Sprintf("Weights must sum to 1.00 (currently %.2f)", m.state.Total)
			return m, nil
		}
		m.alert = ""
		m.status = ""
		return m, m.applyCmd()
	case key.Matches(msg, m.keys.Dismiss):
		return m.toggleFocus(), nil
	}
	return m, nil
}

func (m model) markReady() (bubbletea.Model, bubbletea.Cmd) {
	if m.ready {
		return m, nil
	}
	m.ready = true
	m.session.MarkReady()

	cmds := []bubbletea.Cmd{m.input.Focus(), textinput.Blink}
	if name := strings.TrimSpace(m.initialCard); name != "" {
		m.input.SetValue(name)
		m.input.CursorEnd()
		cmds = append(cmds, m.searchCmd(name))
	}
	return m, bubbletea.Batch(cmds...)
}

func (m model) toggleFocus() model {
	if m.focus == focusWeights {
		m.focus = focusSearch
		m.keys.focus = focusSearch
		m.input.Focus()
		return m
	}
	m.typeahead.Dismiss()
	m.suggestions = nil
	m.cursor = -1
	m.focus = focusWeights
	m.keys.focus = focusWeights
	m.input.Blur()
	return m
}

func (m model) nudge(delta int) model {
	f := card.Factors[m.factor]
	value := clamp(m.state.Sliders[f]+delta, weights.SliderMax)
	state, err := m.weights.Set(f, value)
	if err != nil {
		m.alert = err.Error()
		return m
	}
	m.state = state
	m.status = ""
	return m
}

func (m model) searchCmd(name string) bubbletea.Cmd {
	ctx, search := m.ctx, m.search
	return func() bubbletea.Msg {
		_, err := search.Search(ctx, name)
		return searchDoneMsg{name: strings.TrimSpace(name), err: err}
	}
}

func (m model) applyCmd() bubbletea.Cmd {
	ctx, ctrl := m.ctx, m.weights
	return func() bubbletea.Msg {
		_, err := ctrl.Apply(ctx)
		return appliedMsg{err: err}
	}
}

func (m *model) renderResults() {
	if m.results == nil {
		return
	}
	m.viewport.SetContent(render.Text(*m.results, m.width))
}

func (m model) visibleSuggestions() []card.SearchMatch {
	if len(m.suggestions) > maxSuggestions {
		return m.suggestions[:maxSuggestions]
	}
	return m.suggestions
}

func (m model) View() string {
	lines := []string{
		renderHeaderLine(m.width, titleStyle.Render("similicana"), m.headerStatus()),
		renderRule(m.width),
		m.input.View(),
	}

	suggestions := m.viewSuggestions()
	lines = append(lines, suggestions...)
	lines = append(lines, m.viewStatus(), renderRule(m.width))

	if m.focus == focusWeights {
		lines = append(lines, m.viewWeights())
	} else {
		vp := m.viewport
		vp.Height = max(1, vp.Height-len(suggestions))
		lines = append(lines, vp.View())
	}

	lines = append(lines, mutedStyle.Render(m.help.View(m.keys)))
	return strings.Join(lines, "\n")
}

func (m model) headerStatus() string {
	status := okStyle.Render("ready")
	if !m.ready {
		status = warnStyle.Render("initializing")
	}
	return mutedStyle.Render(m.backendURL+" · ") + status
}

func (m model) viewSuggestions() []string {
	visible := m.visibleSuggestions()
	lines := make([]string, 0, len(visible))
	for i, match := range visible {
		label := match.Name
		if label == "" {
			label = match.SimpleName
		}
		if i == m.cursor {
			lines = append(lines, "  "+highlightStyle.Render(" "+label+" "))
			continue
		}
		lines = append(lines, "   "+valueStyle.Render(label))
	}
	return lines
}

func (m model) viewStatus() string {
	switch {
	case !m.ready:
		return m.spinner.View() + " " + warnStyle.Render(session.MsgNotReady)
	case m.loading:
		return m.spinner.View() + " " + mutedStyle.Render("Loading...")
	case m.alert != "":
		return failStyle.Render("✗ " + m.alert)
	case m.status != "":
		return okStyle.Render("✓ " + m.status)
	}
	return ""
}

func (m model) viewWeights() string {
	lines := make([]string, 0, len(card.Factors)+2)
	for i, f := range card.Factors {
		value := m.state.Sliders[f]
		filled := value * barWidth / weights.SliderMax
		bar := barStyle.Render(strings.Repeat("█", filled)) + dividerStyle.Render(strings.Repeat("░", barWidth-filled))

		label := fmt.Sprintf("%-12s", f.Label())
		if i == m.factor {
			label = highlightStyle.Render(label)
		} else {
			label = labelStyle.Render(label)
		}
		lines = append(lines, fmt.Sprintf("  %s %s %s", label, bar, valueStyle.Render(fmt.Sprintf("%.2f", float64(value)/weights.SliderMax))))
	}

	total := fmt.Sprintf("%.2f", m.state.Total)
	if m.state.Valid {
		lines = append(lines, "", fmt.Sprintf("  %s %s", labelStyle.Render(fmt.Sprintf("%-12s", "Total")), okStyle.Render(total+" ✓")))
	} else {
		lines = append(lines, "", fmt.Sprintf("  %s %s %s", labelStyle.Render(fmt.Sprintf("%-12s", "Total")), failStyle.Render(total),
			mutedStyle.Render("(must sum to 1.00 to apply)")))
	}
	return strings.Join(lines, "\n")
}

func renderHeaderLine(width int, left, right string) string {
	if width <= 0 {
		width = defaultWidth
	}
	leftWidth := lipgloss.Width(left)
	rightWidth := lipgloss.Width(right)
	if leftWidth+rightWidth+1 >= width {
		return strings.TrimSpace(left + " " + right)
	}
	return left + strings.Repeat(" ", width-leftWidth-rightWidth) + right
}

func renderRule(width int) string {
	if width <= 0 {
		width = defaultWidth
	}
	return dividerStyle.Render(strings.Repeat("─", width))
}

func clamp(value, upper int) int {
	if value < 0 {
		return 0
	}
	if value > upper {
		return upper
	}
	return value
}
