// Package tui is the terminal front end: a bubbletea program that renders
// what the controller shows and turns key presses into intents.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/bft-labs/labelrec/internal/app"
	"github.com/bft-labs/labelrec/internal/capture"
	"github.com/bft-labs/labelrec/internal/domain"
	"github.com/bft-labs/labelrec/internal/ports"
)

// maxLogLines bounds the live capture log. The capture buffer itself is not
// affected.
const maxLogLines = 2000

type promptMode int

const (
	promptNone promptMode = iota
	promptChecklist
	promptOutputDir
)

// Options configures the Model.
type Options struct {
	Intents       Queue
	Dialogs       ports.Dialogs
	NativeDialogs bool
	Port          string
	Checklist     string
	OutputDir     string
}

// Model is the root bubbletea model.
type Model struct {
	intents       Queue
	dialogs       ports.Dialogs
	nativeDialogs bool
	keys          keyMap

	// Startup selections, applied by Init.
	initialPort      string
	initialChecklist string

	portList  []string
	portIndex int
	port      string

	checklist string
	people    []string
	person    string
	outputDir string

	banner   domain.LabelSnapshot
	hasLabel bool
	elapsed  string
	controls domain.Controls

	log       []string
	reviewing bool
	viewport  viewport.Model

	errText  string
	errTitle string

	prompt     textinput.Model
	promptMode promptMode

	width  int
	height int
}

// New creates the Model.
func New(opts Options) Model {
	ti := textinput.New()
	ti.CharLimit = 4096

	return Model{
		intents:          opts.Intents,
		dialogs:          opts.Dialogs,
		nativeDialogs:    opts.NativeDialogs && opts.Dialogs != nil,
		keys:             defaultKeyMap(),
		initialPort:      opts.Port,
		initialChecklist: opts.Checklist,
		port:             opts.Port,
		outputDir:        opts.OutputDir,
		elapsed:          capture.FormatElapsed(0),
		viewport:         viewport.New(80, 10),
		prompt:           ti,
		controls:         domain.Controls{Connect: true},
	}
}

// Init refreshes the port list and applies the configured port and
// checklist.
func (m Model) Init() tea.Cmd {
	var intents []app.Intent
	intents = append(intents, app.RefreshPorts{})
	if m.initialChecklist != "" {
		intents = append(intents, app.ChooseChecklist{Path: m.initialChecklist})
	}
	if m.initialPort != "" {
		intents = append(intents, app.Connect{Device: m.initialPort})
	}
	m.intents.Enqueue(intents...)
	return nil
}

// dispatch queues intents behind any already pending, so key presses reach
// the controller in the order they were typed.
func (m Model) dispatch(intents ...app.Intent) tea.Cmd {
	m.intents.Enqueue(intents...)
	return nil
}

// Update processes messages and returns the updated model and any commands.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = msg.Width
		m.viewport.Height = m.logHeight()
		m.prompt.Width = max(10, msg.Width-20)
		return m, nil

	case elapsedMsg:
		m.elapsed = capture.FormatElapsed(msg.d)
		return m, nil

	case lineMsg:
		if m.reviewing {
			m.log = m.log[:0]
			m.reviewing = false
		}
		m.log = append(m.log, msg.line)
		if len(m.log) > maxLogLines {
			m.log = m.log[len(m.log)-maxLogLines:]
		}
		m.viewport.SetContent(strings.Join(m.log, "\n"))
		m.viewport.GotoBottom()
		return m, nil

	case reviewMsg:
		m.log = m.log[:0]
		m.reviewing = true
		m.viewport.SetContent(strings.TrimSuffix(msg.text, "\n"))
		m.viewport.GotoTop()
		return m, nil

	case labelMsg:
		m.banner = msg.snapshot
		m.hasLabel = true
		return m, nil

	case errorMsg:
		m.errText, m.errTitle = msg.text, msg.title
		return m, nil

	case controlsMsg:
		m.controls = msg.controls
		return m, nil

	case portsMsg:
		m.setPorts(msg.names)
		return m, nil

	case checklistMsg:
		m.checklist, m.people, m.person = msg.name, msg.people, msg.person
		return m, nil

	case pickedMsg:
		return m.applyPicked(msg.mode, msg.path)

	case pickFailedMsg:
		return m.openPrompt(msg.mode), nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// setPorts keeps the selected port when it is still present.
func (m *Model) setPorts(names []string) {
	m.portList = names
	for i, n := range names {
		if n == m.port {
			m.portIndex = i
			return
		}
	}
	m.portIndex = 0
	m.port = ""
	if len(names) > 0 {
		m.port = names[0]
	}
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.errText != "" {
		if key.Matches(msg, m.keys.Dismiss) {
			m.errText, m.errTitle = "", ""
		}
		return m, nil
	}
	if m.promptMode != promptNone {
		return m.handlePromptKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Start):
		return m, m.dispatch(app.Start{})

	case key.Matches(msg, m.keys.Stop):
		return m, m.dispatch(app.Stop{})

	case key.Matches(msg, m.keys.Mark):
		return m, m.dispatch(app.MarkSegment{})

	case key.Matches(msg, m.keys.Save):
		return m, m.dispatch(app.Save{OutputRoot: m.outputDir})

	case key.Matches(msg, m.keys.Connect):
		return m, m.dispatch(app.Connect{Device: m.port})

	case key.Matches(msg, m.keys.Disconnect):
		return m, m.dispatch(app.Disconnect{})

	case key.Matches(msg, m.keys.Port):
		if len(m.portList) > 0 {
			m.portIndex = (m.portIndex + 1) % len(m.portList)
			m.port = m.portList[m.portIndex]
		}
		return m, m.dispatch(app.RefreshPorts{})

	case key.Matches(msg, m.keys.Person):
		if len(m.people) < 2 {
			return m, nil
		}
		next := m.people[0]
		for i, p := range m.people {
			if p == m.person {
				next = m.people[(i+1)%len(m.people)]
				break
			}
		}
		return m, m.dispatch(app.ChangePerson{Person: next})

	case key.Matches(msg, m.keys.Checklist):
		return m.pick(promptChecklist)

	case key.Matches(msg, m.keys.OutputDir):
		return m.pick(promptOutputDir)
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) pick(mode promptMode) (tea.Model, tea.Cmd) {
	if !m.nativeDialogs {
		return m.openPrompt(mode), textinput.Blink
	}
	dialogs := m.dialogs
	outputDir := m.outputDir
	return m, func() tea.Msg {
		var path string
		var err error
		if mode == promptChecklist {
			path, err = dialogs.PickChecklist("")
		} else {
			path, err = dialogs.PickOutputDir(outputDir)
		}
		if err != nil {
			return pickFailedMsg{mode: mode, err: err}
		}
		return pickedMsg{mode: mode, path: path}
	}
}

func (m Model) openPrompt(mode promptMode) Model {
	m.promptMode = mode
	m.prompt.Reset()
	if mode == promptChecklist {
		m.prompt.Placeholder = "path/to/checklist.csv"
	} else {
		m.prompt.Placeholder = "output directory"
		m.prompt.SetValue(m.outputDir)
	}
	m.prompt.Focus()
	return m
}

func (m Model) handlePromptKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc, tea.KeyCtrlC:
		m.promptMode = promptNone
		m.prompt.Blur()
		return m, nil
	case tea.KeyEnter:
		mode := m.promptMode
		m.promptMode = promptNone
		m.prompt.Blur()
		return m.applyPicked(mode, strings.TrimSpace(m.prompt.Value()))
	}

	var cmd tea.Cmd
	m.prompt, cmd = m.prompt.Update(msg)
	return m, cmd
}

func (m Model) applyPicked(mode promptMode, path string) (tea.Model, tea.Cmd) {
	if path == "" {
		return m, nil
	}
	if mode == promptOutputDir {
		m.outputDir = path
		return m, nil
	}
	return m, m.dispatch(app.ChooseChecklist{Path: path})
}

func (m Model) logHeight() int {
	if m.height == 0 {
		return 10
	}
	// header, port, banner, status, two dividers, footer
	return max(3, m.height-8)
}

// View renders the full TUI.
func (m Model) View() string {
	var sections []string
	sections = append(sections, m.renderHeader())
	sections = append(sections, m.renderPort())
	sections = append(sections, m.renderBanner())
	sections = append(sections, m.renderStatus())

	width := m.width
	if width == 0 {
		width = 80
	}
	divider := dividerStyle.Render(strings.Repeat("─", width))
	sections = append(sections, divider, m.viewport.View(), divider)

	switch {
	case m.errText != "":
		sections = append(sections, m.renderDialog())
	case m.promptMode != promptNone:
		sections = append(sections, m.renderPrompt())
	default:
		sections = append(sections, m.renderFooter())
	}
	return strings.Join(sections, "\n")
}

func (m Model) renderHeader() string {
	title := titleStyle.Render("LABELREC")
	checklist := "no checklist"
	if m.checklist != "" {
		checklist = m.checklist
	}
	person := ""
	if m.person != "" {
		person = " · " + m.person
	}
	out := m.outputDir
	if out == "" {
		out = "."
	}
	return title + dimStyle.Render("  "+checklist+person+" → "+out)
}

func (m Model) renderPort() string {
	if len(m.portList) == 0 {
		return dimStyle.Render("Port: none found")
	}
	return fmt.Sprintf("Port: %s %s", m.port, dimStyle.Render(fmt.Sprintf("(%d/%d)", m.portIndex+1, len(m.portList))))
}

func (m Model) renderBanner() string {
	switch {
	case !m.hasLabel:
		return dimStyle.Render("Open a checklist to begin.")
	case m.banner.Finished:
		return finishedStyle.Render(m.banner.String())
	}
	return bannerStyle.Render(m.banner.String())
}

func (m Model) renderStatus() string {
	dot := idleStyle.Render("○ IDLE")
	if m.controls.Stop {
		dot = recordingStyle.Render("● REC")
	}
	return dot + "  " + m.elapsed
}

func (m Model) renderDialog() string {
	body := dialogTitleStyle.Render(m.errTitle) + "\n" + m.errText + "\n" + dimStyle.Render("enter to dismiss")
	return dialogStyle.Render(body)
}

func (m Model) renderPrompt() string {
	label := "Checklist: "
	if m.promptMode == promptOutputDir {
		label = "Output dir: "
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, label, m.prompt.View())
}

func (m Model) renderFooter() string {
	type entry struct {
		b       key.Binding
		enabled bool
	}
	entries := []entry{
		{m.keys.Start, m.controls.Start},
		{m.keys.Stop, m.controls.Stop},
		{m.keys.Mark, m.controls.Mark},
		{m.keys.Save, m.controls.Save},
		{m.keys.Connect, m.controls.Connect},
		{m.keys.Disconnect, m.controls.Connect},
		{m.keys.Port, true},
		{m.keys.Person, len(m.people) > 1},
		{m.keys.Checklist, !m.controls.Stop},
		{m.keys.OutputDir, true},
		{m.keys.Quit, true},
	}

	parts := make([]string, 0, len(entries))
	for _, e := range entries {
		h := e.b.Help()
		if !e.enabled {
			parts = append(parts, disabledKeyStyle.Render(h.Key+" "+h.Desc))
			continue
		}
		parts = append(parts, footerKeyStyle.Render(h.Key)+" "+footerDescStyle.Render(h.Desc))
	}
	return strings.Join(parts, "  ")
}
