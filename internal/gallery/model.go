package gallery

import (
	"fmt"
	"log"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Text shown by the archive views.
const (
	ErrorText   = "DATABASE ERROR"
	EmptyText   = "NO RECORDS FOUND."
	LoadingText = "LOADING DATABASE..."
	KeyText     = "GET KEY"
)

// LoadedMsg carries the result of reading the record file.
type LoadedMsg struct {
	Records []Record
	Err     error
}

// CloseMsg asks the parent to leave the archive.
type CloseMsg struct{}

type keyMap struct {
	Up   key.Binding
	Down key.Binding
	Open key.Binding
	Back key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Up:   key.NewBinding(key.WithKeys("up", "ctrl+p"), key.WithHelp("↑", "up")),
		Down: key.NewBinding(key.WithKeys("down", "ctrl+n"), key.WithHelp("↓", "down")),
		Open: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "details")),
		Back: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
	}
}

var (
	titleStyle    = lipgloss.NewStyle().Foreground(lipgloss.ANSIColor(15)).Bold(true)
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.ANSIColor(0)).Background(lipgloss.ANSIColor(15))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.ANSIColor(8))
	keyStyle      = lipgloss.NewStyle().Foreground(lipgloss.ANSIColor(15)).Underline(true)
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.ANSIColor(9)).Bold(true)
)

// Model is the archive view: a searchable title list and a detail pane.
type Model struct {
	path    string
	records []Record
	shown   []Record
	loaded  bool
	err     error
	cursor  int
	detail  bool
	search  textinput.Model
	keys    keyMap
}

// New builds an archive view over the record file at path. Nothing is read
// until Init.
func New(path string) Model {
	ti := textinput.New()
	ti.Prompt = "SEARCH › "
	ti.Placeholder = "title"
	ti.CharLimit = 64
	ti.Focus()
	return Model{path: path, search: ti, keys: defaultKeys()}
}

// Init reads the record file and starts the search cursor.
func (m Model) Init() tea.Cmd {
	path := m.path
	return tea.Batch(textinput.Blink, func() tea.Msg {
		recs, err := Load(path)
		return LoadedMsg{Records: recs, Err: err}
	})
}

// Failed reports whether the record file could not be read.
func (m Model) Failed() bool { return m.err != nil }

// Shown returns the records matching the current search.
func (m Model) Shown() []Record { return m.shown }

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case LoadedMsg:
		m.loaded = true
		if msg.Err != nil {
			log.Printf("GALLERY: %v", msg.Err)
			m.err = msg.Err
			return m, nil
		}
		log.Printf("GALLERY: %d records loaded", len(msg.Records))
		m.records = msg.Records
		m.refilter()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Back) {
		if m.detail {
			m.detail = false
			return m, nil
		}
		return m, func() tea.Msg { return CloseMsg{} }
	}
	if m.err != nil || !m.loaded || m.detail {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Up):
		m.cursor = max(0, m.cursor-1)
		return m, nil
	case key.Matches(msg, m.keys.Down):
		m.cursor = min(len(m.shown)-1, m.cursor+1)
		m.cursor = max(0, m.cursor)
		return m, nil
	case key.Matches(msg, m.keys.Open):
		if len(m.shown) > 0 {
			m.detail = true
		}
		return m, nil
	}

	before := m.search.Value()
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if m.search.Value() != before {
		m.refilter()
	}
	return m, cmd
}

func (m *Model) refilter() {
	m.shown = Filter(m.records, m.search.Value())
	m.cursor = 0
}

func (m Model) View() string {
	switch {
	case m.err != nil:
		return errorStyle.Render(ErrorText) + "\n\n" + dimStyle.Render("esc back")
	case !m.loaded:
		return dimStyle.Render(LoadingText)
	case m.detail:
		return m.detailView(m.shown[m.cursor])
	}

	lines := []string{m.search.View(), ""}
	if len(m.shown) == 0 {
		lines = append(lines, dimStyle.Render(EmptyText))
	}
	for i, r := range m.shown {
		line := r.Title
		if r.KeyURL != "" {
			line += "  [" + KeyText + "]"
		}
		if i == m.cursor {
			line = selectedStyle.Render(line)
		}
		lines = append(lines, line)
	}
	lines = append(lines, "", dimStyle.Render(fmt.Sprintf("%d/%d  ↑↓ move  enter details  esc back", len(m.shown), len(m.records))))
	return strings.Join(lines, "\n")
}

func (m Model) detailView(r Record) string {
	lines := []string{
		titleStyle.Render(r.Title),
		dimStyle.Render("ID: " + r.ID),
		"",
		dimStyle.Render("COVER  ") + r.Image,
	}
	if v := r.VideoURL(); v != "" {
		lines = append(lines, dimStyle.Render("VIDEO  ")+v)
	}
	if r.KeyURL != "" {
		lines = append(lines, keyStyle.Render(KeyText)+"  "+r.KeyURL)
	}
	if len(r.Links) > 0 {
		lines = append(lines, "")
	}
	for _, l := range r.Links {
		line := "» " + l.Label + "  " + dimStyle.Render(l.URL)
		if l.Key != "" {
			line += "  KEY: " + l.Key
		}
		lines = append(lines, line)
	}
	lines = append(lines, "", dimStyle.Render("esc back"))
	return strings.Join(lines, "\n")
}
