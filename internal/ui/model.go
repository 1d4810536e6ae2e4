// Package ui implements the page: the loading splash, then the profile,
// links and background player with its bar visualizer.
package ui

import (
	"log"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"linkamp/internal/config"
	"linkamp/internal/gallery"
	"linkamp/internal/interaction"
	"linkamp/internal/loader"
	"linkamp/internal/visualizer"
	"linkamp/pkg/spec"
)

type phase int

const (
	phaseLoading phase = iota
	phaseLoaded
)

// ReloadMsg carries a config version picked up while running. Only the
// profile, the links and the gallery file are applied.
type ReloadMsg struct{ Config config.Config }

// Model is the root Bubbletea model.
type Model struct {
	cfg    config.Config
	phase  phase
	splash loader.Model
	bridge *visualizer.Bridge
	keys   keyMap
	help   help.Model

	// archive view, replacing the page while open
	gallery  gallery.Model
	browsing bool

	now       func() time.Time
	lastClick time.Time

	width    int
	height   int
	quitting bool
}

// New builds the page around a bridge that is mounted once loading ends.
func New(cfg config.Config, bridge *visualizer.Bridge) Model {
	return Model{
		cfg: cfg,
		splash: loader.NewModel(loader.Options{
			ProgressTick: cfg.ProgressTick(),
			StatusTick:   cfg.StatusTick(),
			Grace:        cfg.Grace(),
			Initial:      cfg.Loading.Initial,
			Messages:     cfg.Loading.Messages,
		}),
		bridge: bridge,
		keys:   defaultKeys(),
		help:   help.New(),
		now:    time.Now,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.splash.Init(), tea.WindowSize())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		var cmd tea.Cmd
		m.splash, cmd = m.splash.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		m.handleMouse(msg)
		return m, nil

	case loader.CompleteMsg:
		if m.phase != phaseLoading {
			return m, nil
		}
		m.phase = phaseLoaded
		m.splash.Teardown()
		log.Printf("UI: loading complete, mounting player")
		return m, m.bridge.Mount()

	case visualizer.FrameMsg, visualizer.TrackEndedMsg:
		return m, m.bridge.Update(msg)

	case ReloadMsg:
		m.cfg.Name = msg.Config.Name
		m.cfg.Handle = msg.Config.Handle
		m.cfg.Bio = msg.Config.Bio
		m.cfg.Avatar = msg.Config.Avatar
		m.cfg.Links = msg.Config.Links
		m.cfg.Gallery = msg.Config.Gallery
		return m, nil

	case gallery.CloseMsg:
		m.browsing = false
		return m, nil
	}

	var cmd tea.Cmd
	switch {
	case m.phase == phaseLoading:
		m.splash, cmd = m.splash.Update(msg)
	case m.browsing:
		m.gallery, cmd = m.gallery.Update(msg)
	}
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	first := false
	if m.phase == phaseLoaded {
		first = m.bridge.Dispatch(interaction.KeyDown)
	}

	if m.browsing && msg.Type != tea.KeyCtrlC {
		var cmd tea.Cmd
		m.gallery, cmd = m.gallery.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		m.splash.Teardown()
		m.bridge.Teardown()
		return m, tea.Quit
	case m.phase != phaseLoaded:
	case key.Matches(msg, m.keys.Mute):
		m.bridge.ToggleMute()
	case key.Matches(msg, m.keys.PlayPause):
		// The first gesture already started playback.
		if !first {
			m.bridge.TogglePlayPause()
		}
	case key.Matches(msg, m.keys.Gallery):
		m.browsing = true
		m.gallery = gallery.New(m.cfg.Gallery)
		return m, m.gallery.Init()
	}
	return m, nil
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	if m.phase != phaseLoaded {
		return
	}
	switch msg.Action {
	case tea.MouseActionMotion:
		m.bridge.Dispatch(interaction.PointerMove)
	case tea.MouseActionPress:
		m.bridge.Dispatch(interaction.PointerDown)
	case tea.MouseActionRelease:
		m.bridge.Dispatch(interaction.Click)
		if m.browsing {
			return
		}
		if _, r := m.loadedView(); r.contains(msg.X, msg.Y) {
			m.clickControl()
		}
	}
}

// clickControl toggles mute on every click; a second click inside the
// double-click window also toggles play/pause, so a double click leaves
// the mute flag where it was.
func (m *Model) clickControl() {
	m.bridge.ToggleMute()
	now := m.now()
	if !m.lastClick.IsZero() && now.Sub(m.lastClick) <= spec.DoubleClickWindow {
		m.bridge.TogglePlayPause()
		m.lastClick = time.Time{}
		return
	}
	m.lastClick = now
}
