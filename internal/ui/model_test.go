package ui

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"linkamp/internal/config"
	"linkamp/internal/gallery"
	"linkamp/internal/loader"
	"linkamp/internal/playlist"
	"linkamp/internal/visualizer"
	"linkamp/pkg/audioengine"
)

type stubElement struct {
	activated bool
	paused    bool
	muted     bool
	src       string
	ended     chan struct{}
}

func (e *stubElement) Play() error {
	if !e.activated {
		return audioengine.ErrPolicyBlocked
	}
	e.paused = false
	return nil
}

func (e *stubElement) Pause()                { e.paused = true }
func (e *stubElement) Paused() bool          { return e.paused }
func (e *stubElement) SetMuted(m bool)       { e.muted = m }
func (e *stubElement) Muted() bool           { return e.muted }
func (e *stubElement) SetVolume(float64)     {}
func (e *stubElement) Volume() float64       { return 0.1 }
func (e *stubElement) CurrentSource() string { return e.src }
func (e *stubElement) Activate()             { e.activated = true }
func (e *stubElement) Ended() <-chan struct{} {
	return e.ended
}

func (e *stubElement) SetSource(src audioengine.Source) error {
	e.src = src.Ref
	return nil
}

type noContext struct{}

func (noContext) Connect(audioengine.Element) (audioengine.Analyser, error) {
	return nil, audioengine.ErrAnalysisUnavailable
}
func (noContext) Close() error { return nil }

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func newLoaded(t *testing.T) (Model, *stubElement, *clock) {
	t.Helper()
	cfg := config.Default()
	el := &stubElement{paused: true, ended: make(chan struct{}, 1)}
	pl := playlist.New(cfg.Playlist...)
	b := visualizer.New(noContext{}, el, pl, visualizer.Options{})

	m := New(cfg, b)
	c := &clock{t: time.Unix(1000, 0)}
	m.now = c.now

	next, cmd := m.Update(loader.CompleteMsg{})
	if cmd == nil {
		t.Fatal("expected mount to start the frame loop")
	}
	t.Cleanup(b.Teardown)
	return next.(Model), el, c
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

func TestLoadingViewFirst(t *testing.T) {
	m := New(config.Default(), visualizer.New(noContext{}, &stubElement{paused: true}, playlist.New(), visualizer.Options{}))
	if v := m.View(); !strings.Contains(v, "LOADING...") {
		t.Fatalf("expected splash, got %q", v)
	}
}

func TestLoadedView(t *testing.T) {
	m, _, _ := newLoaded(t)
	v := m.View()
	for _, want := range []string{"SHUBHAM", "CHOUDHARY", "@animeforensic", "GITHUB REPOSITORY", "SUZUME // FEAT. TOAKA", "▶"} {
		if !strings.Contains(v, want) {
			t.Errorf("expected %q in view", want)
		}
	}
}

func TestInteractionsBeforeLoadIgnored(t *testing.T) {
	el := &stubElement{paused: true}
	b := visualizer.New(noContext{}, el, playlist.New(), visualizer.Options{})
	m := New(config.Default(), b)
	m = update(t, m, tea.MouseMsg{Action: tea.MouseActionMotion})
	if el.activated {
		t.Fatal("interaction delivered before the player mounted")
	}
}

func TestFirstMotionStartsPlayback(t *testing.T) {
	m, el, _ := newLoaded(t)
	if !el.paused {
		t.Fatal("expected autoplay to be blocked")
	}
	m = update(t, m, tea.MouseMsg{X: 3, Y: 3, Action: tea.MouseActionMotion})
	if el.paused || !el.activated {
		t.Fatal("expected first motion to start playback")
	}
	if v := m.View(); !strings.Contains(v, "❚❚") {
		t.Fatal("expected pause glyph while playing")
	}
}

func TestFirstSpaceStartsWithoutToggling(t *testing.T) {
	m, el, _ := newLoaded(t)
	m = update(t, m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	if el.paused {
		t.Fatal("expected first key to start playback")
	}
	m = update(t, m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	if !el.paused {
		t.Fatal("expected second space to pause")
	}
}

func TestMuteKey(t *testing.T) {
	m, el, _ := newLoaded(t)
	m = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'m'}})
	if !el.muted {
		t.Fatal("expected m to mute")
	}
	if v := m.View(); !strings.Contains(v, "×♪") {
		t.Fatal("expected muted glyph")
	}
}

func clickControl(t *testing.T, m Model) Model {
	t.Helper()
	_, r := m.loadedView()
	m = update(t, m, tea.MouseMsg{X: r.x, Y: r.y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	return update(t, m, tea.MouseMsg{X: r.x, Y: r.y, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})
}

func TestSingleClickTogglesMute(t *testing.T) {
	m, el, c := newLoaded(t)
	m = update(t, m, tea.MouseMsg{Action: tea.MouseActionMotion})

	m = clickControl(t, m)
	if !el.muted || el.paused {
		t.Fatalf("expected muted and still playing, muted=%v paused=%v", el.muted, el.paused)
	}
	c.t = c.t.Add(time.Second)
	m = clickControl(t, m)
	if el.muted || el.paused {
		t.Fatalf("expected unmuted and still playing, muted=%v paused=%v", el.muted, el.paused)
	}
}

func TestDoubleClickTogglesPlayback(t *testing.T) {
	m, el, c := newLoaded(t)
	m = update(t, m, tea.MouseMsg{Action: tea.MouseActionMotion})
	m = update(t, m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	if !el.paused {
		t.Fatal("setup: expected paused player")
	}

	want := []bool{true, false}
	for i, playing := range want {
		c.t = c.t.Add(2 * time.Second)
		m = clickControl(t, m)
		c.t = c.t.Add(150 * time.Millisecond)
		m = clickControl(t, m)
		if el.paused == playing {
			t.Fatalf("double click %d: expected playing=%v", i+1, playing)
		}
		if el.muted {
			t.Fatalf("double click %d: mute flag changed", i+1)
		}
	}
}

func TestClickOutsideControl(t *testing.T) {
	m, el, _ := newLoaded(t)
	m = update(t, m, tea.MouseMsg{X: 0, Y: 0, Action: tea.MouseActionRelease})
	if !el.activated {
		t.Fatal("expected click anywhere to count as first interaction")
	}
	if el.muted {
		t.Fatal("click outside the control toggled mute")
	}
}

func TestReloadAppliesProfileOnly(t *testing.T) {
	m, _, _ := newLoaded(t)
	cfg := config.Default()
	cfg.Bio = "NEW BIO"
	cfg.Links = []config.Link{{Label: "BLOG", URL: "https://example.org"}}
	cfg.Playlist = nil
	m = update(t, m, ReloadMsg{Config: cfg})

	v := m.View()
	if !strings.Contains(v, "NEW BIO") || !strings.Contains(v, "BLOG") {
		t.Fatal("expected reloaded profile in view")
	}
	if strings.Contains(v, "GITHUB REPOSITORY") {
		t.Fatal("expected old links to be replaced")
	}
	if !strings.Contains(v, "SUZUME") {
		t.Fatal("playlist changed on reload")
	}
}

func TestQuit(t *testing.T) {
	m, el, _ := newLoaded(t)
	m = update(t, m, tea.MouseMsg{Action: tea.MouseActionMotion})
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if next.View() != "" {
		t.Fatal("expected empty view after quit")
	}
	if !el.paused {
		t.Fatal("expected player paused on quit")
	}
}

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestArchiveOpensAndCloses(t *testing.T) {
	m, el, _ := newLoaded(t)
	next, cmd := m.Update(runeKey('g'))
	m = next.(Model)
	if cmd == nil || !m.browsing {
		t.Fatal("expected g to open the archive and start loading")
	}
	if v := m.View(); !strings.Contains(v, gallery.LoadingText) {
		t.Fatalf("expected loading archive, got %q", v)
	}

	m = update(t, m, gallery.LoadedMsg{Err: errors.New("open data.json: no such file")})
	if v := m.View(); !strings.Contains(v, gallery.ErrorText) {
		t.Fatalf("expected %q, got %q", gallery.ErrorText, v)
	}

	// Page keys belong to the archive while it is open.
	m = update(t, m, runeKey('m'))
	if el.muted {
		t.Fatal("m muted the player while browsing")
	}
	next, cmd = m.Update(runeKey('q'))
	if next.View() == "" {
		t.Fatal("q quit while browsing")
	}

	next, cmd = next.(Model).Update(tea.KeyMsg{Type: tea.KeyEsc})
	if cmd == nil {
		t.Fatal("expected close command")
	}
	m = update(t, next.(Model), cmd())
	if m.browsing || !strings.Contains(m.View(), "GITHUB REPOSITORY") {
		t.Fatal("expected the page back after closing the archive")
	}
}

func TestArchiveSearch(t *testing.T) {
	m, _, _ := newLoaded(t)
	m = update(t, m, runeKey('g'))
	m = update(t, m, gallery.LoadedMsg{Records: []gallery.Record{
		{ID: "AF-001", Title: "Frieren"},
		{ID: "AF-002", Title: "Suzume"},
	}})
	for _, r := range "FRI" {
		m = update(t, m, runeKey(r))
	}
	v := m.View()
	if !strings.Contains(v, "Frieren") || strings.Contains(v, "Suzume") {
		t.Fatalf("expected only Frieren listed, got %q", v)
	}
}
