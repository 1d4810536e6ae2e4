package gallery

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

const sample = `[
	{"id": "AF-001", "title": "Frieren", "image": "https://img/frieren.jpg", "keyUrl": "https://keys/frieren",
	 "youtubeId": "abc123", "links": [{"label": "DRIVE 1080P", "url": "https://drive/1", "key": "k-1"}]},
	{"id": "AF-002", "title": "Suzume", "image": "https://img/suzume.jpg", "youtubeId": "#", "links": []},
	{"id": "AF-003", "title": "Your Name", "image": "https://img/kimi.jpg", "links": []}
]`

func writeRecords(t *testing.T, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.json")
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestParse(t *testing.T) {
	recs, err := Parse([]byte("\xEF\xBB\xBF" + sample))
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 3 {
		t.Fatalf("expected 3 records, got %d", len(recs))
	}
	r := recs[0]
	if r.KeyURL != "https://keys/frieren" || len(r.Links) != 1 || r.Links[0].Key != "k-1" {
		t.Fatalf("unexpected record %+v", r)
	}
}

func TestVideoURL(t *testing.T) {
	recs, _ := Parse([]byte(sample))
	if got := recs[0].VideoURL(); got != "https://www.youtube.com/watch?v=abc123" {
		t.Fatalf("unexpected video url %q", got)
	}
	if got := recs[1].VideoURL(); got != "" {
		t.Fatalf("expected placeholder id to mean no video, got %q", got)
	}
	if got := recs[2].VideoURL(); got != "" {
		t.Fatalf("expected no video, got %q", got)
	}
}

func TestFilterIgnoresCase(t *testing.T) {
	recs, _ := Parse([]byte(sample))
	got := Filter(recs, "NAME")
	if len(got) != 1 || got[0].ID != "AF-003" {
		t.Fatalf("expected Your Name only, got %+v", got)
	}
	if got := Filter(recs, ""); len(got) != 3 {
		t.Fatalf("expected empty term to keep all, got %d", len(got))
	}
	if got := Filter(recs, "zzz"); len(got) != 0 {
		t.Fatalf("expected no match, got %d", len(got))
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatal("expected error for missing file")
	}
	if _, err := Load(writeRecords(t, `{"not": "a list"}`)); err == nil {
		t.Fatal("expected error for malformed file")
	}
}

// load runs the read command of Init and feeds the result back.
func load(t *testing.T, path string) Model {
	t.Helper()
	m := New(path)
	recs, err := Load(path)
	m, _ = m.Update(LoadedMsg{Records: recs, Err: err})
	return m
}

func typeText(m Model, s string) Model {
	for _, r := range s {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

func TestModelShowsLoading(t *testing.T) {
	m := New("data.json")
	if v := m.View(); !strings.Contains(v, LoadingText) {
		t.Fatalf("expected loading text, got %q", v)
	}
}

func TestModelLoadFailure(t *testing.T) {
	m := load(t, filepath.Join(t.TempDir(), "missing.json"))
	if !m.Failed() {
		t.Fatal("expected failed state")
	}
	if v := m.View(); !strings.Contains(v, ErrorText) {
		t.Fatalf("expected %q, got %q", ErrorText, v)
	}
}

func TestModelSearchFilters(t *testing.T) {
	m := load(t, writeRecords(t, sample))
	if len(m.Shown()) != 3 {
		t.Fatalf("expected all records shown, got %d", len(m.Shown()))
	}
	if v := m.View(); !strings.Contains(v, "Frieren  ["+KeyText+"]") {
		t.Fatalf("expected key marker on Frieren, got %q", v)
	}

	m = typeText(m, "suz")
	if len(m.Shown()) != 1 || m.Shown()[0].Title != "Suzume" {
		t.Fatalf("expected Suzume only, got %+v", m.Shown())
	}

	m = typeText(m, "q")
	if v := m.View(); !strings.Contains(v, EmptyText) {
		t.Fatalf("expected %q, got %q", EmptyText, v)
	}
}

func TestModelDetail(t *testing.T) {
	m := load(t, writeRecords(t, sample))
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	v := m.View()
	for _, want := range []string{"ID: AF-001", KeyText, "https://keys/frieren", "watch?v=abc123", "DRIVE 1080P", "KEY: k-1"} {
		if !strings.Contains(v, want) {
			t.Errorf("expected %q in detail view", want)
		}
	}

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if cmd != nil {
		t.Fatal("esc in detail should return to the list, not close")
	}
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if v := m.View(); !strings.Contains(v, "ID: AF-002") || strings.Contains(v, "VIDEO") {
		t.Fatalf("expected Suzume detail without video, got %q", v)
	}
}

func TestModelEscCloses(t *testing.T) {
	m := load(t, writeRecords(t, sample))
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if cmd == nil {
		t.Fatal("expected close command")
	}
	if _, ok := cmd().(CloseMsg); !ok {
		t.Fatal("expected CloseMsg")
	}
}
