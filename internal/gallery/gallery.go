// Package gallery is the page's record archive: a JSON list of titles with
// cover art, an optional key link, an optional video and download links.
package gallery

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Record is one archive entry. Field names follow the data.json layout.
type Record struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Image     string `json:"image"`
	KeyURL    string `json:"keyUrl,omitempty"`
	YoutubeID string `json:"youtubeId,omitempty"`
	Links     []Link `json:"links"`
}

// Link is a download link of a record. Key is shown next to it when set.
type Link struct {
	Label string `json:"label"`
	URL   string `json:"url"`
	Key   string `json:"key,omitempty"`
}

// VideoURL returns the watch URL, or "" when the record has no video. A
// youtubeId of "#" is a placeholder for none.
func (r Record) VideoURL() string {
	if r.YoutubeID == "" || r.YoutubeID == "#" {
		return ""
	}
	return "https://www.youtube.com/watch?v=" + r.YoutubeID
}

// Parse decodes a record list.
func Parse(data []byte) ([]Record, error) {
	data = bytes.TrimPrefix(data, []byte("\xEF\xBB\xBF"))

	var recs []Record
	if err := json.Unmarshal(data, &recs); err != nil {
		return nil, err
	}
	return recs, nil
}

// Load reads the record file at path. It is read fresh on every call.
func Load(path string) ([]Record, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	recs, err := Parse(b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return recs, nil
}

// Filter keeps the records whose title contains term, ignoring case. An
// empty term keeps everything.
func Filter(recs []Record, term string) []Record {
	term = strings.ToLower(term)
	out := make([]Record, 0, len(recs))
	for _, r := range recs {
		if strings.Contains(strings.ToLower(r.Title), term) {
			out = append(out, r)
		}
	}
	return out
}
