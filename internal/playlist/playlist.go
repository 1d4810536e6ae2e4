// Package playlist holds the page's background tracks and the cursor that
// cycles through them.
package playlist

// Track is one background song. Src is a file path to an .mp3, .wav or
// framed Opus (.lamp) file; KeyEnv optionally names the environment variable
// holding the passphrase of a sealed track.
type Track struct {
	Title  string `json:"title"`
	Artist string `json:"artist"`
	Src    string `json:"src"`
	KeyEnv string `json:"key_env,omitempty"`
}

// DisplayName formats the track the way the player widget shows it.
func (t Track) DisplayName() string {
	if t.Artist == "" {
		return t.Title
	}
	return t.Title + " // " + t.Artist
}

// Playlist is a fixed ordered list of tracks. The current index wraps to 0
// after the last track.
type Playlist struct {
	tracks []Track
	idx    int
}

// New copies tracks into a Playlist positioned at the first track.
func New(tracks ...Track) *Playlist {
	return &Playlist{tracks: append([]Track(nil), tracks...)}
}

// Len returns the number of tracks.
func (p *Playlist) Len() int { return len(p.tracks) }

// Current returns the current track and its index, or -1 when empty.
func (p *Playlist) Current() (Track, int) {
	if len(p.tracks) == 0 {
		return Track{}, -1
	}
	return p.tracks[p.idx], p.idx
}

// Index returns the current index, or -1 when empty.
func (p *Playlist) Index() int {
	if len(p.tracks) == 0 {
		return -1
	}
	return p.idx
}

// Advance moves to the next track modulo the playlist length.
func (p *Playlist) Advance() Track {
	if len(p.tracks) == 0 {
		return Track{}
	}
	p.idx = (p.idx + 1) % len(p.tracks)
	return p.tracks[p.idx]
}
