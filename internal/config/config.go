// Package config loads the site description: profile, links, playlist and
// the timing and audio settings of the page.
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"linkamp/internal/playlist"
	"linkamp/pkg/spec"
)

type Config struct {
	Name     string           `json:"name"`
	Handle   string           `json:"handle"`
	Bio      string           `json:"bio"`
	Avatar   string           `json:"avatar"`
	Links    []Link           `json:"links"`
	Playlist []playlist.Track `json:"playlist"`
	Gallery  string           `json:"gallery"`
	Loading  Loading          `json:"loading"`
	Audio    Audio            `json:"audio"`
}

type Link struct {
	Label string `json:"label"`
	URL   string `json:"url"`
	Icon  string `json:"icon,omitempty"`
}

type Loading struct {
	ProgressTickMS int      `json:"progress_tick_ms"`
	StatusTickMS   int      `json:"status_tick_ms"`
	GraceMS        int      `json:"grace_ms"`
	Initial        string   `json:"initial"`
	Messages       []string `json:"messages"`
}

type Audio struct {
	Volume         float64 `json:"volume"`
	RequireGesture bool    `json:"require_gesture"`
	TransformSize  int     `json:"transform_size"`
	Buckets        int     `json:"buckets"`
	FrameMS        int     `json:"frame_ms"`
}

func Default() Config {
	return Config{
		Name:   "SHUBHAM CHOUDHARY",
		Handle: "@animeforensic",
		Bio:    "ANALYZING THE FRAME. DECODING THE STORY.",
		Avatar: "https://i.ibb.co/7Jkp9hZq/Whats-App-Image-2025-09-21-at-6-16-53-PM.jpg",
		Links: []Link{
			{Label: "GITHUB REPOSITORY", URL: "http://github.com/Shubham-Chy/"},
			{Label: "DISCORD COMMUNITY", URL: "https://discord.gg/HBzBMwP22G"},
			{Label: "YOUTUBE CHANNEL", URL: "https://www.youtube.com/@animeforensic"},
		},
		Playlist: []playlist.Track{
			{Title: "Suzume", Artist: "feat. Toaka", Src: "/music/suzume.mp3"},
		},
		Gallery: "data.json",
		Loading: Loading{
			ProgressTickMS: int(spec.ProgressTick / time.Millisecond),
			StatusTickMS:   int(spec.StatusTick / time.Millisecond),
			GraceMS:        int(spec.GraceDelay / time.Millisecond),
			Initial:        spec.InitialStatus,
			Messages:       append([]string(nil), spec.StatusMessages...),
		},
		Audio: Audio{
			Volume:         spec.BackgroundVolume,
			RequireGesture: true,
			TransformSize:  spec.TransformSize,
			Buckets:        spec.BucketCount,
			FrameMS:        int(spec.FrameInterval / time.Millisecond),
		},
	}
}

// Validate reports every problem at once.
func (c *Config) Validate() error {
	var errs []error
	if c.Name == "" {
		errs = append(errs, errors.New("name is required"))
	}
	for i, l := range c.Links {
		if l.Label == "" || l.URL == "" {
			errs = append(errs, fmt.Errorf("links[%d]: label and url are required", i))
		}
	}
	for i, t := range c.Playlist {
		if t.Title == "" || t.Src == "" {
			errs = append(errs, fmt.Errorf("playlist[%d]: title and src are required", i))
		}
	}
	if c.Loading.ProgressTickMS <= 0 || c.Loading.StatusTickMS <= 0 || c.Loading.GraceMS <= 0 {
		errs = append(errs, errors.New("loading: progress_tick_ms, status_tick_ms and grace_ms must be > 0"))
	}
	if len(c.Loading.Messages) == 0 {
		errs = append(errs, errors.New("loading.messages must not be empty"))
	}
	if c.Audio.Volume < 0 || c.Audio.Volume > 1 {
		errs = append(errs, fmt.Errorf("audio.volume %v: must be in [0,1]", c.Audio.Volume))
	}
	n := c.Audio.TransformSize
	if n < spec.MinTransformSize || n > spec.MaxTransformSize || n&(n-1) != 0 {
		errs = append(errs, fmt.Errorf("audio.transform_size %d: must be a power of two in [%d, %d]",
			n, spec.MinTransformSize, spec.MaxTransformSize))
	} else if c.Audio.Buckets < 1 || c.Audio.Buckets > n/2 {
		errs = append(errs, fmt.Errorf("audio.buckets %d: must be in [1, %d]", c.Audio.Buckets, n/2))
	}
	if c.Audio.FrameMS <= 0 {
		errs = append(errs, errors.New("audio.frame_ms must be > 0"))
	}
	return errors.Join(errs...)
}

func (c Config) ProgressTick() time.Duration {
	return time.Duration(c.Loading.ProgressTickMS) * time.Millisecond
}

func (c Config) StatusTick() time.Duration {
	return time.Duration(c.Loading.StatusTickMS) * time.Millisecond
}

func (c Config) Grace() time.Duration {
	return time.Duration(c.Loading.GraceMS) * time.Millisecond
}

func (c Config) FrameInterval() time.Duration {
	return time.Duration(c.Audio.FrameMS) * time.Millisecond
}

// Parse decodes data over the defaults, resolves relative track sources and
// the gallery file against baseDir and validates the result.
func Parse(data []byte, baseDir string) (Config, error) {
	data = bytes.TrimPrefix(data, []byte("\xEF\xBB\xBF"))

	cfg := Default()
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}
	if baseDir != "" {
		for i, t := range cfg.Playlist {
			if t.Src != "" && !filepath.IsAbs(t.Src) {
				cfg.Playlist[i].Src = filepath.Join(baseDir, t.Src)
			}
		}
		if cfg.Gallery != "" && !filepath.IsAbs(cfg.Gallery) {
			cfg.Gallery = filepath.Join(baseDir, cfg.Gallery)
		}
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func Load(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	cfg, err := Parse(b, filepath.Dir(path))
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// ResolvePath picks the config file: the flag value, then $LINKAMP_CONFIG,
// then ~/.linkamp.json.
func ResolvePath(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if p := os.Getenv(spec.ConfigEnv); p != "" {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("locate config: %w", err)
	}
	return filepath.Join(home, spec.ConfigFile), nil
}

// Save writes cfg as indented JSON after validating it.
func Save(path string, cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	b, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(b, '\n'), 0o644)
}
