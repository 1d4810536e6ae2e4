/*
 * Copyright (c) 2025 Hardiyanto Y -Ebiet.
 * This software is part of the HDX (Hardix Audio) project.
 * This code is provided "as is", without warranty of any kind.
 */

package main

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/faiface/beep"
	"github.com/faiface/beep/speaker"

	"linkamp/internal/config"
	"linkamp/internal/playlist"
	"linkamp/internal/security"
	"linkamp/internal/ui"
	"linkamp/internal/visualizer"
	"linkamp/pkg/audioengine"
	"linkamp/pkg/spec"
)

func main() {
	cfgFlag := flag.String("config", "", "Site config path (default $"+spec.ConfigEnv+" or ~/"+spec.ConfigFile+")")
	logPath := flag.String("log", filepath.Join(os.TempDir(), "linkamp.log"), "Log file path")
	flag.Parse()

	if err := run(*cfgFlag, *logPath); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cfgFlag, logPath string) error {
	lf, err := tea.LogToFile(logPath, "")
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	defer lf.Close()

	path, err := config.ResolvePath(cfgFlag)
	if err != nil {
		return err
	}
	cfg, err := config.Load(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		log.Printf("CONFIG: %s not found, using built-in site", path)
		cfg, path = config.Default(), ""
	case err != nil:
		return err
	}

	sr := beep.SampleRate(spec.SampleRate)
	if err := speaker.Init(sr, sr.N(100*time.Millisecond)); err != nil {
		// The page still works; the player stays silent.
		log.Printf("AUDIO: speaker unavailable: %v", err)
	}

	el := audioengine.NewSpeakerElement(sr, nil, cfg.Audio.RequireGesture)
	defer el.Close()
	actx := audioengine.NewContext()
	defer actx.Close()

	bridge := visualizer.New(actx, el, playlist.New(cfg.Playlist...), visualizer.Options{
		TransformSize: cfg.Audio.TransformSize,
		Buckets:       cfg.Audio.Buckets,
		Volume:        cfg.Audio.Volume,
		FrameInterval: cfg.FrameInterval(),
		Resolve:       resolveTrack,
	})

	prog := tea.NewProgram(ui.New(cfg, bridge), tea.WithAltScreen(), tea.WithMouseAllMotion())

	if path != "" {
		w, err := config.Watch(path, func(c config.Config) {
			prog.Send(ui.ReloadMsg{Config: c})
		})
		if err != nil {
			log.Printf("CONFIG: hot reload disabled: %v", err)
		} else {
			defer w.Close()
		}
	}

	log.Printf("UI: %s %s starting", spec.AppName, spec.Version)
	if _, err := prog.Run(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}

// resolveTrack attaches the key of a sealed track from the environment
// variable the playlist entry names.
func resolveTrack(t playlist.Track) audioengine.Source {
	src := audioengine.Source{Ref: t.Src}
	if t.KeyEnv == "" {
		return src
	}
	if pass := os.Getenv(t.KeyEnv); pass != "" {
		src.Key = security.TrackKey(pass)
	} else {
		log.Printf("AUDIO: %s: $%s is empty", t.Title, t.KeyEnv)
	}
	return src
}
