package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"linkamp/internal/security"
	"linkamp/pkg/audioengine"
	"linkamp/pkg/spec"
)

const app_name = "LINKAMP-Pack"

func main() {
	inPtr := flag.String("in", "", "Source WAV (48kHz, 16-bit, stereo)")
	outPtr := flag.String("out", "", "Output .lamp path (default: next to the WAV)")
	gainPtr := flag.Float64("gain", 1, "Linear gain applied before encoding")
	normPtr := flag.Bool("normalize", false, "Scale the loudest sample to full scale (overrides -gain)")
	sealPtr := flag.Bool("seal", false, "Encrypt frames with a passphrase")
	flag.Parse()

	fmt.Printf("\n%s %s\n", app_name, spec.Version)
	if *inPtr == "" {
		fmt.Println("Usage: linkamp-pack -in track.wav [-out track.lamp] [-normalize] [-seal]")
		os.Exit(2)
	}
	out := *outPtr
	if out == "" {
		out = strings.TrimSuffix(*inPtr, ".wav") + ".lamp"
	}

	frames, err := countFrames(*inPtr)
	if err != nil {
		fmt.Printf("[FAIL] %v\n", err)
		os.Exit(1)
	}

	gain := *gainPtr
	if *normPtr {
		if gain, err = normalizeGain(*inPtr); err != nil {
			fmt.Printf("[FAIL] %v\n", err)
			os.Exit(1)
		}
		fmt.Printf(" >> Normalize gain: %.3f\n", gain)
	}

	var sealer *security.Sealer
	if *sealPtr {
		if sealer, err = askSealer(); err != nil {
			fmt.Printf("[FAIL] %v\n", err)
			os.Exit(1)
		}
	}

	if err := pack(*inPtr, out, gain, sealer, frames); err != nil {
		os.Remove(out)
		fmt.Printf("\n[FAIL] %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("[SUCCESS] Track packed: %s\n", out)
}

func pack(in, out string, gain float64, sealer *security.Sealer, frames int) error {
	f, err := os.Create(out)
	if err != nil {
		return err
	}
	defer f.Close()

	resChan := make(chan audioengine.EncoderResult, 100)
	encErr := make(chan error, 1)
	go func() {
		_, err := audioengine.StreamEncodeWavToOpus(in, gain, resChan)
		encErr <- err
	}()

	bar := NewProgress(frames)
	n, err := audioengine.WriteFramedTrack(f, resChan, sealer, bar.Set)
	if err != nil {
		// Let the encoder finish so it does not block on a full channel.
		for range resChan {
		}
		return err
	}
	if err := <-encErr; err != nil {
		return err
	}
	bar.Finish()
	fmt.Printf(" >> %d frames, %.1fs\n", n, float64(n*spec.FrameSize)/1000)
	return f.Sync()
}

// countFrames estimates the number of 20ms frames from the PCM chunk size.
func countFrames(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return 0, fmt.Errorf("%s: not a WAV file", path)
	}
	if err := dec.FwdToPCM(); err != nil {
		return 0, err
	}
	frameBytes := spec.FrameSamples * spec.Channels * 2
	return int((dec.PCMLen() + int64(frameBytes) - 1) / int64(frameBytes)), nil
}

// normalizeGain scans the whole file for its peak.
func normalizeGain(path string) (float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return 0, fmt.Errorf("%s: not a WAV file", path)
	}
	buf := &audio.IntBuffer{
		Data:   make([]int, spec.SampleRate*spec.Channels),
		Format: &audio.Format{NumChannels: spec.Channels, SampleRate: spec.SampleRate},
	}
	chunk := make([]int16, len(buf.Data))
	gain := 0.0
	for {
		n, err := dec.PCMBuffer(buf)
		if err != nil && !errors.Is(err, io.EOF) {
			return 0, err
		}
		if n == 0 {
			break
		}
		for i := range n {
			chunk[i] = int16(buf.Data[i])
		}
		g := audioengine.PeakGain(chunk[:n])
		if gain == 0 || g < gain {
			gain = g
		}
	}
	if gain == 0 {
		return 1, nil
	}
	return gain, nil
}

func askSealer() (*security.Sealer, error) {
	rl, err := readline.NewEx(&readline.Config{Prompt: ">> "})
	if err != nil {
		return nil, err
	}
	defer rl.Close()

	pass, err := rl.ReadPassword("Passphrase: ")
	if err != nil {
		return nil, err
	}
	again, err := rl.ReadPassword("Repeat passphrase: ")
	if err != nil {
		return nil, err
	}
	if string(pass) != string(again) || len(pass) == 0 {
		return nil, errors.New("passphrases empty or different")
	}
	return security.NewSealer(security.TrackKey(string(pass)))
}
