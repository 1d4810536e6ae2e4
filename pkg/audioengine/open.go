package audioengine

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/faiface/beep"
	"github.com/faiface/beep/mp3"
)

// Open decodes src by file extension: .mp3, .wav or .lamp.
func Open(src Source) (beep.StreamSeekCloser, beep.Format, error) {
	ext := strings.ToLower(filepath.Ext(src.Ref))
	switch ext {
	case ".mp3", ".wav", ".lamp":
	default:
		return nil, beep.Format{}, fmt.Errorf("%q: %w", ext, ErrUnsupportedFormat)
	}

	f, err := os.Open(src.Ref)
	if err != nil {
		return nil, beep.Format{}, err
	}

	var (
		s      beep.StreamSeekCloser
		format beep.Format
	)
	switch ext {
	case ".mp3":
		s, format, err = mp3.Decode(f)
	case ".wav":
		s, format, err = DecodeWav(f)
	case ".lamp":
		s, format, err = NewFramedStreamer(f, src.Key)
	}
	if err != nil {
		f.Close()
		return nil, beep.Format{}, err
	}
	return s, format, nil
}
