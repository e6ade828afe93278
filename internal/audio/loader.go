package audio

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"

	"gramscore/internal/domain"
)

// FileLoader reads user-selected files without transcoding them.
type FileLoader struct {
	log zerolog.Logger
}

func NewFileLoader(log zerolog.Logger) *FileLoader {
	return &FileLoader{log: log}
}

// Load returns the file's bytes under its base name. The type comes from the
// extension when known, otherwise from the content.
func (l *FileLoader) Load(path string) (domain.AudioSample, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.AudioSample{}, fmt.Errorf("read audio file %q: %w", path, err)
	}

	sample := domain.AudioSample{
		Name:        filepath.Base(path),
		ContentType: contentType(path, data),
		Data:        data,
	}

	event := l.log.Debug().
		Str("name", sample.Name).
		Str("type", sample.ContentType).
		Int("bytes", len(data))
	if info, err := InspectWAV(data); err == nil {
		event = event.Dur("duration", info.Duration).Int("sample_rate", info.SampleRate)
	}
	event.Msg("audio file selected")

	return sample, nil
}

// System mime tables disagree on audio types, so the common ones are pinned.
var audioTypes = map[string]string{
	".wav":  WAVType,
	".mp3":  "audio/mpeg",
	".m4a":  "audio/mp4",
	".ogg":  "audio/ogg",
	".flac": "audio/flac",
	".webm": "audio/webm",
}

func contentType(path string, data []byte) string {
	ext := strings.ToLower(filepath.Ext(path))
	if known, ok := audioTypes[ext]; ok {
		return known
	}
	if byExt := mime.TypeByExtension(ext); byExt != "" {
		return byExt
	}
	detected := mimetype.Detect(data).String()
	// mimetype reports parameters (e.g. "text/plain; charset=utf-8"); keep the media type only.
	if i := strings.Index(detected, ";"); i >= 0 {
		detected = strings.TrimSpace(detected[:i])
	}
	return detected
}
