package audio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/wav"

	"gramscore/internal/domain"
	"gramscore/internal/ports"
)

const (
	RecordingName = "recording.wav"
	WAVType       = "audio/wav"
)

var (
	ErrEmptyRecording = errors.New("no audio was captured")

	// beep streams carry at most two channels.
	ErrUnsupportedChannels = errors.New("only mono and stereo recordings are supported")
)

// WAVMaterializer wraps captured PCM in a WAV container.
type WAVMaterializer struct {
	name string
}

func NewWAVMaterializer(name string) *WAVMaterializer {
	if name == "" {
		name = RecordingName
	}
	return &WAVMaterializer{name: name}
}

func (m *WAVMaterializer) Materialize(pcm []byte, cfg ports.AudioConfig) (domain.AudioSample, error) {
	cfg = withCaptureDefaults(cfg)
	if cfg.Channels > 2 {
		return domain.AudioSample{}, fmt.Errorf("%w: got %d channels", ErrUnsupportedChannels, cfg.Channels)
	}
	frame := 2 * cfg.Channels
	if len(pcm) < frame {
		return domain.AudioSample{}, ErrEmptyRecording
	}

	format := beep.Format{
		SampleRate:  beep.SampleRate(cfg.SampleRate),
		NumChannels: cfg.Channels,
		Precision:   2,
	}

	out := &memWriteSeeker{}
	streamer := &pcmStreamer{data: pcm[:len(pcm)-len(pcm)%frame], channels: cfg.Channels}
	if err := wav.Encode(out, streamer, format); err != nil {
		return domain.AudioSample{}, fmt.Errorf("encode wav: %w", err)
	}

	return domain.AudioSample{
		Name:        m.name,
		ContentType: WAVType,
		Data:        out.Bytes(),
	}, nil
}

// WAVInfo describes a decodable WAV payload.
type WAVInfo struct {
	SampleRate int
	Channels   int
	Frames     int
	Duration   time.Duration
}

// InspectWAV reads the header and length of a WAV payload.
func InspectWAV(data []byte) (WAVInfo, error) {
	streamer, format, err := wav.Decode(bytes.NewReader(data))
	if err != nil {
		return WAVInfo{}, fmt.Errorf("decode wav: %w", err)
	}
	defer streamer.Close()

	frames := streamer.Len()
	return WAVInfo{
		SampleRate: int(format.SampleRate),
		Channels:   format.NumChannels,
		Frames:     frames,
		Duration:   format.SampleRate.D(frames),
	}, nil
}

// pcmStreamer exposes interleaved s16le frames as a beep.Streamer.
type pcmStreamer struct {
	data     []byte
	channels int
	pos      int
}

func (s *pcmStreamer) Stream(samples [][2]float64) (n int, ok bool) {
	frame := 2 * s.channels
	for n < len(samples) && s.pos+frame <= len(s.data) {
		left := pcmSample(s.data[s.pos:])
		right := left
		if s.channels > 1 {
			right = pcmSample(s.data[s.pos+2:])
		}
		samples[n] = [2]float64{left, right}
		s.pos += frame
		n++
	}
	return n, n > 0
}

func (s *pcmStreamer) Err() error { return nil }

func pcmSample(b []byte) float64 {
	return float64(int16(binary.LittleEndian.Uint16(b))) / (1 << 15)
}

// memWriteSeeker is the in-memory io.WriteSeeker wav.Encode needs to patch its header.
type memWriteSeeker struct {
	buf []byte
	pos int
}

func (m *memWriteSeeker) Write(p []byte) (int, error) {
	end := m.pos + len(p)
	if end > len(m.buf) {
		m.buf = append(m.buf, make([]byte, end-len(m.buf))...)
	}
	copy(m.buf[m.pos:end], p)
	m.pos = end
	return len(p), nil
}

func (m *memWriteSeeker) Seek(offset int64, whence int) (int64, error) {
	var next int64
	switch whence {
	case io.SeekStart:
		next = offset
	case io.SeekCurrent:
		next = int64(m.pos) + offset
	case io.SeekEnd:
		next = int64(len(m.buf)) + offset
	default:
		return 0, fmt.Errorf("invalid whence %d", whence)
	}
	if next < 0 {
		return 0, errors.New("negative seek position")
	}
	m.pos = int(next)
	return next, nil
}

func (m *memWriteSeeker) Bytes() []byte {
	return m.buf
}
