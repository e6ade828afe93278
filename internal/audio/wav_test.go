package audio

import (
	"encoding/binary"
	"errors"
	"io"
	"testing"
	"time"

	"gramscore/internal/ports"
)

func TestWAVMaterializerWrapsPCM(t *testing.T) {
	t.Parallel()

	pcm := make([]byte, 0, 3200)
	for i := 0; i < 1600; i++ {
		pcm = binary.LittleEndian.AppendUint16(pcm, uint16(int16(i%200-100)))
	}

	sample, err := NewWAVMaterializer("").Materialize(pcm, ports.AudioConfig{SampleRate: 16000, Channels: 1})
	if err != nil {
		t.Fatalf("materialize failed: %v", err)
	}
	if sample.Name != "recording.wav" {
		t.Fatalf("unexpected name: %q", sample.Name)
	}
	if sample.ContentType != "audio/wav" {
		t.Fatalf("unexpected content type: %q", sample.ContentType)
	}
	if string(sample.Data[0:4]) != "RIFF" || string(sample.Data[8:12]) != "WAVE" {
		t.Fatalf("missing RIFF/WAVE header: %q", sample.Data[:12])
	}

	info, err := InspectWAV(sample.Data)
	if err != nil {
		t.Fatalf("inspect failed: %v", err)
	}
	if info.SampleRate != 16000 || info.Channels != 1 || info.Frames != 1600 {
		t.Fatalf("unexpected info: %+v", info)
	}
	if info.Duration != 100*time.Millisecond {
		t.Fatalf("unexpected duration: %v", info.Duration)
	}
}

func TestWAVMaterializerStereoDropsPartialFrame(t *testing.T) {
	t.Parallel()

	// Two full stereo frames plus one dangling byte.
	pcm := []byte{0, 1, 0, 2, 0, 3, 0, 4, 9}
	sample, err := NewWAVMaterializer("take.wav").Materialize(pcm, ports.AudioConfig{SampleRate: 8000, Channels: 2})
	if err != nil {
		t.Fatalf("materialize failed: %v", err)
	}
	if sample.Name != "take.wav" {
		t.Fatalf("unexpected name: %q", sample.Name)
	}

	info, err := InspectWAV(sample.Data)
	if err != nil {
		t.Fatalf("inspect failed: %v", err)
	}
	if info.Channels != 2 || info.Frames != 2 {
		t.Fatalf("unexpected info: %+v", info)
	}
}

func TestWAVMaterializerRejectsEmptyCapture(t *testing.T) {
	t.Parallel()

	_, err := NewWAVMaterializer("").Materialize([]byte{1}, ports.AudioConfig{})
	if !errors.Is(err, ErrEmptyRecording) {
		t.Fatalf("expected ErrEmptyRecording, got %v", err)
	}
}

func TestWAVMaterializerRejectsMoreThanTwoChannels(t *testing.T) {
	t.Parallel()

	_, err := NewWAVMaterializer("").Materialize(make([]byte, 64), ports.AudioConfig{SampleRate: 16000, Channels: 4})
	if !errors.Is(err, ErrUnsupportedChannels) {
		t.Fatalf("expected ErrUnsupportedChannels, got %v", err)
	}
}

func TestInspectWAVRejectsGarbage(t *testing.T) {
	t.Parallel()

	if _, err := InspectWAV([]byte("definitely not a wav file")); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestMemWriteSeekerPatchesEarlierBytes(t *testing.T) {
	t.Parallel()

	m := &memWriteSeeker{}
	if _, err := m.Write([]byte("abcdef")); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if _, err := m.Seek(1, io.SeekStart); err != nil {
		t.Fatalf("seek failed: %v", err)
	}
	if _, err := m.Write([]byte("XY")); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if got := string(m.Bytes()); got != "aXYdef" {
		t.Fatalf("unexpected buffer: %q", got)
	}
	if _, err := m.Seek(-10, io.SeekEnd); err == nil {
		t.Fatalf("expected negative seek error")
	}
}
