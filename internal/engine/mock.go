package engine

import (
	"context"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
)

// MockEngine implements Engine for tests. It writes a real (silent) WAV
// file whose length is estimated from the text at roughly 150 words per
// minute, so duration probing on the output behaves sensibly.
type MockEngine struct {
	shouldFail   bool
	failureError error
	callCount    int
}

// NewMockEngine creates a mock engine.
func NewMockEngine() *MockEngine {
	return &MockEngine{}
}

// Name implements Engine.
func (e *MockEngine) Name() string { return "mock" }

// Synthesize implements Engine.
func (e *MockEngine) Synthesize(_ context.Context, req Request) (string, error) {
	e.callCount++

	if e.shouldFail {
		return "", e.failureError
	}
	if req.Text == "" {
		return "", fmt.Errorf("empty narration text")
	}

	sampleRate := req.SampleRate
	if sampleRate <= 0 {
		sampleRate = 24000
	}

	out := req.OutputPath()
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return "", err
	}

	samples := int(e.EstimateDuration(req.Text) * float64(sampleRate))
	if err := writeSilentWAV(out, sampleRate, samples); err != nil {
		return "", err
	}
	return out, nil
}

// EstimateDuration returns the mock speaking time for text, assuming five
// characters per word at 150 words per minute.
func (e *MockEngine) EstimateDuration(text string) float64 {
	words := len(text) / 5
	if words < 1 {
		words = 1
	}
	return float64(words) * 60.0 / 150.0
}

// SetFailure configures the engine to fail with the given error.
func (e *MockEngine) SetFailure(err error) {
	e.shouldFail = true
	e.failureError = err
}

// ClearFailure resets the engine to normal operation.
func (e *MockEngine) ClearFailure() {
	e.shouldFail = false
	e.failureError = nil
}

// CallCount returns the number of Synthesize calls.
func (e *MockEngine) CallCount() int {
	return e.callCount
}

// writeSilentWAV writes a minimal PCM16 mono WAV file of the given number
// of samples.
func writeSilentWAV(path string, sampleRate, samples int) error {
	dataSize := samples * 2 // 16-bit mono

	header := make([]byte, 44)
	copy(header[0:4], "RIFF")
	binary.LittleEndian.PutUint32(header[4:8], uint32(36+dataSize))
	copy(header[8:12], "WAVE")
	copy(header[12:16], "fmt ")
	binary.LittleEndian.PutUint32(header[16:20], 16)
	binary.LittleEndian.PutUint16(header[20:22], 1) // PCM
	binary.LittleEndian.PutUint16(header[22:24], 1) // mono
	binary.LittleEndian.PutUint32(header[24:28], uint32(sampleRate))
	binary.LittleEndian.PutUint32(header[28:32], uint32(sampleRate*2))
	binary.LittleEndian.PutUint16(header[32:34], 2)
	binary.LittleEndian.PutUint16(header[34:36], 16)
	copy(header[36:40], "data")
	binary.LittleEndian.PutUint32(header[40:44], uint32(dataSize))

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.Write(header); err != nil {
		return err
	}
	_, err = f.Write(make([]byte, dataSize))
	return err
}
