// Package engine wraps the external collaborators of the narration
// pipeline: text-to-speech synthesis and audio duration probing. Both are
// subprocess invocations of tools the pipeline treats as opaque.
package engine

import (
	"context"
	"fmt"
)

// Request carries the voice parameters for one synthesis call. FilePrefix
// is the output path without extension; the engine derives the final file
// name from it and Format.
type Request struct {
	Text       string
	Voice      string
	Speed      float64
	Language   string
	Format     string
	SampleRate int
	FilePrefix string
}

// OutputPath returns the audio file path the engine is expected to write.
func (r Request) OutputPath() string {
	return r.FilePrefix + "." + r.Format
}

// Engine converts narration text into an audio file.
type Engine interface {
	// Name identifies the engine in logs and config.
	Name() string
	// Synthesize renders the request's text to an audio file and returns
	// the written path.
	Synthesize(ctx context.Context, req Request) (string, error)
}

// Prober measures the duration of an audio file in seconds.
type Prober interface {
	Duration(ctx context.Context, path string) (float64, error)
}

// Config selects and parameterizes an engine.
type Config struct {
	Engine string
	Python string
	Model  string
}

// New creates the engine named in the config.
func New(cfg Config) (Engine, error) {
	switch cfg.Engine {
	case "", "mlx":
		return NewMLXEngine(cfg.Python, cfg.Model), nil
	case "mock":
		return NewMockEngine(), nil
	}
	return nil, fmt.Errorf("unknown TTS engine: %s (supported: mlx, mock)", cfg.Engine)
}
