package engine

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"
)

// DefaultModel is the Kokoro TTS model the pipeline was tuned against.
const DefaultModel = "prince-canuma/Kokoro-82M"

// MLXEngine synthesizes speech by invoking the mlx_audio generate module
// through a Python interpreter. The module writes the audio file itself;
// we only verify it landed where the request said it would.
type MLXEngine struct {
	python string
	model  string
	runner *Runner
}

// NewMLXEngine creates an engine using the given Python binary and TTS
// model. Empty values fall back to python3 and the default Kokoro model.
func NewMLXEngine(python, model string) *MLXEngine {
	if python == "" {
		python = "python3"
	}
	if model == "" {
		model = DefaultModel
	}
	return &MLXEngine{
		python: python,
		model:  model,
		runner: NewRunner(2 * time.Minute),
	}
}

// Name implements Engine.
func (e *MLXEngine) Name() string { return "mlx" }

// Synthesize implements Engine.
func (e *MLXEngine) Synthesize(ctx context.Context, req Request) (string, error) {
	if req.Text == "" {
		return "", fmt.Errorf("empty narration text")
	}
	if err := CheckBinary(e.python); err != nil {
		return "", err
	}

	args := []string{
		"-m", "mlx_audio.tts.generate",
		"--model", e.model,
		"--text", req.Text,
		"--voice", req.Voice,
		"--speed", strconv.FormatFloat(req.Speed, 'f', -1, 64),
		"--lang_code", req.Language,
		"--file_prefix", req.FilePrefix,
		"--audio_format", req.Format,
		"--sample_rate", strconv.Itoa(req.SampleRate),
	}

	if _, err := e.runner.Execute(ctx, e.python, args...); err != nil {
		return "", err
	}

	out := req.OutputPath()
	if _, err := os.Stat(out); err != nil {
		return "", fmt.Errorf("synthesis reported success but %s was not written: %w", out, err)
	}
	return out, nil
}
