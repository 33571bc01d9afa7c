package engine

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// FFProbe measures audio durations with the ffprobe tool.
type FFProbe struct {
	binary string
	runner *Runner
}

// NewFFProbe creates a prober. An empty binary name means "ffprobe".
func NewFFProbe(binary string) *FFProbe {
	if binary == "" {
		binary = "ffprobe"
	}
	return &FFProbe{
		binary: binary,
		runner: NewRunner(10 * time.Second),
	}
}

// Duration implements Prober. The caller treats any failure as duration
// zero, which short-circuits cue-point alignment.
func (p *FFProbe) Duration(ctx context.Context, path string) (float64, error) {
	if err := CheckBinary(p.binary); err != nil {
		return 0, err
	}

	out, err := p.runner.Execute(ctx, p.binary,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	)
	if err != nil {
		return 0, err
	}

	return ParseDuration(string(out))
}

// ParseDuration parses ffprobe's duration output.
func ParseDuration(out string) (float64, error) {
	s := strings.TrimSpace(out)
	if s == "" || s == "N/A" {
		return 0, fmt.Errorf("no duration reported")
	}
	d, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("unparseable duration %q: %w", s, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("negative duration %f", d)
	}
	return d, nil
}

// StaticProber returns a fixed duration for every file. Test helper.
type StaticProber struct {
	Seconds float64
	Err     error
}

// Duration implements Prober.
func (p *StaticProber) Duration(context.Context, string) (float64, error) {
	return p.Seconds, p.Err
}
