// Package generate drives the narration pipeline: extract narration units
// from flow specs, synthesize audio for units whose text changed, probe
// durations, align cue points, and persist the cache manifest.
package generate

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"

	"github.com/dgnsrekt/flowtts/internal/align"
	"github.com/dgnsrekt/flowtts/internal/cache"
	"github.com/dgnsrekt/flowtts/internal/engine"
	"github.com/dgnsrekt/flowtts/internal/flow"
	"github.com/dgnsrekt/flowtts/internal/narration"
)

// Config holds the run-wide settings for a Generator.
type Config struct {
	SpecsDir   string
	AudioDir   string
	CachePath  string
	Voice      string
	Speed      float64
	Language   string
	Format     string
	SampleRate int
	// Force regenerates every unit regardless of cache freshness.
	Force bool
}

// Stats summarizes one invocation.
type Stats struct {
	Generated int
	Cached    int
	Failed    int
	Bytes     int64
}

// Generator orchestrates one invocation over one or many specs. Execution
// is strictly sequential; the only mutable state is the in-memory manifest
// built up over the run and saved exactly once at the end.
type Generator struct {
	cfg    Config
	store  *cache.Store
	engine engine.Engine
	prober engine.Prober
	logger *log.Logger
}

// New creates a Generator.
func New(cfg Config, eng engine.Engine, prober engine.Prober, logger *log.Logger) *Generator {
	if logger == nil {
		logger = log.Default()
	}
	return &Generator{
		cfg:    cfg,
		store:  cache.NewStore(cfg.CachePath),
		engine: eng,
		prober: prober,
		logger: logger,
	}
}

// Run processes the named specs in order. A spec that fails to load is
// reported and skipped; the remaining specs still run, and the returned
// error is non-nil so the CLI exits non-zero. The cache manifest is saved
// once, after all specs, even if some failed.
func (g *Generator) Run(ctx context.Context, specNames []string) (Stats, error) {
	manifest, err := g.store.Load()
	if err != nil {
		return Stats{}, err
	}

	var stats Stats
	var failedSpecs []string

	for _, name := range specNames {
		doc, err := flow.LoadSpec(g.cfg.SpecsDir, name)
		if err != nil {
			g.logger.Error("unable to load spec", "spec", name, "err", err)
			failedSpecs = append(failedSpecs, name)
			continue
		}
		g.processSpec(ctx, doc, name, manifest, &stats)
	}

	if err := g.store.Save(manifest); err != nil {
		return stats, fmt.Errorf("unable to save cache: %w", err)
	}

	g.logger.Info("done",
		"generated", stats.Generated,
		"cached", stats.Cached,
		"failed", stats.Failed,
		"audio", humanize.Bytes(uint64(stats.Bytes)))

	if len(failedSpecs) > 0 {
		return stats, errors.New("failed to load specs: " + strings.Join(failedSpecs, ", "))
	}
	return stats, nil
}

func (g *Generator) processSpec(ctx context.Context, doc *flow.Document, name string, manifest cache.Manifest, stats *Stats) {
	units := narration.Extract(doc)
	if len(units) == 0 {
		g.logger.Info("no narrations found in spec", "spec", name)
		return
	}

	outputDir := filepath.Join(g.cfg.AudioDir, doc.Flow.ID)

	for _, unit := range units {
		if g.processUnit(ctx, unit, outputDir, manifest, stats) {
			stats.Generated++
		}
	}
}

// processUnit returns true when the unit was (re)generated, false when the
// cache was fresh or generation failed.
func (g *Generator) processUnit(ctx context.Context, unit narration.Unit, outputDir string, manifest cache.Manifest, stats *Stats) bool {
	textHash := cache.HashText(unit.Text)
	needCues := unit.Interactive() > 0

	if !g.cfg.Force {
		if entry, ok := manifest[unit.ID]; ok && cache.Fresh(entry, textHash, needCues) {
			g.logger.Debug("cached", "id", unit.ID)
			stats.Cached++
			return false
		}
	}

	g.logger.Info("generating", "id", unit.ID, "text", truncate(unit.Text, 50))

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		g.logger.Error("unable to create output directory", "dir", outputDir, "err", err)
		stats.Failed++
		return false
	}

	// Flatten the unit ID into a file name.
	prefix := strings.ReplaceAll(unit.ID, "/", "-")
	req := engine.Request{
		Text:       unit.Text,
		Voice:      g.cfg.Voice,
		Speed:      g.cfg.Speed,
		Language:   g.cfg.Language,
		Format:     g.cfg.Format,
		SampleRate: g.cfg.SampleRate,
		FilePrefix: filepath.Join(outputDir, prefix),
	}

	audioPath, err := g.engine.Synthesize(ctx, req)
	if err != nil {
		// Not cached: the unit is effectively retried on the next run.
		g.logger.Error("synthesis failed", "id", unit.ID, "err", err)
		stats.Failed++
		return false
	}

	if info, err := os.Stat(audioPath); err == nil {
		stats.Bytes += info.Size()
	}

	duration, err := g.prober.Duration(ctx, audioPath)
	if err != nil {
		g.logger.Warn("duration probe failed", "id", unit.ID, "err", err)
		duration = 0
	}

	var cues []align.CuePoint
	if needCues && duration > 0 {
		cues = align.Align(unit.Text, duration, unit.Actions)
	}

	manifest[unit.ID] = cache.Entry{
		Hash:      textHash,
		File:      audioPath,
		Text:      unit.Text,
		Duration:  duration,
		Role:      unit.Role,
		Step:      unit.Step,
		Type:      string(unit.Kind),
		CuePoints: cues,
	}
	return true
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
