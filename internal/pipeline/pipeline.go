// Package pipeline wires the four stages end to end: decode, intent
// classification, sufficiency, and structure inference with the decision
// engine. Control flow is strictly linear and short-circuiting; a file
// that fails a stage never reaches the next one.
package pipeline

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"os"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/stockiq/backend-go/internal/cache"
	"github.com/stockiq/backend-go/internal/config"
	"github.com/stockiq/backend-go/internal/inference"
	"github.com/stockiq/backend-go/internal/ingest"
	"github.com/stockiq/backend-go/internal/intent"
	"github.com/stockiq/backend-go/internal/patterns"
	"github.com/stockiq/backend-go/internal/staging"
	"github.com/stockiq/backend-go/internal/sufficiency"
	"github.com/stockiq/backend-go/internal/table"
)

// Outcome is the structured result of one pipeline run. Later stages are
// present only when every earlier stage passed; text-only documents stop
// after validation.
type Outcome struct {
	Validation  intent.Result       `json:"validation"`
	Sufficiency *sufficiency.Result `json:"sufficiency,omitempty"`
	Report      *inference.Report   `json:"report,omitempty"`
}

// Runner executes pipeline runs with a shared registry and optional
// result cache.
type Runner struct {
	registry *patterns.Registry
	cache    cache.ResultCache
	cfg      config.AnalysisConfig
}

// New builds a Runner. A nil cache disables caching.
func New(analysisCfg config.AnalysisConfig, resultCache cache.ResultCache) *Runner {
	if resultCache == nil {
		resultCache = cache.NewNoopResultCache()
	}
	return &Runner{
		registry: patterns.Default(),
		cache:    resultCache,
		cfg:      analysisCfg,
	}
}

func invalidOutcome(reason string) *Outcome {
	return &Outcome{Validation: intent.Result{Status: intent.StatusInvalid, Reason: reason}}
}

// Run analyzes the file at path and returns the structured outcome.
// Business rejections are part of the outcome, not errors; Run itself
// never fails.
func (r *Runner) Run(ctx context.Context, path string) *Outcome {
	start := time.Now()

	if _, err := ingest.DetectKind(path); err != nil {
		return r.rejected(err)
	}

	hash, err := contentHash(path)
	if err != nil {
		return r.rejected(err)
	}
	if outcome, ok := r.cachedOutcome(ctx, hash); ok {
		log.Info().Str("hash", hash).Msg("pipeline: serving cached outcome")
		return outcome
	}

	doc, err := ingest.Decode(path)
	if err != nil {
		return r.store(ctx, hash, r.rejected(err))
	}

	outcome := r.analyze(ctx, doc)
	log.Info().
		Str("file_type", doc.FileType).
		Str("status", string(outcome.Validation.Status)).
		Dur("elapsed", time.Since(start)).
		Msg("pipeline: run finished")

	return r.store(ctx, hash, outcome)
}

func (r *Runner) analyze(ctx context.Context, doc *table.Document) *Outcome {
	outcome := &Outcome{Validation: intent.Classify(r.registry, doc)}
	if outcome.Validation.Status != intent.StatusValid {
		return outcome
	}

	// Text-extractable documents are classified but carry no table to
	// analyze further.
	if doc.Kind == table.KindText {
		return outcome
	}

	suff := sufficiency.Check(r.registry, doc.Table)
	outcome.Sufficiency = &suff
	if suff.Status != sufficiency.StatusSufficient {
		return outcome
	}

	analyzer := inference.Analyzer{
		Registry:     r.registry,
		ForecastDays: r.cfg.ForecastDays,
		MaxProducts:  r.cfg.MaxProducts,
		WorkerCount:  r.cfg.WorkerCount,
	}

	if area := r.newStagingArea(); area != nil {
		defer area.Close()
		analyzer.Stager = area
	}

	report := analyzer.Analyze(ctx, doc.Table)
	outcome.Report = &report
	return outcome
}

// newStagingArea opens a per-run scratch directory. Staging is best
// effort; the run proceeds in memory when the area cannot be created.
func (r *Runner) newStagingArea() *staging.Area {
	area, err := staging.NewArea(r.cfg.StagingDir, r.cfg.KeepArtifacts)
	if err != nil {
		log.Warn().Err(err).Msg("pipeline: staging area unavailable")
		return nil
	}
	return area
}

// rejected converts a decode failure into an invalid outcome with its
// user-facing reason.
func (r *Runner) rejected(err error) *Outcome {
	var ue *ingest.UserError
	if errors.As(err, &ue) {
		if ue.Err != nil {
			log.Warn().Err(ue.Err).Msg("pipeline: decode failed")
		}
		return invalidOutcome(ue.Reason)
	}
	log.Error().Err(err).Msg("pipeline: unexpected decode failure")
	return invalidOutcome(ingest.ReasonUnsupportedFormat)
}

func contentHash(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", &ingest.UserError{Reason: ingest.ReasonFileNotFound, Err: err}
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

func (r *Runner) cachedOutcome(ctx context.Context, hash string) (*Outcome, bool) {
	payload, ok, err := r.cache.Get(ctx, hash)
	if err != nil {
		log.Warn().Err(err).Msg("pipeline: cache get failed")
		return nil, false
	}
	if !ok {
		return nil, false
	}
	var outcome Outcome
	if err := json.Unmarshal(payload, &outcome); err != nil {
		log.Warn().Err(err).Msg("pipeline: cached outcome corrupt, ignoring")
		return nil, false
	}
	return &outcome, true
}

func (r *Runner) store(ctx context.Context, hash string, outcome *Outcome) *Outcome {
	payload, err := json.Marshal(outcome)
	if err != nil {
		log.Warn().Err(err).Msg("pipeline: outcome marshal failed")
		return outcome
	}
	if err := r.cache.Set(ctx, hash, payload); err != nil {
		log.Warn().Err(err).Msg("pipeline: cache set failed")
	}
	return outcome
}
