// Package dispatch fans a single publish request out to its configured
// targets, running strategy selection and execution independently per
// target and aggregating the per-platform outcomes.
package dispatch

import (
	"context"
	"log/slog"

	"github.com/Logicampgrid/FacebookPost-sub000/internal/domain/publish/entity"
	"github.com/Logicampgrid/FacebookPost-sub000/internal/domain/publish/executor"
	"github.com/Logicampgrid/FacebookPost-sub000/internal/domain/publish/strategy"
)

// Runner executes one publish attempt against one target. Defined here on
// the consumer side; the concrete implementation is the strategy executor.
type Runner interface {
	Execute(ctx context.Context, in executor.Input) (entity.Outcome, *entity.PublishAttempt)
}

// Dispatcher resolves targets and runs one attempt per target
type Dispatcher struct {
	mapping *Mapping
	runner  Runner
	logger  *slog.Logger
}

// New creates a Dispatcher around an immutable shop mapping
func New(mapping *Mapping, runner Runner, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{mapping: mapping, runner: runner, logger: logger}
}

// Result is the aggregate of one dispatch
type Result struct {
	PerPlatform map[string]entity.Outcome
	Attempts    []*entity.PublishAttempt
}

// AnySucceeded reports whether at least one target succeeded. Partial
// success is a normal outcome; whether it is acceptable is the caller's
// call.
func (r *Result) AnySucceeded() bool {
	for _, outcome := range r.PerPlatform {
		if outcome.Status == entity.OutcomeSuccess {
			return true
		}
	}
	return false
}

// Dispatch publishes the request to every resolved target. Explicit targets
// take precedence over the shop mapping; an unrecognized shop id degrades
// to the default target set and is logged, never surfaced as an error.
// Targets are attempted sequentially and independently: one target's
// failure must not affect another's attempt.
func (d *Dispatcher) Dispatch(ctx context.Context, req *entity.Request, explicit []entity.PublishTarget) *Result {
	targets := explicit
	if len(targets) == 0 {
		resolved, known := d.mapping.Resolve(req.ShopID)
		if !known {
			d.logger.Warn("unknown shop id, using default targets", "shop_id", req.ShopID)
		}
		targets = resolved
	}

	result := &Result{PerPlatform: make(map[string]entity.Outcome, len(targets))}

	for _, target := range targets {
		candidates := strategy.Select(strategy.Input{
			MediaType:         req.Media.DetectedType,
			HasLink:           req.HasLink(),
			Platform:          target.Platform,
			HasLocalBytes:     req.Media.HasBytes(),
			HasRemoteURL:      req.Media.URL != "",
			RemoteUnreachable: req.RemoteUnreachable,
		})

		outcome, attempt := d.runner.Execute(ctx, executor.Input{
			Candidates:  candidates,
			Media:       req.Media,
			ContentType: req.ContentType,
			Caption:     req.Caption,
			ProductLink: req.ProductLink,
			Target:      target,
		})

		result.PerPlatform[target.Key()] = outcome
		result.Attempts = append(result.Attempts, attempt)

		d.logger.Info("target attempt finished",
			"target", target.Key(),
			"status", string(outcome.Status),
			"strategy", string(outcome.StrategyUsed),
			"post_id", outcome.PostID,
		)
	}

	return result
}
