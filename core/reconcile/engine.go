package reconcile

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Engine drives reconciliation passes against one remote account.
type Engine struct {
	remote    Remote
	artifacts Artifacts
	logger    *zap.Logger
	now       func() time.Time
}

// NewEngine creates an engine. artifacts may be nil when nothing should be persisted.
func NewEngine(remote Remote, artifacts Artifacts, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		remote:    remote,
		artifacts: artifacts,
		logger:    logger,
		now:       time.Now,
	}
}

// Run performs a full pass: filter, upload, verify, persist.
func (e *Engine) Run(ctx context.Context, entries []Entry) (*Result, error) {
	plan, err := e.Plan(ctx, entries)
	if err != nil {
		return nil, err
	}
	return e.Execute(ctx, plan)
}

// Execute uploads plan.ToUpload, verifies the remote state and persists the residual.
//
// When ctx is cancelled the returned error wraps ErrInterrupted and the result holds the
// entries that were never attempted; they have already been written as the left-out artifact.
// A remote that stops accepting the credentials ends the pass the same way, with an error
// wrapping ErrUnauthorized instead.
func (e *Engine) Execute(ctx context.Context, plan *Plan) (*Result, error) {
	result := &Result{
		AlreadyPresent: len(plan.AlreadyPresent),
		Verification:   make(map[Kind]Tally),
	}

	if cause := e.upload(ctx, plan, result); cause != nil {
		result.Elapsed = e.now().Sub(plan.Started)
		return result, e.interrupt(ctx, result, cause)
	}

	result.Verification, result.Missing = e.Verify(ctx, result.Attempted)
	if cause := ctx.Err(); cause != nil {
		// Verification could not complete; nothing is left out but the residual is unconfirmed.
		result.Elapsed = e.now().Sub(plan.Started)
		return result, e.interrupt(ctx, result, cause)
	}

	result.Residual = mergeResidual(result.Attempted, result.FailedEntries, result.Missing)
	result.Elapsed = e.now().Sub(plan.Started)

	if e.artifacts != nil {
		path, err := e.artifacts.SaveResidual(ctx, result.Residual)
		if err != nil {
			return result, fmt.Errorf("save residual entries: %w", err)
		}
		result.ResidualPath = path
	}

	return result, nil
}

// upload runs the tag step and the sequential upload loop.
// It returns the cause when the loop stopped early, with result.LeftOut set.
func (e *Engine) upload(ctx context.Context, plan *Plan, result *Result) error {
	if err := ctx.Err(); err != nil {
		result.LeftOut = plan.ToUpload
		return err
	}

	if err := e.ensureTags(ctx, plan.ToUpload); err != nil {
		result.LeftOut = plan.ToUpload
		return err
	}

	for i, entry := range plan.ToUpload {
		if err := ctx.Err(); err != nil {
			result.LeftOut = plan.ToUpload[i:]
			return err
		}

		result.Attempted = append(result.Attempted, entry)
		err := e.remote.Upload(ctx, entry)

		switch {
		case err == nil:
			result.Restored++
			result.Uploaded = append(result.Uploaded, entry)
			e.logger.Debug("Entry uploaded", zap.Stringer("key", entry.Key()), zap.String("title", entry.Title))
		case isCancellation(err):
			// The in-flight entry is indeterminate; a later pass will settle it.
			result.LeftOut = plan.ToUpload[i+1:]
			return err
		case errors.Is(err, ErrUnauthorized):
			// Nothing was written, so the entry goes back with the rest.
			result.Attempted = result.Attempted[:len(result.Attempted)-1]
			result.LeftOut = plan.ToUpload[i:]
			return err
		default:
			result.Failed++
			result.FailedEntries = append(result.FailedEntries, entry)
			e.logger.Warn("Entry rejected",
				zap.Stringer("key", entry.Key()),
				zap.String("title", entry.Title),
				zap.Error(err),
			)
		}
	}

	return nil
}

// ensureTags creates every custom list referenced by entries before the first upload.
// Each distinct (kind, tag) pair is ensured exactly once. Failures are logged, not fatal.
func (e *Engine) ensureTags(ctx context.Context, entries []Entry) error {
	type kindTag struct {
		kind Kind
		tag  string
	}
	seen := make(map[kindTag]struct{})

	for _, entry := range entries {
		tag := entry.PrimaryTag()
		if tag == "" {
			continue
		}
		k := kindTag{kind: entry.Kind, tag: tag}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}

		if err := e.remote.EnsureTag(ctx, entry.Kind, tag); err != nil {
			if stopsPass(err) {
				return err
			}
			e.logger.Warn("Could not ensure custom list exists",
				zap.Stringer("kind", entry.Kind),
				zap.String("tag", tag),
				zap.Error(err),
			)
		}
	}
	return nil
}

// interrupt persists what a pass stopped early leaves behind.
func (e *Engine) interrupt(ctx context.Context, result *Result, cause error) error {
	result.Interrupted = true
	interrupted := fmt.Errorf("%w: %w", ErrInterrupted, cause)
	if !isCancellation(cause) {
		interrupted = fmt.Errorf("pass stopped: %w", cause)
	}

	if e.artifacts == nil {
		return interrupted
	}

	// ctx is already done; persistence must still happen.
	saveCtx := context.WithoutCancel(ctx)
	var errs []error

	if len(result.LeftOut) > 0 {
		path, err := e.artifacts.SaveLeftOut(saveCtx, result.LeftOut)
		if err != nil {
			errs = append(errs, fmt.Errorf("save left-out entries: %w", err))
		}
		result.LeftOutPath = path
	}

	// Rejections seen so far are still worth retrying; without any the previous residual is left alone.
	if len(result.FailedEntries) > 0 {
		result.Residual = mergeResidual(result.Attempted, result.FailedEntries, nil)
		path, err := e.artifacts.SaveResidual(saveCtx, result.Residual)
		if err != nil {
			errs = append(errs, fmt.Errorf("save residual entries: %w", err))
		}
		result.ResidualPath = path
	}

	return errors.Join(append([]error{interrupted}, errs...)...)
}
