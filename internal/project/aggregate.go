package project

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"golang.org/x/sync/errgroup"

	"xaidash/internal/api"
	"xaidash/internal/trace"
)

// Source is the data access layer the aggregator reads from.
// *api.Client implements it.
type Source interface {
	ListProjects(ctx context.Context) ([]api.ProjectRecord, error)
	ListModels(ctx context.Context, projectID string) ([]json.RawMessage, error)
	ListInputs(ctx context.Context, projectID, experimentID string) ([]string, error)
}

var _ Source = (*api.Client)(nil)

// FailureKind identifies which sub-fetch failed.
type FailureKind string

const (
	FailureModels FailureKind = "models"
	FailureInputs FailureKind = "inputs"
)

// Failure is a recoverable sub-fetch error that was absorbed during Fetch.
type Failure struct {
	Kind         FailureKind
	ProjectID    string
	ExperimentID string // empty for FailureModels
	Err          error
}

// Error implements the error interface.
func (f Failure) Error() string {
	if f.Kind == FailureInputs {
		return fmt.Sprintf("inputs of %s/%s: %v", f.ProjectID, f.ExperimentID, f.Err)
	}
	return fmt.Sprintf("models of %s: %v", f.ProjectID, f.Err)
}

// Unwrap returns the underlying error.
func (f Failure) Unwrap() error { return f.Err }

// Result is the enriched project tree plus every absorbed failure.
type Result struct {
	RunID    string // tags the logs and root span of the Fetch that produced it
	Projects []Project
	Failures []Failure
}

// Aggregator builds the project tree from a Source.
type Aggregator struct {
	source      Source
	concurrency int
	logger      *slog.Logger
	tracer      oteltrace.Tracer
}

// AggregatorOption configures an Aggregator.
type AggregatorOption func(*Aggregator)

// WithConcurrency sets how many projects are enriched at once.
// Default is 1, which fetches strictly one request at a time.
func WithConcurrency(n int) AggregatorOption {
	return func(a *Aggregator) {
		if n > 0 {
			a.concurrency = n
		}
	}
}

// WithLogger sets the logger used for absorbed failures.
func WithLogger(logger *slog.Logger) AggregatorOption {
	return func(a *Aggregator) {
		a.logger = logger
	}
}

// WithTracer sets the tracer for fetch spans.
func WithTracer(tracer oteltrace.Tracer) AggregatorOption {
	return func(a *Aggregator) {
		a.tracer = tracer
	}
}

// NewAggregator creates an Aggregator reading from source.
func NewAggregator(source Source, opts ...AggregatorOption) *Aggregator {
	a := &Aggregator{
		source:      source,
		concurrency: 1,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.logger == nil {
		a.logger = slog.Default()
	}
	if a.tracer == nil {
		a.tracer = noop.NewTracerProvider().Tracer(trace.InstrumentationName)
	}
	return a
}

// Fetch lists projects and enriches each with models and inputs.
//
// Only a failed project listing (or a cancelled ctx) fails the call. A failed
// model listing leaves that project's experiments untouched; a failed input
// listing leaves that experiment's Inputs nil. Both are reported in
// Result.Failures and processing continues.
//
// Experiments are paired with models by position. ModelDetected is set for
// every experiment of a project whose models were listed, even when there is
// no model at that position.
func (a *Aggregator) Fetch(ctx context.Context) (Result, error) {
	runID := uuid.NewString()
	logger := a.logger.With("run", runID)
	ctx, span := a.tracer.Start(ctx, "projects.fetch",
		oteltrace.WithAttributes(trace.KeyRunID.String(runID)))
	defer span.End()

	records, err := a.source.ListProjects(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "list projects")
		logger.Error("fetch projects failed", "error", err)
		return Result{}, fmt.Errorf("list projects: %w", err)
	}
	span.SetAttributes(trace.KeyCount.Int(len(records)))

	projects := make([]Project, len(records))
	for i, r := range records {
		projects[i] = fromRecord(r)
	}

	// Failed sub-fetches are never returned to the group so siblings keep going.
	failures := make([][]Failure, len(projects))
	var g errgroup.Group
	g.SetLimit(a.concurrency)
	for i := range projects {
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			failures[i] = a.enrich(ctx, logger, &projects[i])
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "cancelled")
		return Result{}, err
	}

	res := Result{RunID: runID, Projects: projects}
	for _, fs := range failures {
		res.Failures = append(res.Failures, fs...)
	}
	logger.Debug("fetch done", "projects", len(projects), "failures", len(res.Failures))
	return res, nil
}

// enrich fetches models and inputs for p in place.
func (a *Aggregator) enrich(ctx context.Context, logger *slog.Logger, p *Project) []Failure {
	models, err := a.listModels(ctx, p.ID)
	if err != nil {
		logger.Warn("fetch models failed", "project", p.ID, "error", err)
		return []Failure{{Kind: FailureModels, ProjectID: p.ID, Err: err}}
	}

	var failures []Failure
	for i := range p.Experiments {
		exp := &p.Experiments[i]
		exp.ID = exp.Name
		exp.Model = nil
		if i < len(models) {
			exp.Model = ParseModel(models[i])
		}
		exp.ModelDetected = true

		inputs, err := a.listInputs(ctx, p.ID, exp.ID)
		if err != nil {
			logger.Warn("fetch inputs failed", "project", p.ID, "experiment", exp.ID, "error", err)
			failures = append(failures, Failure{Kind: FailureInputs, ProjectID: p.ID, ExperimentID: exp.ID, Err: err})
			continue
		}
		exp.Inputs = inputs
	}
	return failures
}

func (a *Aggregator) listModels(ctx context.Context, projectID string) ([]json.RawMessage, error) {
	ctx, span := a.tracer.Start(ctx, "models.fetch",
		oteltrace.WithAttributes(trace.KeyProjectID.String(projectID)))
	defer span.End()

	models, err := a.source.ListModels(ctx, projectID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "list models")
		return nil, err
	}
	span.SetAttributes(trace.KeyCount.Int(len(models)))
	return models, nil
}

func (a *Aggregator) listInputs(ctx context.Context, projectID, experimentID string) ([]InputData, error) {
	ctx, span := a.tracer.Start(ctx, "inputs.fetch",
		oteltrace.WithAttributes(
			trace.KeyProjectID.String(projectID),
			trace.KeyExperimentID.String(experimentID),
		))
	defer span.End()

	serialized, err := a.source.ListInputs(ctx, projectID, experimentID)
	if err == nil {
		var inputs []InputData
		if inputs, err = ParseInputs(serialized); err == nil {
			span.SetAttributes(trace.KeyCount.Int(len(inputs)))
			return inputs, nil
		}
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, "list inputs")
	return nil, err
}
