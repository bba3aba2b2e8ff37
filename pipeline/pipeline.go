// Package pipeline orchestrates a full validation run: fetch the target
// resource, resolve the validation artifact its profile designates, fetch
// the artifact and evaluate the resource against it in a disposable engine
// context.
//
// Each run moves through a fixed sequence of stages. The engine context is
// created per run and closed unconditionally on every exit path, success
// or failure, so engine resources never outlive the run that allocated
// them. A non-conformant resource is a completed run, not a failed one.
package pipeline

import (
	"context"
	stderrors "errors"
	"log/slog"
	"time"

	"github.com/c360/semvalid/errors"
	"github.com/c360/semvalid/graph"
	"github.com/c360/semvalid/metric"
	"github.com/c360/semvalid/shacl"
)

// Fetcher retrieves graph resources by IRI.
type Fetcher interface {
	Fetch(ctx context.Context, identifier string) (*graph.Resource, error)
}

// Resolver finds the validation artifact a resource's profile designates.
type Resolver interface {
	ResolveArtifact(ctx context.Context, res *graph.Resource) (string, error)
}

// Result is the product of a completed validation run. Non-conformance is
// reported here, not through the error return.
type Result struct {
	// Resource is the IRI that was validated.
	Resource string

	// Artifact is the IRI of the shapes the resource was checked against.
	Artifact string

	// Conforms reports whether the resource satisfied every constraint.
	Conforms bool

	// Report is the full conformance report. Non-nil on every Result.
	Report *shacl.Report
}

// Pipeline runs validations. It keeps no state between runs; every Validate
// call builds and disposes its own engine context, so a single Pipeline
// serves concurrent callers.
type Pipeline struct {
	fetcher  Fetcher
	resolver Resolver
	engine   shacl.Engine
	metrics  *metric.Metrics
	logger   *slog.Logger
}

// New creates a Pipeline over the given collaborators.
func New(fetcher Fetcher, resolver Resolver, engine shacl.Engine, metrics *metric.Metrics, logger *slog.Logger) *Pipeline {
	if metrics == nil {
		metrics = metric.NewMetrics()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		fetcher:  fetcher,
		resolver: resolver,
		engine:   engine,
		metrics:  metrics,
		logger:   logger.With("component", "pipeline"),
	}
}

// Validate runs the full pipeline for the resource at the given IRI.
//
// The error return carries retrieval, resolution and engine failures;
// callers distinguish them with the errors package classifiers. A
// Conforms=false Result with a nil error means the pipeline itself
// succeeded and the resource did not meet its profile's constraints.
func (p *Pipeline) Validate(ctx context.Context, resourceIRI string) (result *Result, err error) {
	started := time.Now()
	defer func() {
		outcome := outcomeLabel(result, err)
		p.metrics.CountValidation(outcome)
		p.logger.Info("validation finished",
			"resource", resourceIRI,
			"outcome", outcome,
			"duration", time.Since(started))
	}()

	res, err := p.timedFetch(ctx, "fetch_resource", resourceIRI)
	if err != nil {
		return nil, err
	}

	resolveStart := time.Now()
	artifactIRI, err := p.resolver.ResolveArtifact(ctx, res)
	p.metrics.ObserveStage("resolve_artifact", time.Since(resolveStart))
	if err != nil {
		return nil, err
	}

	artifact, err := p.timedFetch(ctx, "fetch_artifact", artifactIRI)
	if err != nil {
		return nil, err
	}

	outcome, err := p.evaluate(ctx, res.Graph, artifact.Graph, resourceIRI)
	if err != nil {
		return nil, err
	}

	return &Result{
		Resource: resourceIRI,
		Artifact: artifactIRI,
		Conforms: outcome.Conforms,
		Report:   outcome.Report,
	}, nil
}

// evaluate runs the engine stages inside a context that is closed before
// evaluate returns, whatever happens.
func (p *Pipeline) evaluate(ctx context.Context, data, shapes *graph.Graph, resourceIRI string) (shacl.Outcome, error) {
	vctx, err := p.engine.NewContext(ctx)
	if err != nil {
		return shacl.Outcome{}, errors.WrapFatal(err, "Pipeline", "Validate", resourceIRI)
	}
	defer func() {
		if cerr := vctx.Close(); cerr != nil {
			p.logger.Error("validation context close failed",
				"resource", resourceIRI, "error", cerr)
		}
	}()

	loadStart := time.Now()
	err = vctx.LoadShapes(shapes)
	p.metrics.ObserveStage("load_shapes", time.Since(loadStart))
	if err != nil {
		// The context holds no data at this point, so nothing about the
		// target resource can explain a shapes failure.
		return shacl.Outcome{}, errors.WrapFatal(err, "Pipeline", "Validate", resourceIRI)
	}

	dataStart := time.Now()
	outcome, err := vctx.LoadData(data)
	p.metrics.ObserveStage("load_data", time.Since(dataStart))
	if err != nil {
		return shacl.Outcome{}, errors.WrapFatal(err, "Pipeline", "Validate", resourceIRI)
	}
	return outcome, nil
}

// timedFetch records the stage duration around a retrieval.
func (p *Pipeline) timedFetch(ctx context.Context, stage, identifier string) (*graph.Resource, error) {
	start := time.Now()
	res, err := p.fetcher.Fetch(ctx, identifier)
	p.metrics.ObserveStage(stage, time.Since(start))
	return res, err
}

// outcomeLabel maps a run's ending to a metrics label.
func outcomeLabel(result *Result, err error) string {
	if err == nil {
		if result != nil && result.Conforms {
			return "conformant"
		}
		return "nonconformant"
	}
	switch {
	case stderrors.Is(err, errors.ErrProfileMissing):
		return "profile_missing"
	case stderrors.Is(err, errors.ErrArtifactMissing):
		return "artifact_missing"
	case stderrors.Is(err, errors.ErrUnsupportedFormat), stderrors.Is(err, errors.ErrDecodeFailed):
		return "format_error"
	case stderrors.Is(err, errors.ErrFetchFailed),
		stderrors.Is(err, errors.ErrTooManyRedirects),
		stderrors.Is(err, errors.ErrEmptyResponse):
		return "fetch_error"
	default:
		return "engine_failure"
	}
}
