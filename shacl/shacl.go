// Package shacl defines the contract between the validation pipeline and a
// SHACL engine, plus the conformance report model.
//
// The engine is an external collaborator. The pipeline only depends on the
// Engine and Context interfaces here; the bundled in-memory implementation
// lives in shacl/memory and any conforming engine can replace it.
//
// A context is disposable: the pipeline creates one per validation run,
// loads shapes, loads data, reads the outcome and closes it. Contexts are
// never reused or shared between runs.
package shacl

import (
	"context"

	"github.com/c360/semvalid/graph"
)

// Engine creates validation contexts.
type Engine interface {
	// NewContext returns a fresh, empty validation context. Each call
	// returns an independent context; concurrent contexts must not share
	// mutable state.
	NewContext(ctx context.Context) (Context, error)
}

// Context is a single-use validation container.
//
// Lifecycle: LoadShapes once, then LoadData once, then Close. Close must be
// called on every exit path and must be idempotent. Implementations reject
// out-of-order calls with errors.ErrShapesNotReady or errors.ErrContextClosed.
type Context interface {
	// LoadShapes loads the constraints graph. A failure here is an engine
	// failure: the context holds no data yet, so nothing about the target
	// resource can explain it.
	LoadShapes(shapes *graph.Graph) error

	// LoadData loads the data graph and evaluates it against the loaded
	// shapes. A conformance failure is a normal outcome, returned in the
	// Outcome with Conforms=false; the error return is reserved for
	// engine failures.
	LoadData(data *graph.Graph) (Outcome, error)

	// Close releases the context's resources. Safe to call more than once.
	Close() error
}

// Outcome is the explicit tagged result of a data load. A validation
// failure is data, not an exceptional condition.
type Outcome struct {
	// Conforms reports whether the data satisfied every constraint.
	Conforms bool

	// Report carries the full conformance report. Always non-nil on a
	// successful load, whether or not the data conforms.
	Report *Report
}
