package shacl

import (
	"encoding/json"
	"fmt"

	"github.com/c360/semvalid/graph"
	"github.com/c360/semvalid/vocabulary"
)

// Severity is a violation severity level.
type Severity string

const (
	// SeverityViolation marks a hard constraint failure. Any violation at
	// this level makes the report non-conformant.
	SeverityViolation Severity = "violation"
	// SeverityWarning marks an advisory failure.
	SeverityWarning Severity = "warning"
	// SeverityInfo marks an informational result.
	SeverityInfo Severity = "info"
)

// IRI returns the SHACL vocabulary IRI for the severity.
func (s Severity) IRI() string {
	switch s {
	case SeverityWarning:
		return vocabulary.ShWarning
	case SeverityInfo:
		return vocabulary.ShInfo
	default:
		return vocabulary.ShViolation
	}
}

// MarshalJSON serializes the severity as its string name.
func (s Severity) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(s))
}

// Violation is one constraint failure within a report.
type Violation struct {
	// FocusNode is the node the result was reported against: an IRI or a
	// blank node label.
	FocusNode graph.Term `json:"focus_node"`

	// Path is the property path the violated constraint applies to.
	// Zero-valued for node-level constraints.
	Path graph.Term `json:"path,omitzero"`

	// Value is the offending value, when the constraint has one.
	Value graph.Term `json:"value,omitzero"`

	// Message is a human-readable description of the failure.
	Message string `json:"message,omitempty"`

	// Severity of the result.
	Severity Severity `json:"severity"`
}

// Report is the structured result of one validation run.
type Report struct {
	// Conforms is true when no violation-level result was produced.
	Conforms bool `json:"conforms"`

	// Results lists the constraint failures in the order the engine
	// produced them. Empty when Conforms is true.
	Results []Violation `json:"results"`
}

// NewConformantReport returns the report for a run with no violations.
func NewConformantReport() *Report {
	return &Report{Conforms: true, Results: []Violation{}}
}

// Graph renders the report as RDF using the SHACL report vocabulary, for
// serialization back to the caller in a negotiated graph encoding. The
// report node and each result node are blank nodes, as SHACL reports
// conventionally are.
func (r *Report) Graph() *graph.Graph {
	g := graph.New()
	report := graph.NewBlank("report")

	g.Add(graph.Triple{
		Subject:   report,
		Predicate: graph.NewIRI(vocabulary.RdfType),
		Object:    graph.NewIRI(vocabulary.ShValidationReport),
	})
	g.Add(graph.Triple{
		Subject:   report,
		Predicate: graph.NewIRI(vocabulary.ShConforms),
		Object:    graph.NewTypedLiteral(fmt.Sprintf("%t", r.Conforms), vocabulary.XsdBoolean),
	})

	for i, v := range r.Results {
		result := graph.NewBlank(fmt.Sprintf("result%d", i))
		g.Add(graph.Triple{
			Subject:   report,
			Predicate: graph.NewIRI(vocabulary.ShResult),
			Object:    result,
		})
		g.Add(graph.Triple{
			Subject:   result,
			Predicate: graph.NewIRI(vocabulary.RdfType),
			Object:    graph.NewIRI(vocabulary.ShValidationResult),
		})
		g.Add(graph.Triple{
			Subject:   result,
			Predicate: graph.NewIRI(vocabulary.ShFocusNode),
			Object:    v.FocusNode,
		})
		g.Add(graph.Triple{
			Subject:   result,
			Predicate: graph.NewIRI(vocabulary.ShResultSeverity),
			Object:    graph.NewIRI(v.Severity.IRI()),
		})
		if v.Path.Value != "" {
			g.Add(graph.Triple{
				Subject:   result,
				Predicate: graph.NewIRI(vocabulary.ShResultPath),
				Object:    v.Path,
			})
		}
		if v.Value.Value != "" || v.Value.Kind == graph.Literal {
			g.Add(graph.Triple{
				Subject:   result,
				Predicate: graph.NewIRI(vocabulary.ShValue),
				Object:    v.Value,
			})
		}
		if v.Message != "" {
			g.Add(graph.Triple{
				Subject:   result,
				Predicate: graph.NewIRI(vocabulary.ShResultMessage),
				Object:    graph.NewLiteral(v.Message),
			})
		}
	}
	return g
}
