package shacl

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360/semvalid/graph"
	"github.com/c360/semvalid/vocabulary"
)

func TestNewConformantReport(t *testing.T) {
	r := NewConformantReport()
	assert.True(t, r.Conforms)
	assert.Empty(t, r.Results)
}

func TestSeverityIRI(t *testing.T) {
	assert.Equal(t, vocabulary.ShViolation, SeverityViolation.IRI())
	assert.Equal(t, vocabulary.ShWarning, SeverityWarning.IRI())
	assert.Equal(t, vocabulary.ShInfo, SeverityInfo.IRI())
	// Unknown severities render as violations rather than disappearing.
	assert.Equal(t, vocabulary.ShViolation, Severity("bogus").IRI())
}

func TestConformantReportGraph(t *testing.T) {
	g := NewConformantReport().Graph()

	reports := g.Match(graph.Term{}, graph.NewIRI(vocabulary.ShConforms))
	require.Len(t, reports, 1)
	assert.Equal(t, "true", reports[0].Object.Value)
	assert.Equal(t, vocabulary.XsdBoolean, reports[0].Object.Datatype)

	assert.Empty(t, g.Match(graph.Term{}, graph.NewIRI(vocabulary.ShResult)))
}

func TestNonConformantReportGraph(t *testing.T) {
	focus := graph.NewIRI("https://example.org/dataset/1")
	path := graph.NewIRI("http://purl.org/dc/terms/title")

	r := &Report{
		Conforms: false,
		Results: []Violation{
			{
				FocusNode: focus,
				Path:      path,
				Message:   "missing required property",
				Severity:  SeverityViolation,
			},
		},
	}
	g := r.Graph()

	conforms := g.Match(graph.Term{}, graph.NewIRI(vocabulary.ShConforms))
	require.Len(t, conforms, 1)
	assert.Equal(t, "false", conforms[0].Object.Value)

	results := g.Match(graph.Term{}, graph.NewIRI(vocabulary.ShResult))
	require.Len(t, results, 1)
	resultNode := results[0].Object

	focusTriples := g.Match(resultNode, graph.NewIRI(vocabulary.ShFocusNode))
	require.Len(t, focusTriples, 1)
	assert.Equal(t, focus, focusTriples[0].Object)

	pathTriples := g.Match(resultNode, graph.NewIRI(vocabulary.ShResultPath))
	require.Len(t, pathTriples, 1)
	assert.Equal(t, path, pathTriples[0].Object)

	severity := g.Match(resultNode, graph.NewIRI(vocabulary.ShResultSeverity))
	require.Len(t, severity, 1)
	assert.Equal(t, vocabulary.ShViolation, severity[0].Object.Value)

	message := g.Match(resultNode, graph.NewIRI(vocabulary.ShResultMessage))
	require.Len(t, message, 1)
	assert.Equal(t, "missing required property", message[0].Object.Value)
}

func TestViolationJSONOmitsZeroTerms(t *testing.T) {
	nodeLevel := Violation{
		FocusNode: graph.NewIRI("https://example.org/dataset/1"),
		Message:   "node does not match any shape",
		Severity:  SeverityViolation,
	}
	out, err := json.Marshal(nodeLevel)
	require.NoError(t, err)
	assert.NotContains(t, string(out), `"path"`)
	assert.NotContains(t, string(out), `"value"`)

	withPath := Violation{
		FocusNode: graph.NewIRI("https://example.org/dataset/1"),
		Path:      graph.NewIRI("http://purl.org/dc/terms/title"),
		Value:     graph.NewLiteral(""),
		Severity:  SeverityViolation,
	}
	out, err = json.Marshal(withPath)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"path"`)
	assert.Contains(t, string(out), `"value"`)
}

func TestReportGraphDistinctResultNodes(t *testing.T) {
	r := &Report{
		Conforms: false,
		Results: []Violation{
			{FocusNode: graph.NewIRI("https://example.org/a"), Severity: SeverityViolation},
			{FocusNode: graph.NewIRI("https://example.org/b"), Severity: SeverityViolation},
		},
	}
	g := r.Graph()

	results := g.Match(graph.Term{}, graph.NewIRI(vocabulary.ShResult))
	require.Len(t, results, 2)
	assert.NotEqual(t, results[0].Object, results[1].Object)
}
