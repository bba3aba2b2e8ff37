// Package graph provides the triple and term model used across SemValid.
//
// A Graph is an ordered collection of triples. Order is the decode order of
// the underlying serialization and is significant: profile descriptor
// selection is defined as "first qualifying descriptor in graph order", so
// the graph must preserve it.
package graph

import (
	"fmt"
	"strings"
)

// TermKind discriminates the three RDF term kinds.
type TermKind int

const (
	// IRI identifies a named node.
	IRI TermKind = iota
	// BlankNode identifies an anonymous node, scoped to one graph.
	BlankNode
	// Literal is a typed or plain value.
	Literal
)

// String returns the string representation of TermKind.
func (k TermKind) String() string {
	switch k {
	case IRI:
		return "iri"
	case BlankNode:
		return "blank"
	case Literal:
		return "literal"
	default:
		return "unknown"
	}
}

// Term is a single RDF term. Value holds the IRI string, the blank node
// label (without the "_:" prefix), or the literal's lexical form.
type Term struct {
	Kind     TermKind `json:"kind"`
	Value    string   `json:"value"`
	Datatype string   `json:"datatype,omitempty"` // literals only
	Lang     string   `json:"lang,omitempty"`     // literals only
}

// NewIRI returns an IRI term.
func NewIRI(iri string) Term {
	return Term{Kind: IRI, Value: iri}
}

// NewBlank returns a blank node term for the given label.
func NewBlank(label string) Term {
	return Term{Kind: BlankNode, Value: strings.TrimPrefix(label, "_:")}
}

// NewLiteral returns a plain string literal term.
func NewLiteral(value string) Term {
	return Term{Kind: Literal, Value: value}
}

// NewTypedLiteral returns a literal term with an explicit datatype IRI.
func NewTypedLiteral(value, datatype string) Term {
	return Term{Kind: Literal, Value: value, Datatype: datatype}
}

// IsIRI reports whether the term is a named node.
func (t Term) IsIRI() bool { return t.Kind == IRI }

// IsBlank reports whether the term is a blank node.
func (t Term) IsBlank() bool { return t.Kind == BlankNode }

// IsLiteral reports whether the term is a literal.
func (t Term) IsLiteral() bool { return t.Kind == Literal }

// Equal reports term equality. Literals compare by lexical form, datatype
// and language tag.
func (t Term) Equal(other Term) bool {
	return t.Kind == other.Kind &&
		t.Value == other.Value &&
		t.Datatype == other.Datatype &&
		t.Lang == other.Lang
}

// String renders the term in N-Triples style, useful for logging and
// violation messages.
func (t Term) String() string {
	switch t.Kind {
	case IRI:
		return "<" + t.Value + ">"
	case BlankNode:
		return "_:" + t.Value
	case Literal:
		if t.Lang != "" {
			return fmt.Sprintf("%q@%s", t.Value, t.Lang)
		}
		if t.Datatype != "" {
			return fmt.Sprintf("%q^^<%s>", t.Value, t.Datatype)
		}
		return fmt.Sprintf("%q", t.Value)
	default:
		return t.Value
	}
}

// Triple is a single subject-predicate-object statement.
type Triple struct {
	Subject   Term `json:"subject"`
	Predicate Term `json:"predicate"`
	Object    Term `json:"object"`
}

// Graph is an ordered set of triples with simple matching primitives.
// It is not safe for concurrent mutation; SemValid builds a graph once
// during decode and treats it as read-only afterwards.
type Graph struct {
	triples []Triple
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{}
}

// Add appends a triple, preserving insertion order.
func (g *Graph) Add(t Triple) {
	g.triples = append(g.triples, t)
}

// Len returns the number of triples in the graph.
func (g *Graph) Len() int {
	return len(g.triples)
}

// Triples returns all triples in insertion order. The returned slice is
// shared with the graph and must not be mutated.
func (g *Graph) Triples() []Triple {
	return g.triples
}

// Match returns all triples with the given subject and predicate, in graph
// order. A zero-value Term matches any term in that position.
func (g *Graph) Match(subject, predicate Term) []Triple {
	var out []Triple
	any := Term{}
	for _, t := range g.triples {
		if subject != any && !t.Subject.Equal(subject) {
			continue
		}
		if predicate != any && !t.Predicate.Equal(predicate) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// Objects returns the objects of all triples matching subject and predicate,
// in graph order.
func (g *Graph) Objects(subject, predicate Term) []Term {
	matches := g.Match(subject, predicate)
	out := make([]Term, 0, len(matches))
	for _, t := range matches {
		out = append(out, t.Object)
	}
	return out
}

// Object returns the first object for subject and predicate in graph order.
// The boolean reports whether any match exists.
func (g *Graph) Object(subject, predicate Term) (Term, bool) {
	for _, t := range g.triples {
		if t.Subject.Equal(subject) && t.Predicate.Equal(predicate) {
			return t.Object, true
		}
	}
	return Term{}, false
}

// ObjectIRI extracts a single-valued IRI property: the first object for
// subject and predicate that is an IRI. Non-IRI objects are skipped so a
// stray literal never shadows the reference the caller is looking for.
func (g *Graph) ObjectIRI(subject, predicate Term) (Term, bool) {
	for _, t := range g.triples {
		if t.Subject.Equal(subject) && t.Predicate.Equal(predicate) && t.Object.IsIRI() {
			return t.Object, true
		}
	}
	return Term{}, false
}

// Subjects returns the distinct subjects of the graph in first-seen order.
func (g *Graph) Subjects() []Term {
	seen := make(map[Term]struct{}, len(g.triples))
	var out []Term
	for _, t := range g.triples {
		if _, ok := seen[t.Subject]; ok {
			continue
		}
		seen[t.Subject] = struct{}{}
		out = append(out, t.Subject)
	}
	return out
}

// Has reports whether the graph contains a triple equal to t.
func (g *Graph) Has(t Triple) bool {
	for _, existing := range g.triples {
		if existing.Subject.Equal(t.Subject) &&
			existing.Predicate.Equal(t.Predicate) &&
			existing.Object.Equal(t.Object) {
			return true
		}
	}
	return false
}
