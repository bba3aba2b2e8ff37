// Package codec maps media types to RDF formats and decodes or encodes
// graphs in those formats.
//
// The registry is immutable and process-wide: formats are registered at
// compile time, most-preferred first, and the fetcher derives its Accept
// header from the same ordering. Adding a format means adding a registry
// entry; neither the fetcher nor the resolver change.
//
// Wire-level parsing and serialization are delegated to
// github.com/geoknoesis/rdf-go.
package codec

import (
	"io"
	"strings"

	rdf "github.com/geoknoesis/rdf-go/rdf"

	"github.com/c360/semvalid/errors"
	"github.com/c360/semvalid/graph"
)

// Format describes one supported RDF serialization.
type Format struct {
	// Name is a short identifier used in logs ("turtle", "jsonld", ...).
	Name string

	// MediaTypes lists the media types this format is served under,
	// canonical type first.
	MediaTypes []string

	wire rdf.Format
}

// MediaType returns the canonical media type for the format.
func (f Format) MediaType() string {
	return f.MediaTypes[0]
}

// registry holds the supported formats in descending preference order.
// Turtle first: it is the preferred response serialization and leads the
// Accept header. The order is stable; descriptor and report behavior must
// not depend on it beyond preference.
var registry = []Format{
	{Name: "turtle", MediaTypes: []string{"text/turtle", "application/x-turtle"}, wire: rdf.FormatTurtle},
	{Name: "jsonld", MediaTypes: []string{"application/ld+json"}, wire: rdf.FormatJSONLD},
	{Name: "rdfxml", MediaTypes: []string{"application/rdf+xml"}, wire: rdf.FormatRDFXML},
	{Name: "ntriples", MediaTypes: []string{"application/n-triples"}, wire: rdf.FormatNTriples},
	{Name: "nquads", MediaTypes: []string{"application/n-quads"}, wire: rdf.FormatNQuads},
	{Name: "trig", MediaTypes: []string{"application/trig"}, wire: rdf.FormatTriG},
}

// Default is the format used when a caller expresses no preference.
func Default() Format {
	return registry[0]
}

// Formats returns the registered formats in preference order.
func Formats() []Format {
	out := make([]Format, len(registry))
	copy(out, registry)
	return out
}

// normalizeMediaType strips parameters (charset etc.) and case-folds.
func normalizeMediaType(mediaType string) string {
	if idx := strings.IndexByte(mediaType, ';'); idx >= 0 {
		mediaType = mediaType[:idx]
	}
	return strings.ToLower(strings.TrimSpace(mediaType))
}

// Match returns the format registered for the given media type. Parameters
// on the media type are ignored. The boolean reports whether a decoder is
// registered; callers must treat false as a format error, never as an empty
// graph.
func Match(mediaType string) (Format, bool) {
	want := normalizeMediaType(mediaType)
	if want == "" {
		return Format{}, false
	}
	for _, f := range registry {
		for _, mt := range f.MediaTypes {
			if mt == want {
				return f, true
			}
		}
	}
	return Format{}, false
}

// AcceptHeader returns the comma-joined list of every supported media type,
// most preferred first. The fetcher sends this on every retrieval.
func AcceptHeader() string {
	var types []string
	for _, f := range registry {
		types = append(types, f.MediaTypes...)
	}
	return strings.Join(types, ",")
}

// Negotiate reports whether an Accept header asks for a graph encoding and
// which one. Client order wins; the first supported media type is used.
// Empty headers, wildcards, and application/json return false so callers can
// keep their non-graph default. Unsupported types are skipped.
func Negotiate(accept string) (Format, bool) {
	for _, part := range strings.Split(accept, ",") {
		mt := normalizeMediaType(part)
		if mt == "" || mt == "*/*" || mt == "application/json" {
			return Format{}, false
		}
		if f, ok := Match(mt); ok {
			return f, true
		}
	}
	return Format{}, false
}

// Decode reads triples from r in the given format. Quad graph labels are
// dropped: SemValid operates on single graphs. A parse failure is an invalid
// error wrapping ErrDecodeFailed.
func Decode(r io.Reader, f Format) (*graph.Graph, error) {
	dec, err := rdf.NewReader(r, f.wire)
	if err != nil {
		return nil, errors.WrapInvalid(errors.ErrUnsupportedFormat, "codec", "Decode", f.Name+" decoder init")
	}
	defer dec.Close()

	g := graph.New()
	for {
		quad, err := dec.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			wrapped := errors.Wrap(err, "codec", "Decode", f.Name+" parse")
			return nil, errors.WrapInvalid(errors.ErrDecodeFailed, "codec", "Decode", wrapped.Error())
		}

		s, err := fromTerm(quad.S)
		if err != nil {
			return nil, err
		}
		p, err := fromTerm(quad.P)
		if err != nil {
			return nil, err
		}
		o, err := fromTerm(quad.O)
		if err != nil {
			return nil, err
		}
		g.Add(graph.Triple{Subject: s, Predicate: p, Object: o})
	}
	return g, nil
}

// Encode writes the graph to w in the given format.
func Encode(w io.Writer, g *graph.Graph, f Format) error {
	enc, err := rdf.NewWriter(w, f.wire)
	if err != nil {
		return errors.WrapInvalid(errors.ErrUnsupportedFormat, "codec", "Encode", f.Name+" encoder init")
	}

	for _, t := range g.Triples() {
		quad := rdf.Statement{S: toTerm(t.Subject), P: rdf.IRI{Value: t.Predicate.Value}, O: toTerm(t.Object)}
		if err := enc.Write(quad); err != nil {
			return errors.Wrap(err, "codec", "Encode", f.Name+" write")
		}
	}
	return enc.Close()
}

// fromTerm converts a wire-level term into the SemValid term model.
func fromTerm(t rdf.Term) (graph.Term, error) {
	switch v := t.(type) {
	case rdf.IRI:
		return graph.NewIRI(v.Value), nil
	case rdf.BlankNode:
		return graph.NewBlank(v.ID), nil
	case rdf.Literal:
		return graph.Term{
			Kind:     graph.Literal,
			Value:    v.Lexical,
			Datatype: v.Datatype.Value,
			Lang:     v.Lang,
		}, nil
	default:
		// RDF-star quoted triples have no place in profile or shapes
		// graphs; refuse rather than silently mangle.
		return graph.Term{}, errors.WrapInvalid(errors.ErrDecodeFailed, "codec", "fromTerm", "unsupported term type")
	}
}

// toTerm converts a SemValid term back to the wire-level model.
func toTerm(t graph.Term) rdf.Term {
	switch t.Kind {
	case graph.IRI:
		return rdf.IRI{Value: t.Value}
	case graph.BlankNode:
		return rdf.BlankNode{ID: t.Value}
	default:
		return rdf.Literal{Lexical: t.Value, Datatype: rdf.IRI{Value: t.Datatype}, Lang: t.Lang}
	}
}
