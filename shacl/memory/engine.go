// Package memory provides the bundled in-memory SHACL engine.
//
// It implements the SHACL-core subset SemValid's own profiles use: node
// shapes targeted by sh:targetClass or sh:targetNode, and property shapes
// with sh:minCount, sh:maxCount, sh:datatype, sh:nodeKind, sh:class and
// sh:hasValue. Shapes that declare no target validate every subject in the
// data graph. Anything beyond this subset calls for an external engine
// behind the shacl.Engine interface.
package memory

import (
	"context"
	"fmt"
	"strconv"

	"github.com/c360/semvalid/errors"
	"github.com/c360/semvalid/graph"
	"github.com/c360/semvalid/shacl"
	"github.com/c360/semvalid/vocabulary"
)

// Engine creates in-memory validation contexts.
type Engine struct{}

// NewEngine returns a new in-memory engine.
func NewEngine() *Engine {
	return &Engine{}
}

// NewContext returns a fresh validation context. Contexts are independent;
// the engine itself holds no state.
func (e *Engine) NewContext(_ context.Context) (shacl.Context, error) {
	return &validationContext{}, nil
}

// context states
const (
	stateInit = iota
	stateShapesLoaded
	stateDone
	stateClosed
)

type validationContext struct {
	state  int
	shapes []nodeShape
}

type nodeShape struct {
	id            graph.Term
	targetClasses []graph.Term
	targetNodes   []graph.Term
	properties    []propertyShape
}

type propertyShape struct {
	path     graph.Term
	minCount *int
	maxCount *int
	datatype string
	nodeKind string
	class    string
	hasValue *graph.Term
	message  string
	severity shacl.Severity
}

// LoadShapes parses the constraints graph into the context. The context has
// no data yet, so any failure here is an engine failure.
func (vc *validationContext) LoadShapes(shapes *graph.Graph) error {
	switch vc.state {
	case stateClosed:
		return errors.WrapFatal(errors.ErrContextClosed, "memory", "LoadShapes", "context reuse")
	case stateInit:
	default:
		return errors.WrapFatal(errors.ErrEngineFailure, "memory", "LoadShapes", "shapes already loaded")
	}

	parsed, err := parseShapes(shapes)
	if err != nil {
		return err
	}
	vc.shapes = parsed
	vc.state = stateShapesLoaded
	return nil
}

// LoadData evaluates the data graph against the loaded shapes. Constraint
// failures are returned in the Outcome; the error return is reserved for
// engine failures.
func (vc *validationContext) LoadData(data *graph.Graph) (shacl.Outcome, error) {
	switch vc.state {
	case stateClosed:
		return shacl.Outcome{}, errors.WrapFatal(errors.ErrContextClosed, "memory", "LoadData", "context reuse")
	case stateShapesLoaded:
	default:
		return shacl.Outcome{}, errors.WrapFatal(errors.ErrShapesNotReady, "memory", "LoadData", "load order")
	}
	vc.state = stateDone

	report := shacl.NewConformantReport()
	for _, shape := range vc.shapes {
		for _, focus := range focusNodes(shape, data) {
			for _, prop := range shape.properties {
				results := evaluate(prop, focus, data)
				report.Results = append(report.Results, results...)
			}
		}
	}

	for _, r := range report.Results {
		if r.Severity == shacl.SeverityViolation {
			report.Conforms = false
			break
		}
	}
	return shacl.Outcome{Conforms: report.Conforms, Report: report}, nil
}

// Close releases the parsed shapes. Idempotent.
func (vc *validationContext) Close() error {
	vc.shapes = nil
	vc.state = stateClosed
	return nil
}

// parseShapes extracts node shapes from a shapes graph.
func parseShapes(g *graph.Graph) ([]nodeShape, error) {
	rdfType := vocabulary.Term(vocabulary.RdfType)
	var shapes []nodeShape

	for _, subject := range g.Subjects() {
		isNodeShape := false
		for _, t := range g.Objects(subject, rdfType) {
			if t.IsIRI() && t.Value == vocabulary.ShNodeShape {
				isNodeShape = true
				break
			}
		}
		if !isNodeShape {
			continue
		}

		shape := nodeShape{
			id:            subject,
			targetClasses: g.Objects(subject, vocabulary.Term(vocabulary.ShTargetClass)),
			targetNodes:   g.Objects(subject, vocabulary.Term(vocabulary.ShTargetNode)),
		}

		for _, propNode := range g.Objects(subject, vocabulary.Term(vocabulary.ShProperty)) {
			prop, ok, err := parsePropertyShape(g, propNode)
			if err != nil {
				return nil, err
			}
			if ok {
				shape.properties = append(shape.properties, prop)
			}
		}
		shapes = append(shapes, shape)
	}
	return shapes, nil
}

// parsePropertyShape reads one property shape. Shapes without a sh:path are
// skipped: there is nothing to evaluate them against.
func parsePropertyShape(g *graph.Graph, node graph.Term) (propertyShape, bool, error) {
	path, ok := g.Object(node, vocabulary.Term(vocabulary.ShPath))
	if !ok {
		return propertyShape{}, false, nil
	}

	prop := propertyShape{path: path, severity: shacl.SeverityViolation}

	if min, ok, err := intConstraint(g, node, vocabulary.ShMinCount); err != nil {
		return propertyShape{}, false, err
	} else if ok {
		prop.minCount = &min
	}
	if max, ok, err := intConstraint(g, node, vocabulary.ShMaxCount); err != nil {
		return propertyShape{}, false, err
	} else if ok {
		prop.maxCount = &max
	}

	if dt, ok := g.ObjectIRI(node, vocabulary.Term(vocabulary.ShDatatype)); ok {
		prop.datatype = dt.Value
	}
	if nk, ok := g.ObjectIRI(node, vocabulary.Term(vocabulary.ShNodeKind)); ok {
		prop.nodeKind = nk.Value
	}
	if cls, ok := g.ObjectIRI(node, vocabulary.Term(vocabulary.ShClass)); ok {
		prop.class = cls.Value
	}
	if hv, ok := g.Object(node, vocabulary.Term(vocabulary.ShHasValue)); ok {
		prop.hasValue = &hv
	}
	if msg, ok := g.Object(node, vocabulary.Term(vocabulary.ShMessage)); ok && msg.IsLiteral() {
		prop.message = msg.Value
	}
	if sev, ok := g.ObjectIRI(node, vocabulary.Term(vocabulary.ShSeverity)); ok {
		switch sev.Value {
		case vocabulary.ShWarning:
			prop.severity = shacl.SeverityWarning
		case vocabulary.ShInfo:
			prop.severity = shacl.SeverityInfo
		}
	}

	return prop, true, nil
}

// intConstraint reads an integer-valued constraint parameter. A value that
// is not an integer makes the shapes graph unusable, which is an engine
// failure rather than a data problem.
func intConstraint(g *graph.Graph, node graph.Term, predicate string) (int, bool, error) {
	obj, ok := g.Object(node, vocabulary.Term(predicate))
	if !ok {
		return 0, false, nil
	}
	n, err := strconv.Atoi(obj.Value)
	if err != nil {
		return 0, false, errors.WrapFatal(errors.ErrEngineFailure, "memory", "LoadShapes",
			fmt.Sprintf("non-integer value %q for %s", obj.Value, predicate))
	}
	return n, true, nil
}

// focusNodes selects the nodes a shape applies to. With no declared target
// the shape validates every subject in the data graph.
func focusNodes(shape nodeShape, data *graph.Graph) []graph.Term {
	if len(shape.targetClasses) == 0 && len(shape.targetNodes) == 0 {
		return data.Subjects()
	}

	rdfType := vocabulary.Term(vocabulary.RdfType)
	seen := make(map[graph.Term]struct{})
	var out []graph.Term

	add := func(t graph.Term) {
		if _, ok := seen[t]; ok {
			return
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}

	for _, class := range shape.targetClasses {
		for _, t := range data.Match(graph.Term{}, rdfType) {
			if t.Object.Equal(class) {
				add(t.Subject)
			}
		}
	}
	for _, node := range shape.targetNodes {
		add(node)
	}
	return out
}

// evaluate checks one property shape against one focus node.
func evaluate(prop propertyShape, focus graph.Term, data *graph.Graph) []shacl.Violation {
	values := data.Objects(focus, prop.path)
	var results []shacl.Violation

	fail := func(value graph.Term, defaultMsg string) {
		msg := prop.message
		if msg == "" {
			msg = defaultMsg
		}
		results = append(results, shacl.Violation{
			FocusNode: focus,
			Path:      prop.path,
			Value:     value,
			Message:   msg,
			Severity:  prop.severity,
		})
	}

	if prop.minCount != nil && len(values) < *prop.minCount {
		fail(graph.Term{}, fmt.Sprintf("expected at least %d values for %s, found %d",
			*prop.minCount, prop.path.Value, len(values)))
	}
	if prop.maxCount != nil && len(values) > *prop.maxCount {
		fail(graph.Term{}, fmt.Sprintf("expected at most %d values for %s, found %d",
			*prop.maxCount, prop.path.Value, len(values)))
	}

	for _, v := range values {
		if prop.datatype != "" && !matchesDatatype(v, prop.datatype) {
			fail(v, fmt.Sprintf("value does not have datatype %s", prop.datatype))
		}
		if prop.nodeKind != "" && !matchesNodeKind(v, prop.nodeKind) {
			fail(v, fmt.Sprintf("value does not match node kind %s", prop.nodeKind))
		}
		if prop.class != "" && !hasClass(v, prop.class, data) {
			fail(v, fmt.Sprintf("value is not an instance of %s", prop.class))
		}
	}

	if prop.hasValue != nil {
		found := false
		for _, v := range values {
			if v.Equal(*prop.hasValue) {
				found = true
				break
			}
		}
		if !found {
			fail(graph.Term{}, fmt.Sprintf("required value %s not present", prop.hasValue.String()))
		}
	}

	return results
}

func matchesDatatype(v graph.Term, datatype string) bool {
	if !v.IsLiteral() || v.Lang != "" {
		return false
	}
	// Plain literals carry xsd:string implicitly.
	if v.Datatype == "" {
		return datatype == vocabulary.XsdString
	}
	return v.Datatype == datatype
}

func matchesNodeKind(v graph.Term, nodeKind string) bool {
	switch nodeKind {
	case vocabulary.ShIRI:
		return v.IsIRI()
	case vocabulary.ShLiteral:
		return v.IsLiteral()
	case vocabulary.ShBlankNode:
		return v.IsBlank()
	case vocabulary.ShBlankOrIRI:
		return v.IsBlank() || v.IsIRI()
	case vocabulary.ShIRIOrLiteral:
		return v.IsIRI() || v.IsLiteral()
	default:
		return false
	}
}

func hasClass(v graph.Term, class string, data *graph.Graph) bool {
	if v.IsLiteral() {
		return false
	}
	return data.Has(graph.Triple{
		Subject:   v,
		Predicate: graph.NewIRI(vocabulary.RdfType),
		Object:    graph.NewIRI(class),
	})
}
