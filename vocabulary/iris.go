package vocabulary

import "github.com/c360/semvalid/graph"

// W3C Profiles Vocabulary namespace and terms.
const (
	// ProfNamespace is the base IRI of the W3C Profiles Vocabulary.
	ProfNamespace = "http://www.w3.org/ns/dx/prof/"

	// ProfHasResource links a profile to one of its resource descriptors.
	ProfHasResource = ProfNamespace + "hasResource"

	// ProfHasRole states the role a descriptor plays within its profile
	// (specification, guidance, validation, ...).
	ProfHasRole = ProfNamespace + "hasRole"

	// ProfHasArtifact links a descriptor to the retrievable artifact it
	// describes.
	ProfHasArtifact = ProfNamespace + "hasArtifact"

	// RoleValidation marks a descriptor whose artifact can be used to
	// validate data claiming conformance to the profile.
	RoleValidation = ProfNamespace + "role/Validation"
)

// Dublin Core terms.
const (
	// DctNamespace is the Dublin Core terms namespace.
	DctNamespace = "http://purl.org/dc/terms/"

	// DctConformsTo is used in two places: a resource declares its profile
	// with it, and a profile descriptor declares the standard its artifact
	// is expressed in.
	DctConformsTo = DctNamespace + "conformsTo"
)

// StandardSHACL is the IRI profiles use to declare that a validation
// artifact is a SHACL shapes graph. Only descriptors carrying this standard
// are selected by the resolver.
const StandardSHACL = "https://www.w3.org/TR/shacl/"

// RdfType is the rdf:type predicate.
const RdfType = "http://www.w3.org/1999/02/22-rdf-syntax-ns#type"

// XSD datatype IRIs referenced by shapes and literals.
const (
	XsdNamespace = "http://www.w3.org/2001/XMLSchema#"
	XsdString    = XsdNamespace + "string"
	XsdInteger   = XsdNamespace + "integer"
	XsdBoolean   = XsdNamespace + "boolean"
	XsdDecimal   = XsdNamespace + "decimal"
	XsdDateTime  = XsdNamespace + "dateTime"
)

// SHACL vocabulary terms. The shapes-side constants are consumed by the
// bundled engine; the report-side constants are used when rendering a
// validation report back to RDF.
const (
	ShNamespace = "http://www.w3.org/ns/shacl#"

	// Shapes side.
	ShNodeShape   = ShNamespace + "NodeShape"
	ShTargetClass = ShNamespace + "targetClass"
	ShTargetNode  = ShNamespace + "targetNode"
	ShProperty    = ShNamespace + "property"
	ShPath        = ShNamespace + "path"
	ShMinCount    = ShNamespace + "minCount"
	ShMaxCount    = ShNamespace + "maxCount"
	ShDatatype    = ShNamespace + "datatype"
	ShNodeKind    = ShNamespace + "nodeKind"
	ShHasValue    = ShNamespace + "hasValue"
	ShClass       = ShNamespace + "class"
	ShMessage     = ShNamespace + "message"
	ShSeverity    = ShNamespace + "severity"

	// sh:nodeKind values.
	ShIRI          = ShNamespace + "IRI"
	ShLiteral      = ShNamespace + "Literal"
	ShBlankNode    = ShNamespace + "BlankNode"
	ShBlankOrIRI   = ShNamespace + "BlankNodeOrIRI"
	ShIRIOrLiteral = ShNamespace + "IRIOrLiteral"

	// Report side.
	ShValidationReport = ShNamespace + "ValidationReport"
	ShValidationResult = ShNamespace + "ValidationResult"
	ShConforms         = ShNamespace + "conforms"
	ShResult           = ShNamespace + "result"
	ShFocusNode        = ShNamespace + "focusNode"
	ShResultPath       = ShNamespace + "resultPath"
	ShResultMessage    = ShNamespace + "resultMessage"
	ShResultSeverity   = ShNamespace + "resultSeverity"
	ShValue            = ShNamespace + "value"
	ShSourceShape      = ShNamespace + "sourceShape"

	// Severity values.
	ShViolation = ShNamespace + "Violation"
	ShWarning   = ShNamespace + "Warning"
	ShInfo      = ShNamespace + "Info"
)

// Term returns iri as a graph term. It exists so call sites matching against
// decoded graphs stay short: g.Object(s, vocabulary.Term(vocabulary.DctConformsTo)).
func Term(iri string) graph.Term {
	return graph.NewIRI(iri)
}
