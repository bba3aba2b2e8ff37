// Package semvalid provides profile-driven conformance validation for
// linked-data resources.
//
// # Overview
//
// A resource published on the web can declare, in its own RDF description,
// the profile it conforms to (dcterms:conformsTo). That profile, itself a
// retrievable RDF resource following the W3C Profiles Vocabulary, advertises
// the resources associated with it: human-readable documentation, JSON
// schemas, SHACL shapes. SemValid resolves this two-level indirection and
// validates the resource against the SHACL artifact its profile designates,
// without the caller having to know in advance which schema applies.
//
// # Pipeline
//
//	caller → pipeline.Validate(iri)
//	       → fetcher.Fetch(iri)              content-negotiated retrieval
//	       → profile.FindProfile(resource)   dcterms:conformsTo lookup
//	       → profile.ResolveArtifact(...)    prof:hasResource descriptor walk
//	       → fetcher.Fetch(artifact)         SHACL shapes graph
//	       → shacl engine context            load shapes, load data
//	       → *shacl.Report                   conforms flag + violations
//
// Each Validate call owns an independent validation context; calls may run
// concurrently and share only the pooled HTTP transport.
//
// # Packages
//
// Core:
//   - graph: triple/term model and query primitives
//   - codec: media type to RDF format registry, decode/encode
//   - vocabulary: well-known IRIs (prof, dcterms, sh)
//   - fetcher: content-negotiated resource retrieval
//   - profile: profile discovery and artifact selection
//   - shacl: engine contract, validation reports
//   - shacl/memory: bundled in-memory SHACL-core subset engine
//   - pipeline: validation orchestration
//
// Infrastructure:
//   - service: HTTP surface (/validate, /healthz, /metrics)
//   - config: configuration loading and validation
//   - errors: structured error classification
//   - metric: Prometheus metrics
//   - health: component health tracking
//   - pkg/retry: retry policies for transient fetch failures
//
// # Binary
//
//	./bin/semvalid --config configs/example.json
//	curl -H 'Accept: text/turtle' 'http://localhost:8080/validate?resource=https://example.org/dataset/1'
package semvalid
