// Package vocabulary defines the well-known IRIs SemValid matches against.
//
// The constants form an immutable, process-wide registry initialized at
// compile time; nothing mutates them at runtime. Three vocabularies matter:
//
//   - prof: the W3C Profiles Vocabulary, used by profiles to advertise their
//     associated resources (https://www.w3.org/TR/dx-prof/)
//   - dcterms: Dublin Core terms, of which conformsTo links a resource to
//     its profile and a profile descriptor to the standard it uses
//   - sh: the SHACL vocabulary, used both by shapes graphs consumed by the
//     engine and by the validation reports SemValid produces
//
// Term helpers in this package return graph.Term values so callers can match
// directly against decoded graphs without rebuilding terms at every site.
package vocabulary
