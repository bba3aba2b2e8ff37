package graph

// Resource is a retrieved graph resource: its identifier, the media type it
// was served as, and the decoded graph. Resources are immutable once built;
// the fetcher constructs one per retrieval and nothing mutates it afterwards.
type Resource struct {
	// ID is the identifier the resource was retrieved by, used as the
	// subject for lookups against the resource's own description.
	ID string

	// ContentType is the negotiated media type the server returned,
	// normalized to the bare type (no parameters).
	ContentType string

	// Graph holds the decoded triples.
	Graph *Graph
}

// Subject returns the resource's identifier as an IRI term.
func (r *Resource) Subject() Term {
	return NewIRI(r.ID)
}
