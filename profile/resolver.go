// Package profile resolves the validation artifact a resource's profile
// designates.
//
// Resolution is a two-level indirection: the resource declares its profile
// with dcterms:conformsTo, and the profile (itself a retrievable graph
// resource following the W3C Profiles Vocabulary) advertises resource
// descriptors. The resolver walks those descriptors in graph order and
// selects the first one that is both a Validation role resource and
// expressed in SHACL. The filtering lets one profile advertise several
// purposes (human documentation, JSON schemas, shapes) while the pipeline
// picks out exactly the artifact it can consume.
package profile

import (
	"context"
	"log/slog"

	"github.com/c360/semvalid/errors"
	"github.com/c360/semvalid/graph"
	"github.com/c360/semvalid/vocabulary"
)

// Fetcher is the retrieval capability the resolver needs to dereference a
// profile IRI.
type Fetcher interface {
	Fetch(ctx context.Context, identifier string) (*graph.Resource, error)
}

// Resolver finds validation artifacts through a resource's declared profile.
type Resolver struct {
	fetcher Fetcher
	logger  *slog.Logger
}

// NewResolver creates a Resolver using the given fetcher.
func NewResolver(fetcher Fetcher, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{
		fetcher: fetcher,
		logger:  logger.With("component", "resolver"),
	}
}

// FindProfile returns the profile IRI the resource declares for itself.
// The conformance statement must be made about the resource's own
// identifier; its absence is an error, not an empty result. When a resource
// declares several profiles the first in graph order is used; multiplicity
// is deliberately not an error.
func (r *Resolver) FindProfile(res *graph.Resource) (string, error) {
	profile, ok := res.Graph.ObjectIRI(res.Subject(), vocabulary.Term(vocabulary.DctConformsTo))
	if !ok {
		return "", errors.WrapInvalid(errors.ErrProfileMissing, "Resolver", "FindProfile", res.ID)
	}
	return profile.Value, nil
}

// ResolveArtifact returns the IRI of the SHACL validation artifact the
// resource's profile designates. It fetches the profile and walks its
// prof:hasResource descriptors in graph order; the first descriptor with
// role Validation, standard SHACL and an artifact wins. Exactly one
// artifact is selected per call; if no descriptor qualifies, resolution
// fails rather than proceeding without constraints.
func (r *Resolver) ResolveArtifact(ctx context.Context, res *graph.Resource) (string, error) {
	profileIRI, err := r.FindProfile(res)
	if err != nil {
		return "", err
	}
	r.logger.Info("resolved profile", "resource", res.ID, "profile", profileIRI)

	profile, err := r.fetcher.Fetch(ctx, profileIRI)
	if err != nil {
		return "", err
	}

	artifact, err := r.findArtifact(profile, profileIRI)
	if err != nil {
		return "", err
	}
	r.logger.Info("resolved validation artifact", "profile", profileIRI, "artifact", artifact)
	return artifact, nil
}

// findArtifact selects the artifact from an already-fetched profile graph.
func (r *Resolver) findArtifact(profile *graph.Resource, profileIRI string) (string, error) {
	subject := graph.NewIRI(profileIRI)
	hasRole := vocabulary.Term(vocabulary.ProfHasRole)
	conformsTo := vocabulary.Term(vocabulary.DctConformsTo)
	hasArtifact := vocabulary.Term(vocabulary.ProfHasArtifact)

	for _, descriptor := range profile.Graph.Objects(subject, vocabulary.Term(vocabulary.ProfHasResource)) {
		role, ok := profile.Graph.ObjectIRI(descriptor, hasRole)
		if !ok || role.Value != vocabulary.RoleValidation {
			continue
		}

		standard, ok := profile.Graph.ObjectIRI(descriptor, conformsTo)
		if !ok || standard.Value != vocabulary.StandardSHACL {
			continue
		}

		artifact, ok := profile.Graph.ObjectIRI(descriptor, hasArtifact)
		if !ok {
			continue
		}
		return artifact.Value, nil
	}

	return "", errors.WrapInvalid(errors.ErrArtifactMissing, "Resolver", "ResolveArtifact", profileIRI)
}
