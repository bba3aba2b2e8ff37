package profile

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360/semvalid/errors"
	"github.com/c360/semvalid/graph"
	"github.com/c360/semvalid/vocabulary"
)

const (
	resourceIRI = "https://example.org/dataset/1"
	profileIRI  = "https://example.org/profile/dcat"
)

// mapFetcher serves resources from a map, recording fetch order.
type mapFetcher struct {
	resources map[string]*graph.Resource
	fetched   []string
}

func (m *mapFetcher) Fetch(_ context.Context, identifier string) (*graph.Resource, error) {
	m.fetched = append(m.fetched, identifier)
	res, ok := m.resources[identifier]
	if !ok {
		return nil, errors.WrapTransient(errors.ErrFetchFailed, "mapFetcher", "Fetch", identifier)
	}
	return res, nil
}

func resourceDeclaringProfile(profile string) *graph.Resource {
	g := graph.New()
	g.Add(graph.Triple{
		Subject:   graph.NewIRI(resourceIRI),
		Predicate: graph.NewIRI(vocabulary.DctConformsTo),
		Object:    graph.NewIRI(profile),
	})
	return &graph.Resource{ID: resourceIRI, ContentType: "text/turtle", Graph: g}
}

// descriptor describes one prof:hasResource entry for profile building.
type descriptor struct {
	role     string
	standard string
	artifact string
}

func profileResource(descriptors ...descriptor) *graph.Resource {
	g := graph.New()
	subject := graph.NewIRI(profileIRI)

	for i, d := range descriptors {
		node := graph.NewBlank(fmt.Sprintf("d%d", i))
		g.Add(graph.Triple{Subject: subject, Predicate: graph.NewIRI(vocabulary.ProfHasResource), Object: node})
		if d.role != "" {
			g.Add(graph.Triple{Subject: node, Predicate: graph.NewIRI(vocabulary.ProfHasRole), Object: graph.NewIRI(d.role)})
		}
		if d.standard != "" {
			g.Add(graph.Triple{Subject: node, Predicate: graph.NewIRI(vocabulary.DctConformsTo), Object: graph.NewIRI(d.standard)})
		}
		if d.artifact != "" {
			g.Add(graph.Triple{Subject: node, Predicate: graph.NewIRI(vocabulary.ProfHasArtifact), Object: graph.NewIRI(d.artifact)})
		}
	}
	return &graph.Resource{ID: profileIRI, ContentType: "text/turtle", Graph: g}
}

func TestFindProfileMissing(t *testing.T) {
	r := NewResolver(&mapFetcher{}, nil)

	res := &graph.Resource{ID: resourceIRI, ContentType: "text/turtle", Graph: graph.New()}
	_, err := r.FindProfile(res)
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrProfileMissing)
	assert.True(t, errors.IsInvalid(err))
}

func TestFindProfileIgnoresOtherSubjects(t *testing.T) {
	// A conformance statement about some other node does not count.
	g := graph.New()
	g.Add(graph.Triple{
		Subject:   graph.NewIRI("https://example.org/other"),
		Predicate: graph.NewIRI(vocabulary.DctConformsTo),
		Object:    graph.NewIRI(profileIRI),
	})
	res := &graph.Resource{ID: resourceIRI, ContentType: "text/turtle", Graph: g}

	r := NewResolver(&mapFetcher{}, nil)
	_, err := r.FindProfile(res)
	assert.ErrorIs(t, err, errors.ErrProfileMissing)
}

func TestFindProfileMultipleValuesTakesFirst(t *testing.T) {
	res := resourceDeclaringProfile(profileIRI)
	res.Graph.Add(graph.Triple{
		Subject:   graph.NewIRI(resourceIRI),
		Predicate: graph.NewIRI(vocabulary.DctConformsTo),
		Object:    graph.NewIRI("https://example.org/profile/second"),
	})

	r := NewResolver(&mapFetcher{}, nil)
	profile, err := r.FindProfile(res)
	require.NoError(t, err)
	assert.Equal(t, profileIRI, profile)
}

func TestResolveArtifactSingleQualifyingDescriptor(t *testing.T) {
	artifact := "https://example.org/shapes/dataset.ttl"
	fetcher := &mapFetcher{resources: map[string]*graph.Resource{
		profileIRI: profileResource(descriptor{
			role:     vocabulary.RoleValidation,
			standard: vocabulary.StandardSHACL,
			artifact: artifact,
		}),
	}}

	r := NewResolver(fetcher, nil)
	got, err := r.ResolveArtifact(context.Background(), resourceDeclaringProfile(profileIRI))
	require.NoError(t, err)
	assert.Equal(t, artifact, got)
	assert.Equal(t, []string{profileIRI}, fetcher.fetched)
}

func TestResolveArtifactNoQualifyingDescriptor(t *testing.T) {
	tests := []struct {
		name        string
		descriptors []descriptor
	}{
		{
			name:        "no descriptors at all",
			descriptors: nil,
		},
		{
			name: "wrong role",
			descriptors: []descriptor{{
				role:     vocabulary.ProfNamespace + "role/specification",
				standard: vocabulary.StandardSHACL,
				artifact: "https://example.org/spec.html",
			}},
		},
		{
			name: "wrong standard",
			descriptors: []descriptor{{
				role:     vocabulary.RoleValidation,
				standard: "https://json-schema.org/draft/2020-12/schema",
				artifact: "https://example.org/schema.json",
			}},
		},
		{
			name: "qualifying role and standard but no artifact",
			descriptors: []descriptor{{
				role:     vocabulary.RoleValidation,
				standard: vocabulary.StandardSHACL,
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fetcher := &mapFetcher{resources: map[string]*graph.Resource{
				profileIRI: profileResource(tt.descriptors...),
			}}
			r := NewResolver(fetcher, nil)

			_, err := r.ResolveArtifact(context.Background(), resourceDeclaringProfile(profileIRI))
			require.Error(t, err)
			assert.ErrorIs(t, err, errors.ErrArtifactMissing)
			assert.True(t, errors.IsInvalid(err))
		})
	}
}

func TestResolveArtifactFirstMatchWins(t *testing.T) {
	fetcher := &mapFetcher{resources: map[string]*graph.Resource{
		profileIRI: profileResource(
			descriptor{ // fails role filter, skipped
				role:     vocabulary.ProfNamespace + "role/guidance",
				standard: vocabulary.StandardSHACL,
				artifact: "https://example.org/guide.html",
			},
			descriptor{
				role:     vocabulary.RoleValidation,
				standard: vocabulary.StandardSHACL,
				artifact: "https://example.org/shapes/a.ttl",
			},
			descriptor{ // also qualifies, but must never be selected
				role:     vocabulary.RoleValidation,
				standard: vocabulary.StandardSHACL,
				artifact: "https://example.org/shapes/b.ttl",
			},
		),
	}}

	r := NewResolver(fetcher, nil)
	got, err := r.ResolveArtifact(context.Background(), resourceDeclaringProfile(profileIRI))
	require.NoError(t, err)
	assert.Equal(t, "https://example.org/shapes/a.ttl", got)
}

func TestResolveArtifactProfileFetchFailure(t *testing.T) {
	r := NewResolver(&mapFetcher{}, nil) // fetcher knows nothing

	_, err := r.ResolveArtifact(context.Background(), resourceDeclaringProfile(profileIRI))
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrFetchFailed)
}

func TestResolveArtifactMissingProfileStatement(t *testing.T) {
	r := NewResolver(&mapFetcher{}, nil)

	res := &graph.Resource{ID: resourceIRI, ContentType: "text/turtle", Graph: graph.New()}
	_, err := r.ResolveArtifact(context.Background(), res)
	assert.ErrorIs(t, err, errors.ErrProfileMissing)
}
