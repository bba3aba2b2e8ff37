package health

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusPredicates(t *testing.T) {
	assert.True(t, NewHealthy("fetcher", "ready").IsHealthy())
	assert.True(t, NewDegraded("fetcher", "slow upstream").IsDegraded())
	assert.True(t, NewUnhealthy("engine", "broken").IsUnhealthy())
	assert.False(t, NewUnhealthy("engine", "broken").Healthy)
}

func TestWithSubStatusDoesNotShareBackingArray(t *testing.T) {
	base := NewHealthy("service", "ok").WithSubStatus(NewHealthy("fetcher", "ready"))

	a := base.WithSubStatus(NewHealthy("engine", "ready"))
	b := base.WithSubStatus(NewUnhealthy("engine", "broken"))

	require.Len(t, a.SubStatuses, 2)
	require.Len(t, b.SubStatuses, 2)
	assert.Equal(t, "healthy", a.SubStatuses[1].Status)
	assert.Equal(t, "unhealthy", b.SubStatuses[1].Status)
}

func TestSanitizeMessage(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantNot []string
	}{
		{
			name:    "fetch target IRI",
			in:      "resource retrieval failed: https://internal.example.org/catalog?key=abc",
			wantNot: []string{"internal.example.org", "abc"},
		},
		{
			name:    "file path",
			in:      "open /etc/semvalid/config.json: permission denied",
			wantNot: []string{"/etc/semvalid/config.json"},
		},
		{
			name:    "address and port",
			in:      "dial tcp 10.0.0.12:8443: connection refused",
			wantNot: []string{"10.0.0.12", "8443"},
		},
		{
			name:    "credential fragment",
			in:      "auth failed: token=sekrit123",
			wantNot: []string{"sekrit123"},
		},
		{
			name: "empty",
			in:   "",
			want: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SanitizeMessage(tt.in)
			if tt.want != "" || tt.in == "" {
				assert.Equal(t, tt.want, got)
			}
			for _, forbidden := range tt.wantNot {
				assert.NotContains(t, got, forbidden)
			}
		})
	}
}

func TestFromErrorSanitizes(t *testing.T) {
	err := stderrors.New("fetch https://secret.example.org/shapes failed")
	status := FromError("fetcher", err)

	assert.True(t, status.IsUnhealthy())
	assert.NotContains(t, status.Message, "secret.example.org")
	assert.Contains(t, status.Message, "[URL]")
}
