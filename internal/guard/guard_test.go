package guard

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name       string
		hasSession bool
		role       string
		allowed    []string
		want       Decision
	}{
		{
			name:       "no session redirects to sign-in",
			hasSession: false,
			role:       "",
			allowed:    []string{"admin"},
			want:       DecisionRedirectSignIn,
		},
		{
			name:       "no session redirects even with matching role",
			hasSession: false,
			role:       "admin",
			allowed:    []string{"admin"},
			want:       DecisionRedirectSignIn,
		},
		{
			name:       "empty allowed set admits any authenticated caller",
			hasSession: true,
			role:       "",
			allowed:    nil,
			want:       DecisionRender,
		},
		{
			name:       "allowed role renders",
			hasSession: true,
			role:       "admin",
			allowed:    []string{"admin"},
			want:       DecisionRender,
		},
		{
			name:       "role in multi-role set renders",
			hasSession: true,
			role:       "user",
			allowed:    []string{"admin", "user"},
			want:       DecisionRender,
		},
		{
			name:       "disallowed role redirects home",
			hasSession: true,
			role:       "user",
			allowed:    []string{"admin"},
			want:       DecisionRedirectHome,
		},
		{
			name:       "missing role never matches",
			hasSession: true,
			role:       "",
			allowed:    []string{"admin", "user"},
			want:       DecisionRedirectHome,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Evaluate(tt.hasSession, tt.role, tt.allowed)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRedirectPath(t *testing.T) {
	assert.Equal(t, "/auth", RedirectPath(DecisionRedirectSignIn))
	assert.Equal(t, "/me", RedirectPath(DecisionRedirectHome))
	assert.Equal(t, "", RedirectPath(DecisionRender))
}
