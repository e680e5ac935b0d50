package auth_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/fivetwenty-io/dato-client/internal/auth"
	"github.com/fivetwenty-io/dato-client/internal/constants"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func TestToken_Valid(t *testing.T) {
	t.Parallel()

	now := time.Now()

	tests := []struct {
		name  string
		token *auth.Token
		valid bool
	}{
		{"nil", nil, false},
		{"blank", &auth.Token{}, false},
		{"api token without expiry", &auth.Token{AccessToken: "cma-token"}, true},
		{"expires later", &auth.Token{AccessToken: "cma-token", ExpiresAt: now.Add(time.Hour)}, true},
		{"expired", &auth.Token{AccessToken: "cma-token", ExpiresAt: now.Add(-time.Minute)}, false},
		{
			"inside the safety margin",
			&auth.Token{AccessToken: "cma-token", ExpiresAt: now.Add(constants.TokenExpirationBuffer / 2)},
			false,
		},
		{
			"outside the safety margin",
			&auth.Token{AccessToken: "cma-token", ExpiresAt: now.Add(constants.TokenExpirationBuffer + 5*time.Second)},
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.valid, tt.token.Valid())
		})
	}
}

func TestTokenStore_SetGetClear(t *testing.T) {
	t.Parallel()

	store := auth.NewTokenStore()
	assert.Nil(t, store.Get())

	store.Set(&auth.Token{AccessToken: "cma-token", TokenType: "bearer"})

	got := store.Get()
	require.NotNil(t, got)
	assert.Equal(t, "cma-token", got.AccessToken)
	assert.Equal(t, "bearer", got.TokenType)

	store.Clear()
	assert.Nil(t, store.Get())
}

func TestTokenStore_ConcurrentAccess(t *testing.T) {
	t.Parallel()

	store := auth.NewTokenStore()
	written := map[string]bool{}

	var group errgroup.Group

	for writer := range 4 {
		value := fmt.Sprintf("token-%d", writer)
		written[value] = true

		group.Go(func() error {
			for range 50 {
				store.Set(&auth.Token{AccessToken: value})
				_ = store.Get()
			}

			return nil
		})
	}

	require.NoError(t, group.Wait())

	final := store.Get()
	require.NotNil(t, final)
	assert.True(t, written[final.AccessToken], final.AccessToken)
}
