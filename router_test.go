package relay_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fwojciec/relay"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRouter_Run(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, chunk("routed")+"data: [DONE]\n\n")
	}))
	t.Cleanup(srv.Close)

	client := relay.NewClient(relay.WithHTTPClient(srv.Client()))
	providers := map[string]relay.Provider{"test-model": testProvider(srv.URL)}
	r := relay.NewRouter(client, providers)

	t.Run("dispatches to registered provider", func(t *testing.T) {
		t.Parallel()
		rec := &recorder{}
		out := r.Run(context.Background(), "test-model", relay.Request{}, rec.progress)
		assert.Equal(t, relay.StatusComplete, out.Status)
		assert.Equal(t, "routed", out.Content)
		assert.Equal(t, 1, rec.finals())
	})

	t.Run("unknown provider", func(t *testing.T) {
		t.Parallel()
		rec := &recorder{}
		out := r.Run(context.Background(), "nonexistent-model", relay.Request{}, rec.progress)
		assert.Equal(t, relay.UnknownModelContent, out.Content)
		assert.Equal(t, relay.UnknownModelReasoning, out.Reasoning)
		assert.Equal(t, relay.StatusUnknownProvider, out.Status)
		assert.ErrorIs(t, out.Err, relay.ErrUnknownProvider)
		assert.Equal(t, []notification{{"[Unknown model]", "[No reasoning]", true}}, rec.calls)
	})

	t.Run("unknown provider with nil callback", func(t *testing.T) {
		t.Parallel()
		out := r.Run(context.Background(), "", relay.Request{}, nil)
		assert.Equal(t, relay.StatusUnknownProvider, out.Status)
	})
}

func TestRouter_Registry(t *testing.T) {
	t.Parallel()

	providers := map[string]relay.Provider{
		"b": {Name: "b"},
		"a": {Name: "a"},
	}
	r := relay.NewRouter(relay.NewClient(), providers)
	providers["c"] = relay.Provider{Name: "c"}

	assert.Equal(t, []string{"a", "b"}, r.IDs())
	p, ok := r.Provider("a")
	require.True(t, ok)
	assert.Equal(t, "a", p.Name)
	_, ok = r.Provider("c")
	assert.False(t, ok)
}
