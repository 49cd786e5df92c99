package relay

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"
)

// Router selects a Provider by identifier and runs it on a shared Client.
// It is immutable after construction and safe for concurrent use.
type Router struct {
	client    *Client
	providers map[string]Provider
}

// NewRouter creates a Router over a copy of providers.
func NewRouter(client *Client, providers map[string]Provider) *Router {
	m := make(map[string]Provider, len(providers))
	for id, p := range providers {
		m[id] = p
	}
	return &Router{client: client, providers: m}
}

// Provider returns the provider registered under id.
func (r *Router) Provider(id string) (Provider, bool) {
	p, ok := r.providers[id]
	return p, ok
}

// IDs returns the registered identifiers in sorted order.
func (r *Router) IDs() []string {
	ids := make([]string, 0, len(r.providers))
	for id := range r.providers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Run streams req through the provider registered under id. An unknown id
// is not an error: onProgress receives the unknown-model sentinel pair once,
// as a final notification, and the same pair is returned.
func (r *Router) Run(ctx context.Context, id string, req Request, onProgress ProgressFunc) Outcome {
	p, ok := r.providers[id]
	if !ok {
		r.client.logger.Warn("unknown provider requested", zap.String("provider", id))
		if onProgress != nil {
			onProgress(UnknownModelContent, UnknownModelReasoning, true)
		}
		return Outcome{
			Content:   UnknownModelContent,
			Reasoning: UnknownModelReasoning,
			Status:    StatusUnknownProvider,
			Err:       fmt.Errorf("%w: %q", ErrUnknownProvider, id),
		}
	}
	return r.client.Stream(ctx, p, req, onProgress)
}
