// Package mock provides test doubles for the HTTP layer using function fields.
package mock

import (
	"fmt"
	"net/http"
)

var _ http.RoundTripper = (*RoundTripper)(nil)

// RoundTripper is a test double for http.RoundTripper.
// Set RoundTripFn before use.
type RoundTripper struct {
	RoundTripFn func(req *http.Request) (*http.Response, error)
}

// RoundTrip delegates to RoundTripFn.
func (rt *RoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	return rt.RoundTripFn(req)
}

// Client returns an *http.Client that sends every request through rt.
func (rt *RoundTripper) Client() *http.Client {
	return &http.Client{Transport: rt}
}

// Response builds a response with the given status whose body yields the
// chunks in order.
func Response(status int, chunks ...string) *http.Response {
	b := &Body{}
	for _, c := range chunks {
		b.Chunks = append(b.Chunks, []byte(c))
	}
	return &http.Response{
		StatusCode: status,
		Status:     fmt.Sprintf("%d %s", status, http.StatusText(status)),
		Header:     http.Header{"Content-Type": []string{"text/event-stream"}},
		Body:       b,
	}
}
