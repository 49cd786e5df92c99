package mock_test

import (
	"errors"
	"io"
	"net/http"
	"testing"

	"github.com/fwojciec/relay/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBody_Read(t *testing.T) {
	t.Parallel()

	t.Run("returns chunks one read at a time", func(t *testing.T) {
		t.Parallel()
		b := &mock.Body{Chunks: [][]byte{[]byte("ab"), []byte("cde")}}
		buf := make([]byte, 16)

		n, err := b.Read(buf)
		require.NoError(t, err)
		assert.Equal(t, "ab", string(buf[:n]))

		n, err = b.Read(buf)
		require.NoError(t, err)
		assert.Equal(t, "cde", string(buf[:n]))

		_, err = b.Read(buf)
		assert.ErrorIs(t, err, io.EOF)
	})

	t.Run("splits a chunk larger than the buffer", func(t *testing.T) {
		t.Parallel()
		b := &mock.Body{Chunks: [][]byte{[]byte("hello")}}
		got, err := io.ReadAll(io.LimitReader(b, 5))
		require.NoError(t, err)
		assert.Equal(t, "hello", string(got))
	})

	t.Run("returns scripted error after chunks", func(t *testing.T) {
		t.Parallel()
		wantErr := errors.New("connection reset")
		b := &mock.Body{Chunks: [][]byte{[]byte("x")}, Err: wantErr}
		got, err := io.ReadAll(b)
		assert.ErrorIs(t, err, wantErr)
		assert.Equal(t, "x", string(got))
	})

	t.Run("close is observable", func(t *testing.T) {
		t.Parallel()
		b := &mock.Body{}
		assert.False(t, b.Closed())
		require.NoError(t, b.Close())
		assert.True(t, b.Closed())
		_, err := b.Read(make([]byte, 1))
		assert.Error(t, err)
	})
}

func TestRoundTripper(t *testing.T) {
	t.Parallel()

	t.Run("delegates to RoundTripFn", func(t *testing.T) {
		t.Parallel()
		var gotURL string
		rt := &mock.RoundTripper{
			RoundTripFn: func(req *http.Request) (*http.Response, error) {
				gotURL = req.URL.String()
				return mock.Response(http.StatusOK, "data: {}\n"), nil
			},
		}
		resp, err := rt.Client().Get("http://example.test/v1")
		require.NoError(t, err)
		defer resp.Body.Close()
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Equal(t, "http://example.test/v1", gotURL)
		assert.Equal(t, "data: {}\n", string(body))
	})

	t.Run("panics when RoundTripFn not set", func(t *testing.T) {
		t.Parallel()
		rt := &mock.RoundTripper{}
		assert.Panics(t, func() {
			_, _ = rt.RoundTrip(&http.Request{})
		})
	})
}
