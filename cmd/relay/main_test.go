package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fwojciec/relay"
	relayjson "github.com/fwojciec/relay/json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// upstream is an OpenAI-compatible test server that answers every request
// with the given text and records how many messages each request carried.
func upstream(t *testing.T, answer string) (*httptest.Server, <-chan int) {
	t.Helper()
	counts := make(chan int, 16)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Messages []json.RawMessage `json:"messages"`
		}
		data, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(data, &body)
		counts <- len(body.Messages)
		if r.Header.Get("Authorization") != "Bearer test-key" {
			http.Error(w, "bad key", http.StatusUnauthorized)
			return
		}
		b, _ := json.Marshal(map[string]any{
			"choices": []any{map[string]any{"delta": map[string]any{"content": answer}}},
		})
		fmt.Fprintf(w, "data: %s\n\ndata: [DONE]\n\n", b)
	}))
	t.Cleanup(srv.Close)
	return srv, counts
}

func writeConfig(t *testing.T, endpoint string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "relay.yaml")
	cfg := fmt.Sprintf(`log:
  level: error
default_provider: deepseek-chat
providers:
  deepseek-chat:
    endpoint: %s
    api_key: ${TEST_API_KEY}
`, endpoint)
	require.NoError(t, os.WriteFile(path, []byte(cfg), 0o600))
	return path
}

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	a := &app{
		getenv: func(k string) string {
			if k == "TEST_API_KEY" {
				return "test-key"
			}
			return ""
		},
		stdin:  strings.NewReader(stdin),
		stdout: &stdout,
		stderr: &stderr,
	}
	root := newRootCmd(a)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return stdout.String(), err
}

func TestAsk(t *testing.T) {
	t.Parallel()

	srv, counts := upstream(t, "**Analysis Process:**\nadd\n**Answer:**\n4")
	cfg := writeConfig(t, srv.URL)

	out, err := execute(t, "", "--config", cfg, "ask", "--system", "be exact", "2+2?")
	require.NoError(t, err)
	assert.Contains(t, out, "add")
	assert.Contains(t, out, "4")
	assert.NotContains(t, out, "**Answer:**")
	require.Contains(t, out, "── Reasoning")
	assert.Less(t, strings.Index(out, "── Reasoning"), strings.Index(out, "── Answer"))
	assert.Less(t, strings.Index(out, "── Answer"), strings.LastIndex(out, "4"))
	assert.Equal(t, 2, <-counts)
}

func TestAsk_Markdown(t *testing.T) {
	t.Parallel()

	srv, _ := upstream(t, "# Title\n\n- item")
	cfg := writeConfig(t, srv.URL)

	out, err := execute(t, "", "--config", cfg, "ask", "--markdown", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Title")
	assert.Contains(t, out, "• item")
	assert.NotContains(t, out, "# Title")
}

func TestAsk_UpstreamFailure(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	}))
	t.Cleanup(srv.Close)
	cfg := writeConfig(t, srv.URL)

	out, err := execute(t, "", "--config", cfg, "ask", "hello")
	require.Error(t, err)
	assert.ErrorIs(t, err, relay.ErrHTTPStatus)
	assert.Contains(t, out, "[Error contacting AI service]")
}

func TestAsk_UnknownProvider(t *testing.T) {
	t.Parallel()

	cfg := writeConfig(t, "http://127.0.0.1:1")
	out, err := execute(t, "", "--config", cfg, "ask", "--provider", "nonexistent-model", "hello")
	assert.ErrorIs(t, err, relay.ErrUnknownProvider)
	assert.Contains(t, out, "[Unknown model]")
}

func TestAsk_RequiresText(t *testing.T) {
	t.Parallel()

	cfg := writeConfig(t, "http://127.0.0.1:1")
	_, err := execute(t, "", "--config", cfg, "ask")
	assert.Error(t, err)
}

func TestRoot_InvalidLogLevel(t *testing.T) {
	t.Parallel()

	cfg := writeConfig(t, "http://127.0.0.1:1")
	_, err := execute(t, "", "--config", cfg, "--log-level", "chatty", "providers")
	assert.ErrorIs(t, err, relay.ErrValidation)
}

func TestRoot_MissingConfig(t *testing.T) {
	t.Parallel()

	_, err := execute(t, "", "--config", filepath.Join(t.TempDir(), "nope.yaml"), "providers")
	assert.Error(t, err)
}

func TestProviders(t *testing.T) {
	t.Parallel()

	cfg := writeConfig(t, "http://upstream.test/v1/chat/completions")
	out, err := execute(t, "", "--config", cfg, "providers")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 6)
	assert.Contains(t, lines[0], "ENDPOINT")
	assert.Contains(t, out, "deepseek-chat (default)")
	assert.Contains(t, out, "http://upstream.test/v1/chat/completions")
	assert.Contains(t, out, "gemini-flash")
	assert.Contains(t, out, "claude-sonnet")
}

func TestChat(t *testing.T) {
	t.Parallel()

	srv, counts := upstream(t, "pong")
	cfg := writeConfig(t, srv.URL)
	transcript := filepath.Join(t.TempDir(), "chat.json")

	out, err := execute(t, "ping\n\nping again\n", "--config", cfg, "chat", "--system", "short", "--transcript", transcript)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(out, "pong"))
	assert.Equal(t, 2, <-counts) // system + user
	assert.Equal(t, 4, <-counts) // system + user + assistant + user

	s, err := relayjson.Load(transcript)
	require.NoError(t, err)
	assert.Equal(t, "short", s.SystemPrompt)
	assert.Equal(t, []relay.Message{
		relay.UserMessage("ping"),
		relay.AssistantMessage("pong"),
		relay.UserMessage("ping again"),
		relay.AssistantMessage("pong"),
	}, s.Messages)

	// Resuming sends the stored history.
	_, err = execute(t, "third\n/exit\n", "--config", cfg, "chat", "--transcript", transcript)
	require.NoError(t, err)
	assert.Equal(t, 6, <-counts)

	s, err = relayjson.Load(transcript)
	require.NoError(t, err)
	assert.Len(t, s.Messages, 6)
}

func TestChat_FailedTurnNotRecorded(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	t.Cleanup(srv.Close)
	cfg := writeConfig(t, srv.URL)
	transcript := filepath.Join(t.TempDir(), "chat.json")

	out, err := execute(t, "hello\n", "--config", cfg, "chat", "--transcript", transcript)
	require.NoError(t, err)
	assert.Contains(t, out, "[Error contacting AI service]")

	_, err = os.Stat(transcript)
	assert.True(t, os.IsNotExist(err))
}

func TestTail(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "short", tail("short", 10))
	assert.Equal(t, "…world", tail("hello world", 6))
	assert.Equal(t, "…界", tail("世界", 3))
	assert.Empty(t, tail("anything", 1))
}

func TestFlatten(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "a b c", flatten("a\n b\t\tc\n"))
}

func TestAsk_StripsEscapes(t *testing.T) {
	t.Parallel()

	srv, _ := upstream(t, "safe\x1b]0;title\x07 text")
	cfg := writeConfig(t, srv.URL)

	out, err := execute(t, "", "--config", cfg, "ask", "hi")
	require.NoError(t, err)
	assert.Contains(t, out, "safe text")
	assert.NotContains(t, out, "\x1b")
}
