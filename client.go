package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/fwojciec/relay/sse"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	defaultReadSize = 4096
	maxErrorBody    = 4096
)

// Client runs streaming chat requests against any Provider. It holds no
// per-request state and is safe for concurrent use.
type Client struct {
	httpClient *http.Client
	logger     *zap.Logger
	readSize   int
	newID      func() string
}

// Option configures a [Client].
type Option func(*Client)

// WithHTTPClient sets the HTTP client used for upstream requests. Timeouts
// and cancellation belong to this client and to the context passed to
// Stream.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithReadSize sets the size of the buffer each body read fills.
func WithReadSize(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.readSize = n
		}
	}
}

// WithRequestID overrides the generator of per-invocation log ids.
func WithRequestID(fn func() string) Option {
	return func(c *Client) { c.newID = fn }
}

// NewClient creates a [Client] with the given options.
func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient: http.DefaultClient,
		logger:     zap.NewNop(),
		readSize:   defaultReadSize,
		newID:      uuid.NewString,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Stream sends req to p and consumes the streamed answer. onProgress is
// called with the re-segmented answer and reasoning after every non-empty
// delta, and exactly once with final set to true. Stream never returns an
// error: transport failures are reported through the returned Outcome and
// that final notification. A nil onProgress is allowed.
//
// A body that ends without a terminator still completes. If nothing was
// accumulated, the final notification carries an empty answer and reasoning.
func (c *Client) Stream(ctx context.Context, p Provider, req Request, onProgress ProgressFunc) Outcome {
	if onProgress == nil {
		onProgress = func(string, string, bool) {}
	}
	s := &stream{
		provider: p,
		notify:   onProgress,
		framer:   sse.NewFramer(),
		logger: c.logger.With(
			zap.String("provider", p.Name),
			zap.String("request_id", c.newID()),
		),
	}

	body, err := c.open(ctx, p, req, s.logger)
	if err != nil {
		return s.fail(ctx, err)
	}
	defer body.Close()

	s.state = StreamStateReading
	return s.consume(ctx, body, c.readSize)
}

// open issues the upstream request and returns the streaming body of a
// successful response.
func (c *Client) open(ctx context.Context, p Provider, req Request, logger *zap.Logger) (io.ReadCloser, error) {
	if p.Body == nil || p.Decode == nil {
		return nil, fmt.Errorf("provider %q is missing a body builder or decoder: %w", p.Name, ErrValidation)
	}
	payload, err := p.Body(req)
	if err != nil {
		return nil, fmt.Errorf("build request body: %w", err)
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request body: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.Endpoint, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "text/event-stream")
	if p.Authorize != nil {
		p.Authorize(httpReq.Header)
	}

	logger.Debug("sending request",
		zap.String("endpoint", p.Endpoint),
		zap.Int("messages", len(req.Messages)),
		zap.Int("body_bytes", len(data)),
	)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		return nil, statusError(resp)
	}
	return resp.Body, nil
}

func statusError(resp *http.Response) error {
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		return fmt.Errorf("%w: %s (failed to read body: %v)", ErrHTTPStatus, resp.Status, err)
	}
	msg := strings.TrimSpace(string(body))
	if msg == "" {
		return fmt.Errorf("%w: %s", ErrHTTPStatus, resp.Status)
	}
	return fmt.Errorf("%w: %s: %s", ErrHTTPStatus, resp.Status, msg)
}

// stream is the state of one Stream invocation. Nothing in it is shared.
type stream struct {
	provider Provider
	notify   ProgressFunc
	framer   *sse.Framer
	logger   *zap.Logger
	state    StreamState
	text     strings.Builder
	events   int
}

// consume reads body until a terminator, end of input or a read error.
func (s *stream) consume(ctx context.Context, body io.Reader, readSize int) Outcome {
	buf := make([]byte, readSize)
	for {
		n, err := body.Read(buf)
		if n > 0 {
			for _, line := range s.framer.Feed(buf[:n]) {
				if s.handleLine(line) {
					return s.finish()
				}
			}
		}
		if errors.Is(err, io.EOF) {
			return s.endOfInput()
		}
		if err != nil {
			return s.fail(ctx, fmt.Errorf("read body: %w", err))
		}
	}
}

// handleLine processes one framed line and reports whether it was the
// terminator.
func (s *stream) handleLine(line string) bool {
	evt, err := sse.Extract(line)
	if err != nil {
		s.logger.Warn("discarding event", zap.Error(err))
		return false
	}
	switch e := evt.(type) {
	case sse.DoneEvent:
		return true
	case sse.DataEvent:
		s.events++
		delta, err := s.provider.Decode(e.Payload)
		if err != nil {
			s.logger.Warn("discarding event", zap.Error(err), zap.ByteString("payload", e.Payload))
			return false
		}
		if !delta.Present() {
			return false
		}
		s.text.WriteString(delta.Text())
		seg := Segment(s.text.String())
		s.logger.Debug("delta",
			zap.Int("delta_len", len(delta.Text())),
			zap.Int("accumulated_len", s.text.Len()),
		)
		s.notify(seg.Answer, seg.Reasoning, false)
	}
	return false
}

// endOfInput handles a body that ended without a terminator. A trailing
// record without a newline is still processed.
func (s *stream) endOfInput() Outcome {
	if line, ok := s.framer.Flush(); ok {
		if s.handleLine(line) {
			return s.finish()
		}
	}
	if s.text.Len() > 0 {
		s.logger.Info("stream closed without terminator, finishing implicitly")
	}
	return s.finish()
}

// finish is the single success finalization point.
func (s *stream) finish() Outcome {
	seg := Segment(s.text.String())
	s.state = StreamStateTerminated
	s.logger.Info("stream complete",
		zap.Stringer("state", s.state),
		zap.Int("events", s.events),
		zap.Int("accumulated_len", s.text.Len()),
		zap.Bool("reasoning", seg.Reasoning != ""),
	)
	s.notify(seg.Answer, seg.Reasoning, true)
	return Outcome{
		Content:   seg.Answer,
		Reasoning: seg.Reasoning,
		Status:    StatusComplete,
	}
}

// fail is the single failure finalization point.
func (s *stream) fail(ctx context.Context, err error) Outcome {
	status := StatusFailed
	if ctx.Err() != nil {
		status = StatusAborted
	}
	s.state = StreamStateFailed
	s.logger.Error("stream failed",
		zap.Error(err),
		zap.Stringer("state", s.state),
		zap.String("status", string(status)),
		zap.Int("accumulated_len", s.text.Len()),
	)
	s.notify(s.provider.Failure, "", true)
	return Outcome{
		Content: s.provider.Failure,
		Status:  status,
		Err:     err,
	}
}
