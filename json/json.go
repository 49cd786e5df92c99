// Package json persists relay sessions as JSON transcripts.
//
// A transcript is a single document tagged with a format name and version:
//
//	{
//	  "format": "relay.transcript",
//	  "version": 1,
//	  "session": {"id": "...", "system": "...", "created": "...", "updated": "..."},
//	  "turns": [{"role": "user", "text": "..."}, {"role": "assistant", "text": "..."}]
//	}
package json

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fwojciec/relay"
)

const (
	formatName = "relay.transcript"
	version    = 1
)

// ErrFormat indicates a document that is not a supported transcript.
var ErrFormat = errors.New("not a relay transcript")

type transcript struct {
	Format  string     `json:"format"`
	Version int        `json:"version"`
	Session sessionDoc `json:"session"`
	Turns   []turn     `json:"turns"`
}

type sessionDoc struct {
	ID      string    `json:"id"`
	System  string    `json:"system,omitempty"`
	Created time.Time `json:"created"`
	Updated time.Time `json:"updated"`
}

type turn struct {
	Role relay.Role `json:"role"`
	Text string     `json:"text"`
}

// MarshalSession encodes s as an indented transcript. Messages with an
// unknown role are rejected.
func MarshalSession(s relay.Session) ([]byte, error) {
	doc := transcript{
		Format:  formatName,
		Version: version,
		Session: sessionDoc{
			ID:      s.ID,
			System:  s.SystemPrompt,
			Created: s.CreatedAt,
			Updated: s.UpdatedAt,
		},
		Turns: make([]turn, 0, len(s.Messages)),
	}
	for i, m := range s.Messages {
		if err := relay.ValidateMessage(m); err != nil {
			return nil, fmt.Errorf("turn %d: %w", i, err)
		}
		doc.Turns = append(doc.Turns, turn{Role: m.Role, Text: m.Content})
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalSession decodes a transcript produced by MarshalSession.
func UnmarshalSession(data []byte) (relay.Session, error) {
	var doc transcript
	if err := json.Unmarshal(data, &doc); err != nil {
		return relay.Session{}, fmt.Errorf("decode transcript: %w", err)
	}
	if doc.Format != formatName {
		return relay.Session{}, fmt.Errorf("%w: format %q", ErrFormat, doc.Format)
	}
	if doc.Version != version {
		return relay.Session{}, fmt.Errorf("%w: version %d", ErrFormat, doc.Version)
	}

	s := relay.Session{
		ID:           doc.Session.ID,
		SystemPrompt: doc.Session.System,
		CreatedAt:    doc.Session.Created,
		UpdatedAt:    doc.Session.Updated,
	}
	for i, t := range doc.Turns {
		m := relay.Message{Role: t.Role, Content: t.Text}
		if err := relay.ValidateMessage(m); err != nil {
			return relay.Session{}, fmt.Errorf("turn %d: %w", i, err)
		}
		s.Messages = append(s.Messages, m)
	}
	return s, nil
}

// Save writes s to path. Parent directories are created as needed and the
// file is replaced atomically, so a crash never leaves a partial transcript.
func Save(path string, s relay.Session) (err error) {
	data, err := MarshalSession(s)
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create transcript dir: %w", err)
	}

	f, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create temp transcript: %w", err)
	}
	defer func() {
		if err != nil {
			os.Remove(f.Name())
		}
	}()
	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("write transcript: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close transcript: %w", err)
	}
	if err := os.Rename(f.Name(), path); err != nil {
		return fmt.Errorf("replace transcript: %w", err)
	}
	return nil
}

// Load reads the transcript at path. A missing file yields an error
// matching fs.ErrNotExist.
func Load(path string) (relay.Session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return relay.Session{}, fmt.Errorf("read transcript: %w", err)
	}
	return UnmarshalSession(data)
}
