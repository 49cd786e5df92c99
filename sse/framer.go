package sse

import (
	"bytes"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
)

// Framer buffers raw frames and emits complete lines. After every Feed it
// holds at most one partial line.
//
// Bytes are kept undecoded until a newline arrives. A newline byte never
// occurs inside a multi-byte UTF-8 sequence, so a rune split across two
// frames is reassembled before it is decoded. Invalid sequences in a complete
// line decode to U+FFFD.
//
// A Framer is owned by a single stream and is not safe for concurrent use.
type Framer struct {
	pending []byte
	dec     *encoding.Decoder
}

// NewFramer returns an empty Framer.
func NewFramer() *Framer {
	return &Framer{dec: unicode.UTF8.NewDecoder()}
}

// Feed appends raw to the buffer and returns every newly terminated line in
// order, without its line ending. It returns nil when raw completes no line.
func (f *Framer) Feed(raw []byte) []string {
	f.pending = append(f.pending, raw...)

	var lines []string
	for {
		i := bytes.IndexByte(f.pending, '\n')
		if i < 0 {
			break
		}
		lines = append(lines, f.decode(f.pending[:i]))
		f.pending = f.pending[i+1:]
	}
	if len(f.pending) == 0 {
		f.pending = nil
	}
	return lines
}

// Flush returns the unterminated remainder, if any, and empties the buffer.
// Call it once the input is exhausted.
func (f *Framer) Flush() (string, bool) {
	if len(f.pending) == 0 {
		return "", false
	}
	line := f.decode(f.pending)
	f.pending = nil
	return line, true
}

// Buffered reports the number of bytes held for the next line.
func (f *Framer) Buffered() int { return len(f.pending) }

func (f *Framer) decode(line []byte) string {
	line = bytes.TrimSuffix(line, []byte{'\r'})
	out, err := f.dec.Bytes(line)
	if err != nil {
		// Not reached: the UTF-8 decoder substitutes instead of failing.
		return string(line)
	}
	return string(out)
}
