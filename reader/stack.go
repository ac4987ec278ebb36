// Copyright (c) 2016-2024 Black Rook Software
// All rights reserved. This program and the accompanying materials
// are made available under the terms of the MIT License which accompanies
// this distribution.

// Package reader implements the stacked character-source abstraction (C2
// in the toolkit's design) that the lexer pulls characters from: a LIFO of
// named streams, each with its own line/column bookkeeping, that permits
// mid-lexing source substitution (used by the preprocessor to implement
// #include).
package reader

import (
	"bufio"
	"io"
	"strings"

	"github.com/spf13/afero"
)

// EndOfStream is returned by Stack.ReadChar once the current stream's
// underlying source is exhausted. It is a sentinel distinct from any
// character a legitimate source can produce and is returned repeatedly
// until the caller pops the stream.
const EndOfStream rune = '￾'

// Stream is one named entry on a Stack. It owns a buffered source, the
// currently cached physical line (with a trailing newline appended), the
// stream's 1-based line number and the offset of the next character to
// serve out of the cached line.
type Stream struct {
	name   string
	src    *bufio.Reader
	closer io.Closer

	line    string // cached physical line, newline-terminated
	lineNo  int    // 1-based
	offset  int    // next rune index to read from line
	atEnd   bool   // underlying source returned io.EOF or a sticky error
	err     error  // non-EOF error from the underlying reader, sticky
	started bool   // at least one line has been fetched
}

// NewStream wraps an io.Reader as a named Stream. If r also implements
// io.Closer, the Stream takes ownership and closes it when the Stack pops
// it.
func NewStream(name string, r io.Reader) *Stream {
	s := &Stream{name: name, src: bufio.NewReader(r)}
	if c, ok := r.(io.Closer); ok {
		s.closer = c
	}
	return s
}

// Name returns the stream's name.
func (s *Stream) Name() string { return s.name }

// LineNumber returns the stream's current 1-based line number.
func (s *Stream) LineNumber() int {
	if s.lineNo == 0 {
		return 1
	}
	return s.lineNo
}

// LineText returns the full physical line currently being served,
// including its trailing newline (empty before the first character is
// read).
func (s *Stream) LineText() string { return s.line }

func (s *Stream) close() error {
	if s.closer != nil {
		return s.closer.Close()
	}
	return nil
}

// fetchLine reads the next physical line into the cache, appending a
// trailing '\n' if the underlying reader didn't supply one (last line of
// a file lacking a final newline). A non-EOF error from the underlying
// reader is retained on s.err rather than discarded; it is surfaced by
// readChar once the cached line is drained.
func (s *Stream) fetchLine() {
	if s.atEnd {
		s.line = ""
		s.offset = 0
		return
	}
	line, err := s.src.ReadString('\n')
	if line == "" && err != nil {
		s.atEnd = true
		s.line = ""
		s.offset = 0
		if err != io.EOF {
			s.err = err
		}
		return
	}
	if len(line) == 0 || line[len(line)-1] != '\n' {
		line += "\n"
	}
	s.line = line
	s.offset = 0
	s.lineNo++
	if err != nil {
		// the line we just returned is the last one; subsequent fetches
		// report end of stream, or the underlying error if it wasn't EOF.
		s.atEnd = true
		if err != io.EOF {
			s.err = err
		}
	}
}

// readChar returns the next character from the stream's cached line,
// transparently fetching new lines as needed, and EndOfStream once the
// underlying source is cleanly exhausted. A non-nil error means the
// underlying source failed; the rune result is meaningless in that case
// and nothing further should be read from this Stream.
func (s *Stream) readChar() (rune, error) {
	if !s.started {
		s.started = true
		s.fetchLine()
	}
	for s.offset >= len(s.line) {
		if s.atEnd {
			if s.err != nil {
				return 0, s.err
			}
			return EndOfStream, nil
		}
		s.fetchLine()
	}
	r := rune(s.line[s.offset])
	// Decode as UTF-8 when the lead byte indicates a multi-byte
	// sequence; most configured delimiters and escapes are ASCII so the
	// common path stays a single byte compare.
	if r >= 0x80 {
		sub := s.line[s.offset:]
		for n, rr := range sub {
			if n == 0 {
				r = rr
			} else {
				break
			}
		}
		s.offset += runeLen(r)
		return r, nil
	}
	s.offset++
	return r, nil
}

func runeLen(r rune) int {
	switch {
	case r < 0x80:
		return 1
	case r < 0x800:
		return 2
	case r < 0x10000:
		return 3
	default:
		return 4
	}
}

// Stack is a LIFO of Streams. A non-empty Stack always has a defined
// current stream; Pop closes the popped Stream's underlying source.
type Stack struct {
	fs     afero.Fs
	frames []*Stream
}

// NewStack creates an empty Stack that resolves filesystem-backed pushes
// (PushFile) against fs. A nil fs defaults to the OS filesystem.
func NewStack(fs afero.Fs) *Stack {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &Stack{fs: fs}
}

// Fs returns the filesystem used to resolve PushFile calls.
func (k *Stack) Fs() afero.Fs { return k.fs }

// Push adds a named Stream to the top of the stack.
func (k *Stack) Push(s *Stream) {
	k.frames = append(k.frames, s)
}

// PushFile opens path on the stack's filesystem and pushes it as a named
// Stream. The stream name is path.
func (k *Stack) PushFile(path string) (*Stream, error) {
	f, err := k.fs.Open(path)
	if err != nil {
		return nil, err
	}
	s := NewStream(path, f)
	k.Push(s)
	return s, nil
}

// PushString pushes an in-memory source under the given stream name, for
// programmatic lexing and tests.
func (k *Stack) PushString(name, source string) *Stream {
	s := NewStream(name, strings.NewReader(source))
	k.Push(s)
	return s
}

// Pop removes and returns the top Stream, closing its underlying source.
// Pop panics if the stack is empty; callers must check IsEmpty first.
func (k *Stack) Pop() *Stream {
	n := len(k.frames)
	top := k.frames[n-1]
	k.frames = k.frames[:n-1]
	_ = top.close()
	return top
}

// Peek returns the top Stream without removing it, or nil if the stack is
// empty.
func (k *Stack) Peek() *Stream {
	if len(k.frames) == 0 {
		return nil
	}
	return k.frames[len(k.frames)-1]
}

// Size returns the number of streams currently on the stack.
func (k *Stack) Size() int { return len(k.frames) }

// IsEmpty reports whether the stack has no streams.
func (k *Stack) IsEmpty() bool { return len(k.frames) == 0 }

// CurrentStreamName returns the name of the top stream, or "" if the
// stack is empty.
func (k *Stack) CurrentStreamName() string {
	if s := k.Peek(); s != nil {
		return s.Name()
	}
	return ""
}

// CurrentLineNumber returns the top stream's current line number, or 0 if
// the stack is empty.
func (k *Stack) CurrentLineNumber() int {
	if s := k.Peek(); s != nil {
		return s.LineNumber()
	}
	return 0
}

// ReadChar reads the next character from the top stream. It is defined
// only when the stack is non-empty. A non-nil error means the top
// stream's underlying source failed; the caller must not retry.
func (k *Stack) ReadChar() (rune, error) {
	return k.Peek().readChar()
}
