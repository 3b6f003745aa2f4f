package stream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// DefaultChunkSize is the read buffer used by Consume.
const DefaultChunkSize = 4096

// Accumulator concatenates decoded chunks into the running transcript of one answer.
type Accumulator struct {
	dec    *Decoder
	text   strings.Builder
	chunks int
}

// NewAccumulator returns an empty Accumulator.
func NewAccumulator() *Accumulator {
	return &Accumulator{dec: NewDecoder()}
}

// Feed decodes chunk and returns the whole text received so far. Callers
// replace what they display with the returned value rather than appending, so
// an empty chunk or a held-back partial character never causes a rollback.
func (a *Accumulator) Feed(chunk []byte) (string, error) {
	a.chunks++
	s, err := a.dec.Decode(chunk)
	a.text.WriteString(s)
	if err != nil {
		return a.text.String(), fmt.Errorf("could not decode chunk %d: %w", a.chunks, err)
	}
	return a.text.String(), nil
}

// Finish flushes the decoder and returns the final text.
func (a *Accumulator) Finish() (string, error) {
	s, err := a.dec.Flush()
	a.text.WriteString(s)
	return a.text.String(), err
}

// Text returns the text accumulated so far.
func (a *Accumulator) Text() string { return a.text.String() }

// Chunks is the number of chunks fed so far.
func (a *Accumulator) Chunks() int { return a.chunks }

// Consume reads r until EOF, calling onUpdate with the full text after every
// chunk in the order chunks arrive. If onUpdate returns false consumption
// stops and Consume returns the text so far with a nil error.
//
// A read error, or ctx being done, ends consumption with an error.
func Consume(ctx context.Context, r io.Reader, onUpdate func(text string) bool) (string, error) {
	acc := NewAccumulator()
	buf := make([]byte, DefaultChunkSize)
	for {
		if err := ctx.Err(); err != nil {
			return acc.Text(), err
		}
		n, readErr := r.Read(buf)
		if n > 0 {
			text, err := acc.Feed(buf[:n])
			if err != nil {
				return text, err
			}
			if !onUpdate(text) {
				return text, nil
			}
		}
		if readErr != nil {
			if errors.Is(readErr, io.EOF) {
				break
			}
			if ctxErr := ctx.Err(); ctxErr != nil {
				return acc.Text(), ctxErr
			}
			return acc.Text(), fmt.Errorf("could not read response stream: %w", readErr)
		}
	}

	before := acc.Text()
	text, err := acc.Finish()
	if err != nil {
		return text, err
	}
	if text != before {
		onUpdate(text)
	}
	return text, nil
}
