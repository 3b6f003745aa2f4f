// Package stream turns an incrementally delivered byte stream into a growing
// piece of text.
package stream

import (
	"errors"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Decoder is a stateful UTF-8 decoder. A multi-byte sequence split across two
// chunks is held back until the rest of it arrives, so it is never turned into
// a replacement character by accident. Invalid bytes decode to U+FFFD.
type Decoder struct {
	t       transform.Transformer
	pending []byte
}

// NewDecoder returns a Decoder with no pending input.
func NewDecoder() *Decoder {
	return &Decoder{t: unicode.UTF8.NewDecoder()}
}

// Decode decodes chunk, prefixed by whatever was left over from the previous call.
func (d *Decoder) Decode(chunk []byte) (string, error) {
	return d.decode(chunk, false)
}

// Flush decodes any leftover bytes as if the stream ended. An incomplete
// trailing sequence becomes U+FFFD.
func (d *Decoder) Flush() (string, error) {
	return d.decode(nil, true)
}

func (d *Decoder) decode(chunk []byte, atEOF bool) (string, error) {
	src := make([]byte, 0, len(d.pending)+len(chunk))
	src = append(src, d.pending...)
	src = append(src, chunk...)
	d.pending = d.pending[:0]

	// Each invalid byte can grow to a three-byte U+FFFD.
	dst := make([]byte, 3*len(src)+utf8.UTFMax)
	var out []byte
	for {
		nDst, nSrc, err := d.t.Transform(dst, src, atEOF)
		out = append(out, dst[:nDst]...)
		src = src[nSrc:]
		switch {
		case err == nil:
			if atEOF {
				d.t.Reset()
			}
			return string(out), nil
		case errors.Is(err, transform.ErrShortSrc):
			d.pending = append(d.pending, src...)
			return string(out), nil
		case errors.Is(err, transform.ErrShortDst):
			if nDst == 0 && nSrc == 0 {
				dst = make([]byte, 2*len(dst))
			}
		default:
			return string(out), err
		}
	}
}
