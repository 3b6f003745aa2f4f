// Package markup turns assistant text into typed blocks and styled spans. It
// understands a tiny subset of markdown: **bold**, *italic* and "- " list items.
// Parse never fails; anything it does not recognise stays literal text.
package markup

import "strings"

// Style is a set of inline text styles.
type Style uint8

const (
	Bold Style = 1 << iota
	Italic
)

// Has reports whether s includes every style in o.
func (s Style) Has(o Style) bool { return s&o == o }

// Span is a run of text with one style.
type Span struct {
	Text  string
	Style Style
}

// Line is one rendered line of spans.
type Line []Span

// Plain returns the line's text without styling.
func (l Line) Plain() string {
	var b strings.Builder
	for _, s := range l {
		b.WriteString(s.Text)
	}
	return b.String()
}

// BlockKind distinguishes paragraphs from lists.
type BlockKind int

const (
	BlockParagraph BlockKind = iota
	BlockList
)

// Block is a paragraph (exactly one line) or a list (one line per item).
type Block struct {
	Kind  BlockKind
	Lines []Line
}

const listMarker = "- "

// Parse splits content into blocks. Consecutive list items share one list
// block; every other line, blank ones included, is its own paragraph.
func Parse(content string) []Block {
	var blocks []Block
	for _, raw := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(raw)
		if strings.HasPrefix(trimmed, listMarker) {
			item := ParseInline(strings.TrimPrefix(trimmed, listMarker))
			if n := len(blocks); n > 0 && blocks[n-1].Kind == BlockList {
				blocks[n-1].Lines = append(blocks[n-1].Lines, item)
				continue
			}
			blocks = append(blocks, Block{Kind: BlockList, Lines: []Line{item}})
			continue
		}
		blocks = append(blocks, Block{Kind: BlockParagraph, Lines: []Line{ParseInline(raw)}})
	}
	return blocks
}

// ParseInline styles one line. A marker without a matching closer is literal.
func ParseInline(s string) Line {
	var (
		line Line
		buf  strings.Builder
	)
	flush := func(style Style) {
		if buf.Len() == 0 {
			return
		}
		line = append(line, Span{Text: buf.String(), Style: style})
		buf.Reset()
	}

	for i := 0; i < len(s); {
		if strings.HasPrefix(s[i:], "**") {
			if end := strings.Index(s[i+2:], "**"); end > 0 {
				flush(0)
				line = append(line, parseItalic(s[i+2:i+2+end], Bold)...)
				i += 2 + end + 2
				continue
			}
		}
		if s[i] == '*' {
			if end := closingStar(s[i+1:]); end > 0 {
				flush(0)
				line = append(line, Span{Text: s[i+1 : i+1+end], Style: Italic})
				i += 1 + end + 1
				continue
			}
		}
		buf.WriteByte(s[i])
		i++
	}
	flush(0)
	return line
}

// parseItalic splits the inside of a bold run on single-star italics.
func parseItalic(s string, base Style) []Span {
	var (
		spans []Span
		start int
	)
	for i := 0; i < len(s); i++ {
		if s[i] != '*' {
			continue
		}
		end := closingStar(s[i+1:])
		if end <= 0 {
			continue
		}
		if i > start {
			spans = append(spans, Span{Text: s[start:i], Style: base})
		}
		spans = append(spans, Span{Text: s[i+1 : i+1+end], Style: base | Italic})
		i += end + 1
		start = i + 1
	}
	if start < len(s) {
		spans = append(spans, Span{Text: s[start:], Style: base})
	}
	return spans
}

// closingStar returns the index of the next lone '*' in s, or -1.
func closingStar(s string) int {
	for i := 0; i < len(s); i++ {
		if s[i] != '*' {
			continue
		}
		if i+1 < len(s) && s[i+1] == '*' {
			i++
			continue
		}
		return i
	}
	return -1
}
