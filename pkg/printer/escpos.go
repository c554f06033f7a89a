package printer

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"
)

// ESC/POS command bytes
const (
	ESC = 0x1B
	GS  = 0x1D
	LF  = 0x0A
)

// Text alignment
const (
	AlignLeft   = 0
	AlignCenter = 1
	AlignRight  = 2
)

// Character size
const (
	FontNormal = 0x00
	FontDouble = 0x11
	FontTall   = 0x01
)

// Common paper widths in characters
const (
	Width58mm = 32
	Width80mm = 48
)

// Document builds an ESC/POS byte stream. Methods chain.
type Document struct {
	buf   bytes.Buffer
	width int
}

// NewDocument starts a document for paper charWidth characters wide
func NewDocument(charWidth int) *Document {
	if charWidth <= 0 {
		charWidth = Width58mm
	}
	d := &Document{width: charWidth}
	d.buf.Write([]byte{ESC, '@'})
	return d
}

// Width is the printable width in characters
func (d *Document) Width() int {
	return d.width
}

func (d *Document) LineFeed() *Document {
	d.buf.WriteByte(LF)
	return d
}

func (d *Document) FeedLines(n int) *Document {
	for i := 0; i < n; i++ {
		d.buf.WriteByte(LF)
	}
	return d
}

func (d *Document) SetAlign(align int) *Document {
	d.buf.Write([]byte{ESC, 'a', byte(align)})
	return d
}

func (d *Document) SetBold(on bool) *Document {
	var b byte
	if on {
		b = 1
	}
	d.buf.Write([]byte{ESC, 'E', b})
	return d
}

func (d *Document) SetFontSize(size byte) *Document {
	d.buf.Write([]byte{GS, '!', size})
	return d
}

// Text writes s, wrapping at the paper width
func (d *Document) Text(s string) *Document {
	for _, line := range wrap(s, d.width) {
		d.buf.WriteString(line)
		d.buf.WriteByte(LF)
	}
	return d
}

func (d *Document) TextF(format string, args ...interface{}) *Document {
	return d.Text(fmt.Sprintf(format, args...))
}

// Separator prints a full-width rule
func (d *Document) Separator(char byte) *Document {
	d.buf.WriteString(strings.Repeat(string(char), d.width))
	d.buf.WriteByte(LF)
	return d
}

// KeyValue prints key flush left and value flush right on one line
func (d *Document) KeyValue(key, value string) *Document {
	gap := d.width - utf8.RuneCountInString(key) - utf8.RuneCountInString(value)
	if gap < 1 {
		gap = 1
	}
	d.buf.WriteString(key + strings.Repeat(" ", gap) + value)
	d.buf.WriteByte(LF)
	return d
}

// Row prints cells in fixed-width columns. The last column is right aligned;
// a negative width means "whatever is left". Over-long cells are truncated.
func (d *Document) Row(widths []int, cells ...string) *Document {
	var line strings.Builder
	used := 0
	for i, cell := range cells {
		if i >= len(widths) {
			break
		}
		w := widths[i]
		if w < 0 {
			w = d.width - used
			for _, rest := range widths[i+1:] {
				w -= rest
			}
		}
		if w <= 0 {
			continue
		}
		cell = truncate(cell, w)
		pad := strings.Repeat(" ", w-utf8.RuneCountInString(cell))
		if i == len(cells)-1 {
			line.WriteString(pad + cell)
		} else {
			line.WriteString(cell + pad)
		}
		used += w
	}
	d.buf.WriteString(strings.TrimRight(line.String(), " "))
	d.buf.WriteByte(LF)
	return d
}

// PartialCut feeds and cuts leaving a small hinge
func (d *Document) PartialCut() *Document {
	d.buf.Write([]byte{GS, 'V', 0x01})
	return d
}

// Bytes returns the accumulated stream
func (d *Document) Bytes() []byte {
	return d.buf.Bytes()
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

// wrap breaks s into lines of at most width runes, preferring word boundaries
func wrap(s string, width int) []string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return []string{""}
	}
	var lines []string
	current := ""
	for _, w := range words {
		for utf8.RuneCountInString(w) > width {
			if current != "" {
				lines = append(lines, current)
				current = ""
			}
			r := []rune(w)
			lines = append(lines, string(r[:width]))
			w = string(r[width:])
		}
		switch {
		case current == "":
			current = w
		case utf8.RuneCountInString(current)+1+utf8.RuneCountInString(w) <= width:
			current += " " + w
		default:
			lines = append(lines, current)
			current = w
		}
	}
	if current != "" {
		lines = append(lines, current)
	}
	return lines
}
