package printer

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"
)

// ESC/POS control bytes
const (
	ESC = 0x1B
	GS  = 0x1D
	LF  = 0x0A
)

// Align is a text alignment for ESC a
type Align byte

const (
	AlignLeft   Align = 0
	AlignCenter Align = 1
	AlignRight  Align = 2
)

// Character sizes for GS !
const (
	FontNormal byte = 0x00
	FontDouble byte = 0x11
)

// Paper widths in characters
const (
	Width58mm = 32
	Width80mm = 48
)

// Document accumulates an ESC/POS byte stream. Widths are counted in runes
// so accented menu names line up.
type Document struct {
	buf   bytes.Buffer
	width int
}

// NewDocument starts a document for the given character width
func NewDocument(width int) *Document {
	if width <= 0 {
		width = Width58mm
	}
	d := &Document{width: width}
	d.buf.Write([]byte{ESC, '@'})
	return d
}

// Width returns the line width in characters
func (d *Document) Width() int {
	return d.width
}

func (d *Document) Align(a Align) *Document {
	d.buf.Write([]byte{ESC, 'a', byte(a)})
	return d
}

func (d *Document) Bold(on bool) *Document {
	var b byte
	if on {
		b = 1
	}
	d.buf.Write([]byte{ESC, 'E', b})
	return d
}

func (d *Document) Size(size byte) *Document {
	d.buf.Write([]byte{GS, '!', size})
	return d
}

// Line writes s truncated to the paper width
func (d *Document) Line(s string) *Document {
	d.buf.WriteString(truncate(s, d.width))
	d.buf.WriteByte(LF)
	return d
}

// Linef is Line with formatting
func (d *Document) Linef(format string, args ...any) *Document {
	return d.Line(fmt.Sprintf(format, args...))
}

// Rule draws a full-width line of ch
func (d *Document) Rule(ch rune) *Document {
	d.buf.WriteString(strings.Repeat(string(ch), d.width))
	d.buf.WriteByte(LF)
	return d
}

// Columns writes left flush-left and right flush-right on one line.
// The left side is truncated so the right side always fits.
func (d *Document) Columns(left, right string) *Document {
	room := d.width - utf8.RuneCountInString(right) - 1
	if room < 1 {
		room = 1
	}
	left = truncate(left, room)
	pad := d.width - utf8.RuneCountInString(left) - utf8.RuneCountInString(right)
	if pad < 1 {
		pad = 1
	}
	d.buf.WriteString(left)
	d.buf.WriteString(strings.Repeat(" ", pad))
	d.buf.WriteString(right)
	d.buf.WriteByte(LF)
	return d
}

// Item writes "qty x name" with the line amount on the right
func (d *Document) Item(qty int, name, amount string) *Document {
	return d.Columns(fmt.Sprintf("%dx %s", qty, name), amount)
}

func (d *Document) Feed(n int) *Document {
	for i := 0; i < n; i++ {
		d.buf.WriteByte(LF)
	}
	return d
}

// Cut feeds and performs a partial cut
func (d *Document) Cut() *Document {
	d.buf.Write([]byte{GS, 'V', 0x01})
	return d
}

func (d *Document) Bytes() []byte {
	return d.buf.Bytes()
}

func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	r := []rune(s)
	return string(r[:max])
}
