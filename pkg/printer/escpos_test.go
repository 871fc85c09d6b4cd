package printer

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lines(d *Document) []string {
	// drop the ESC @ prefix
	body := d.Bytes()[2:]
	return strings.Split(strings.TrimSuffix(string(body), "\n"), "\n")
}

func TestDocument_StartsWithInit(t *testing.T) {
	d := NewDocument(0)
	assert.Equal(t, []byte{ESC, '@'}, d.Bytes())
	assert.Equal(t, Width58mm, d.Width())
}

func TestDocument_ColumnsFillTheLine(t *testing.T) {
	d := NewDocument(Width58mm).Columns("Subtotal:", "84.75")
	got := lines(d)
	require.Len(t, got, 1)
	assert.Equal(t, Width58mm, utf8.RuneCountInString(got[0]))
	assert.True(t, strings.HasPrefix(got[0], "Subtotal:"))
	assert.True(t, strings.HasSuffix(got[0], "84.75"))
}

func TestDocument_ColumnsCountRunesNotBytes(t *testing.T) {
	d := NewDocument(Width58mm).Item(2, "Ají de gallina", "50.00")
	got := lines(d)
	require.Len(t, got, 1)
	assert.Equal(t, Width58mm, utf8.RuneCountInString(got[0]))
}

func TestDocument_ColumnsTruncateLongLeftSide(t *testing.T) {
	d := NewDocument(Width58mm).Item(1, "Chicharrón de pescado con yuca frita y sarsa criolla", "38.00")
	got := lines(d)
	require.Len(t, got, 1)
	assert.Equal(t, Width58mm, utf8.RuneCountInString(got[0]))
	assert.True(t, strings.HasSuffix(got[0], " 38.00"))
}

func TestDocument_RuleAndLine(t *testing.T) {
	d := NewDocument(Width80mm).Rule('-').Line(strings.Repeat("x", 60))
	got := lines(d)
	require.Len(t, got, 2)
	assert.Equal(t, strings.Repeat("-", Width80mm), got[0])
	assert.Equal(t, Width80mm, len(got[1]))
}

func TestDocument_Commands(t *testing.T) {
	d := NewDocument(Width58mm).Align(AlignCenter).Bold(true).Size(FontDouble).Cut()
	assert.True(t, bytes.HasSuffix(d.Bytes(), []byte{
		ESC, 'a', 1,
		ESC, 'E', 1,
		GS, '!', FontDouble,
		GS, 'V', 0x01,
	}))
}

func TestNew(t *testing.T) {
	p, err := New("", "")
	require.NoError(t, err)
	assert.Equal(t, KindNone, p.Kind())
	assert.False(t, p.IsConnected(context.Background()))
	assert.NoError(t, p.Print(context.Background(), []byte("x")))

	_, err = New(KindUSB, "")
	assert.Error(t, err)
	_, err = New(KindNetwork, "")
	assert.Error(t, err)
	_, err = New("bluetooth", "x")
	assert.Error(t, err)

	p, err = New(KindNetwork, "127.0.0.1:9100")
	require.NoError(t, err)
	assert.Equal(t, KindNetwork, p.Kind())
}
