package cli

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadLineTrimsWhitespace(t *testing.T) {
	r := NewLineReader(strings.NewReader("  hello world  \n"))

	line, err := r.ReadLine(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "hello world", line)
}

func TestReadLineFinalLineWithoutNewline(t *testing.T) {
	r := NewLineReader(strings.NewReader("last line"))

	line, err := r.ReadLine(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "last line", line)
}

func TestReadLineEOF(t *testing.T) {
	r := NewLineReader(strings.NewReader(""))

	_, err := r.ReadLine(context.Background())
	assert.ErrorIs(t, err, io.EOF)
}

func TestReadLineCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := NewLineReader(blockingReader{})
	_, err := r.ReadLine(ctx)
	assert.ErrorIs(t, err, ErrInputCancelled)
}

func TestNewLineReaderNilPanics(t *testing.T) {
	assert.Panics(t, func() { NewLineReader(nil) })
}
