package gitcmd

import (
	"bytes"
	"errors"
	"strings"
	"sync"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrefixWriter(t *testing.T) {
	tests := []struct {
		name   string
		prefix string
		writes []string
		want   string
	}{
		{
			name:   "single line",
			prefix: "Foo: ",
			writes: []string{"refs/heads/master\n"},
			want:   "Foo: refs/heads/master\n",
		},
		{
			name:   "every line",
			prefix: "Foo: ",
			writes: []string{"On branch master\nnothing to commit\n"},
			want:   "Foo: On branch master\nFoo: nothing to commit\n",
		},
		{
			name:   "partial trailing line",
			prefix: "> ",
			writes: []string{"a\nb"},
			want:   "> a\n> b",
		},
		{
			name:   "line split across writes",
			prefix: "> ",
			writes: []string{"ab", "c\nd", "e\n"},
			want:   "> abc\n> de\n",
		},
		{
			name:   "empty lines",
			prefix: "> ",
			writes: []string{"\n\n"},
			want:   "> \n> \n",
		},
		{
			name:   "empty prefix",
			prefix: "",
			writes: []string{"a\n", "b"},
			want:   "a\nb",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			pw := newPrefixWriter(&buf, tt.prefix, nil)

			for _, w := range tt.writes {
				n, err := pw.Write([]byte(w))
				require.NoError(t, err)
				assert.Equal(t, len(w), n)
			}

			assert.Equal(t, tt.want, buf.String())
		})
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("closed")
}

func TestPrefixWriterError(t *testing.T) {
	pw := newPrefixWriter(failingWriter{}, "> ", nil)

	n, err := pw.Write([]byte("x\n"))

	assert.Error(t, err)
	assert.Zero(t, n)
}

func TestForwardOneByteReads(t *testing.T) {
	var buf bytes.Buffer
	src := iotest.OneByteReader(strings.NewReader("one\ntwo\nthree"))

	require.NoError(t, forward(&buf, src, "Foo: ", &sync.Mutex{}))
	assert.Equal(t, "Foo: one\nFoo: two\nFoo: three", buf.String())
}

func TestForwardSharedDestination(t *testing.T) {
	var (
		buf bytes.Buffer
		mu  sync.Mutex
		wg  sync.WaitGroup
	)

	lines := strings.Repeat("line\n", 500)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, forward(&buf, strings.NewReader(lines), "> ", &mu))
		}()
	}
	wg.Wait()

	out := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	assert.Len(t, out, 1000)
	for _, line := range out {
		assert.Equal(t, "> line", line)
	}
}

type valueWriter struct{ lines []string }

func (valueWriter) Write(p []byte) (int, error) { return len(p), nil }

func TestStreamLocks(t *testing.T) {
	var a, b bytes.Buffer

	outMu, errMu := streamLocks(&a, &a)
	assert.Same(t, outMu, errMu)

	outMu, errMu = streamLocks(&a, &b)
	assert.NotSame(t, outMu, errMu)

	outMu, errMu = streamLocks(valueWriter{}, valueWriter{})
	assert.NotSame(t, outMu, errMu)

	outMu, errMu = streamLocks(nil, nil)
	assert.NotSame(t, outMu, errMu)
}
