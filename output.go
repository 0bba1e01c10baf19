package gitcmd

import (
	"bytes"
	"io"
	"sync"
)

// prefixWriter writes a fixed prefix at the start of every line passed through
// it, including a trailing line that has no newline yet.
// Writes go straight to the destination, so a slow destination blocks the
// caller.
type prefixWriter struct {
	dst         io.Writer
	prefix      []byte
	mu          *sync.Mutex
	atLineStart bool
}

// newPrefixWriter creates a prefixWriter. mu serializes writes to dst and may
// be shared between writers that target the same destination.
func newPrefixWriter(dst io.Writer, prefix string, mu *sync.Mutex) *prefixWriter {
	if mu == nil {
		mu = &sync.Mutex{}
	}
	return &prefixWriter{
		dst:         dst,
		prefix:      []byte(prefix),
		mu:          mu,
		atLineStart: true,
	}
}

// Write writes p to the destination, inserting the prefix before each line.
func (pw *prefixWriter) Write(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	out := p
	if len(pw.prefix) > 0 {
		out = pw.prefixed(p)
	}

	pw.mu.Lock()
	defer pw.mu.Unlock()

	n, err := pw.dst.Write(out)
	if err != nil {
		return 0, err
	}
	if n != len(out) {
		return 0, io.ErrShortWrite
	}
	return len(p), nil
}

func (pw *prefixWriter) prefixed(p []byte) []byte {
	var buf bytes.Buffer
	buf.Grow(len(p) + len(pw.prefix)*(bytes.Count(p, []byte{'\n'})+1))

	for len(p) > 0 {
		if pw.atLineStart {
			buf.Write(pw.prefix)
			pw.atLineStart = false
		}

		i := bytes.IndexByte(p, '\n')
		if i < 0 {
			buf.Write(p)
			break
		}

		buf.Write(p[:i+1])
		p = p[i+1:]
		pw.atLineStart = true
	}

	return buf.Bytes()
}

// forward copies src into a prefixWriter targeting dst.
func forward(dst io.Writer, src io.Reader, prefix string, mu *sync.Mutex) error {
	_, err := io.Copy(newPrefixWriter(dst, prefix, mu), src)
	return err
}
