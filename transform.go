package gitcmd

import (
	"bytes"
	"io"

	"golang.org/x/text/transform"
)

// Transform is a stage interposed between git's standard output and the
// captured value. Apply wraps the upstream reader and returns the reader the
// next stage, or the capture, consumes.
//
// Apply is called once per execution. Stages should keep per-execution state
// in the returned reader so a Command can be run repeatedly and concurrently.
type Transform interface {
	Apply(r io.Reader) io.Reader
}

// TransformFunc adapts an ordinary function to the Transform interface.
type TransformFunc func(r io.Reader) io.Reader

// Apply calls f(r).
func (f TransformFunc) Apply(r io.Reader) io.Reader {
	return f(r)
}

// Transformer returns a stage that runs the output through t.
//
// t is reset at the start of every execution. A Command using it must not run
// concurrently with another execution sharing the same transformer.
func Transformer(t transform.Transformer) Transform {
	return TransformFunc(func(r io.Reader) io.Reader {
		return transform.NewReader(r, t)
	})
}

// Replace returns a stage that replaces every occurrence of old with repl.
// Matches that span read boundaries are replaced too.
func Replace(old, repl string) Transform {
	if old == "" {
		return TransformFunc(func(r io.Reader) io.Reader { return r })
	}
	return TransformFunc(func(r io.Reader) io.Reader {
		return transform.NewReader(r, &replacer{old: []byte(old), repl: []byte(repl)})
	})
}

// Lines returns a stage that emits every non-empty line terminated by a single
// "\n". Empty lines are dropped, "\r\n" endings become "\n" and a final line
// without a newline is terminated.
func Lines() Transform {
	return TransformFunc(func(r io.Reader) io.Reader {
		return transform.NewReader(r, &liner{})
	})
}

// replacer is a transform.Transformer replacing old with repl.
type replacer struct {
	old  []byte
	repl []byte
}

func (t *replacer) Reset() {}

func (t *replacer) Transform(dst, src []byte, atEOF bool) (nDst, nSrc int, err error) {
	for nSrc < len(src) {
		rest := src[nSrc:]
		i := bytes.Index(rest, t.old)

		if i < 0 {
			// Hold back a tail that could be the start of a match.
			keep := 0
			if !atEOF {
				keep = partialSuffix(rest, t.old)
			}
			n := len(rest) - keep
			if n > len(dst)-nDst {
				n = len(dst) - nDst
				nDst += copy(dst[nDst:], rest[:n])
				nSrc += n
				return nDst, nSrc, transform.ErrShortDst
			}
			nDst += copy(dst[nDst:], rest[:n])
			nSrc += n
			if keep > 0 {
				return nDst, nSrc, transform.ErrShortSrc
			}
			return nDst, nSrc, nil
		}

		if i > 0 {
			n := min(i, len(dst)-nDst)
			nDst += copy(dst[nDst:], rest[:n])
			nSrc += n
			if n < i {
				return nDst, nSrc, transform.ErrShortDst
			}
		}

		if len(dst)-nDst < len(t.repl) {
			return nDst, nSrc, transform.ErrShortDst
		}
		nDst += copy(dst[nDst:], t.repl)
		nSrc += len(t.old)
	}

	return nDst, nSrc, nil
}

// partialSuffix returns the length of the longest proper prefix of pattern
// that b ends with.
func partialSuffix(b, pattern []byte) int {
	for k := min(len(pattern)-1, len(b)); k > 0; k-- {
		if bytes.HasSuffix(b, pattern[:k]) {
			return k
		}
	}
	return 0
}

// liner is a transform.Transformer implementing Lines.
type liner struct {
	inLine bool // bytes of the current line have been written
	cr     bool // a '\r' is held back until we know it does not end the line
}

func (t *liner) Reset() {
	t.inLine = false
	t.cr = false
}

func (t *liner) Transform(dst, src []byte, atEOF bool) (nDst, nSrc int, err error) {
	for nSrc < len(src) {
		// Any byte expands to at most two.
		if len(dst)-nDst < 2 {
			return nDst, nSrc, transform.ErrShortDst
		}

		c := src[nSrc]
		switch {
		case c == '\n':
			if t.inLine {
				dst[nDst] = '\n'
				nDst++
			}
			t.inLine = false
			t.cr = false
		case c == '\r':
			if t.cr {
				dst[nDst] = '\r'
				nDst++
				t.inLine = true
			}
			t.cr = true
		default:
			if t.cr {
				dst[nDst] = '\r'
				nDst++
				t.cr = false
			}
			dst[nDst] = c
			nDst++
			t.inLine = true
		}
		nSrc++
	}

	if atEOF && (t.cr || t.inLine) {
		if len(dst)-nDst < 2 {
			return nDst, nSrc, transform.ErrShortDst
		}
		if t.cr {
			dst[nDst] = '\r'
			nDst++
		}
		dst[nDst] = '\n'
		nDst++
		t.inLine = false
		t.cr = false
	}

	return nDst, nSrc, nil
}
