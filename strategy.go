package gitcmd

import (
	"io"
	"os/exec"
	"reflect"
	"strings"
	"sync"

	"golang.org/x/text/encoding"
)

// strategy wires the standard output and error of one execution.
// The set of implementations is closed: ignoreOutput, passOutput and
// captureOutput.
type strategy interface {
	name() string

	// attach connects the child's output streams before it is started. The
	// returned drainers run once the process is up; each reads one pipe.
	attach(cmd *exec.Cmd, snap *snapshot) ([]drainer, error)
}

// ignoreOutput leaves both streams unset so os/exec connects them to the null
// device.
type ignoreOutput struct{}

func (ignoreOutput) name() string { return "ignore" }

func (ignoreOutput) attach(*exec.Cmd, *snapshot) ([]drainer, error) {
	return nil, nil
}

// passOutput forwards both streams, line-prefixed, to the host writers.
type passOutput struct {
	rc *runConfig
}

func (*passOutput) name() string { return "pass" }

func (p *passOutput) attach(cmd *exec.Cmd, snap *snapshot) ([]drainer, error) {
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, err
	}

	outMu, errMu := streamLocks(snap.stdout, snap.stderr)
	drains := []drainer{{
		src: stdout,
		fn: func(r io.Reader) error {
			return forward(snap.stdout, r, p.rc.prefix, outMu)
		},
	}}

	errDrain, err := attachStderr(cmd, snap, p.rc, errMu)
	if err != nil {
		return nil, err
	}
	if errDrain != nil {
		drains = append(drains, *errDrain)
	}

	return drains, nil
}

// captureOutput collects standard output through the transform chain and
// forwards standard error unless silenced.
type captureOutput struct {
	rc      *runConfig
	decoder *encoding.Decoder // nil keeps raw bytes
	array   bool

	raw   []byte
	lines []string
}

func (c *captureOutput) name() string {
	if c.array {
		return "capture-array"
	}
	return "capture"
}

func (c *captureOutput) attach(cmd *exec.Cmd, snap *snapshot) ([]drainer, error) {
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, err
	}

	drains := []drainer{{
		src: stdout,
		fn: func(r io.Reader) error {
			if c.decoder != nil {
				r = c.decoder.Reader(r)
			}
			for _, t := range snap.transforms {
				r = t.Apply(r)
			}
			return c.collect(r)
		},
	}}

	errDrain, err := attachStderr(cmd, snap, c.rc, nil)
	if err != nil {
		return nil, err
	}
	if errDrain != nil {
		drains = append(drains, *errDrain)
	}

	return drains, nil
}

func (c *captureOutput) collect(r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}

	if c.array {
		c.lines = splitLines(string(data))
		return nil
	}

	c.raw = data
	return nil
}

// attachStderr forwards the child's standard error unless errors are
// silenced, in which case the stream is left on the null device.
func attachStderr(cmd *exec.Cmd, snap *snapshot, rc *runConfig, mu *sync.Mutex) (*drainer, error) {
	if rc.silenceErrors {
		return nil, nil
	}

	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, err
	}

	return &drainer{
		src: stderr,
		fn: func(r io.Reader) error {
			return forward(snap.stderr, r, rc.prefix, mu)
		},
	}, nil
}

// streamLocks returns the locks guarding writes to the stdout and stderr
// destinations. Both streams share one lock only when they target the same
// writer, so a stalled stdout never holds up stderr.
func streamLocks(stdout, stderr io.Writer) (*sync.Mutex, *sync.Mutex) {
	outMu := &sync.Mutex{}
	if sameWriter(stdout, stderr) {
		return outMu, outMu
	}
	return outMu, &sync.Mutex{}
}

func sameWriter(a, b io.Writer) bool {
	if a == nil || b == nil {
		return false
	}
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Type() != vb.Type() || !va.Comparable() || !vb.Comparable() {
		return false
	}
	return va.Equal(vb)
}

// drainer reads one pipe of the child until EOF.
type drainer struct {
	src io.ReadCloser
	fn  func(io.Reader) error
}

// run applies fn to the pipe. If fn stops before EOF the remainder is
// discarded so the child never blocks on a full pipe.
func (d drainer) run() error {
	err := d.fn(d.src)
	if _, cerr := io.Copy(io.Discard, d.src); err == nil {
		err = cerr
	}
	return err
}

// splitLines splits decoded output into lines, dropping the final newline and
// any "\r" that ends a line.
func splitLines(text string) []string {
	if text == "" {
		return []string{}
	}

	lines := strings.Split(strings.TrimSuffix(text, "\n"), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}
