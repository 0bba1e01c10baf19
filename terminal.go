package gitcmd

import (
	"context"
	"strings"
)

// Ok runs the command with all output discarded and reports whether it
// exited with code 0. Any other exit, including termination by a signal,
// yields false.
//
// The error is non-nil only when the process could not be started or ctx was
// canceled; Ok never returns a *GitError.
func (c *Command) Ok(ctx context.Context) (bool, error) {
	st, err := execute(ctx, c.snapshot(), ignoreOutput{})
	if err != nil {
		return false, err
	}
	return st.success(), nil
}

// Pass runs the command while forwarding its standard output and standard
// error, line by line with the configured prefix, to the host writers.
// It returns nil when git exits with code 0 and a *GitError otherwise.
func (c *Command) Pass(ctx context.Context, opts ...RunOption) error {
	rc := newRunConfig(opts)
	snap := c.snapshot()

	st, err := execute(ctx, snap, &passOutput{rc: rc})
	if err != nil {
		return err
	}
	if !st.success() {
		return newGitError(snap, rc, st)
	}
	return nil
}

// Capture runs the command and returns its standard output after the
// transform chain. The bytes are returned as produced unless WithEncoding is
// given, in which case they are decoded to UTF-8 before the first stage.
func (c *Command) Capture(ctx context.Context, opts ...RunOption) ([]byte, error) {
	rc := newRunConfig(opts)
	dec, err := rc.decoder()
	if err != nil {
		return nil, err
	}

	out := &captureOutput{rc: rc, decoder: dec}
	if err := c.capture(ctx, rc, out); err != nil {
		return nil, err
	}
	return out.raw, nil
}

// Text is Capture with the output decoded as text. UTF-8 is assumed unless
// WithEncoding names another encoding.
func (c *Command) Text(ctx context.Context, opts ...RunOption) (string, error) {
	rc := newRunConfig(opts)
	dec, err := rc.textDecoder()
	if err != nil {
		return "", err
	}

	out := &captureOutput{rc: rc, decoder: dec}
	if err := c.capture(ctx, rc, out); err != nil {
		return "", err
	}
	return string(out.raw), nil
}

// Oneline is Text with the trailing run of newlines removed. Newlines inside
// the output are kept.
func (c *Command) Oneline(ctx context.Context, opts ...RunOption) (string, error) {
	text, err := c.Text(ctx, opts...)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(text, "\n"), nil
}

// Array runs the command and returns its decoded standard output split into
// lines. The final newline does not produce an empty element.
//
// Output is decoded before the transform chain, so stages always see UTF-8
// text whatever WithEncoding names.
func (c *Command) Array(ctx context.Context, opts ...RunOption) ([]string, error) {
	rc := newRunConfig(opts)
	dec, err := rc.textDecoder()
	if err != nil {
		return nil, err
	}

	out := &captureOutput{rc: rc, decoder: dec, array: true}
	if err := c.capture(ctx, rc, out); err != nil {
		return nil, err
	}
	return out.lines, nil
}

func (c *Command) capture(ctx context.Context, rc *runConfig, out *captureOutput) error {
	snap := c.snapshot()

	st, err := execute(ctx, snap, out)
	if err != nil {
		return err
	}
	if !st.success() {
		return newGitError(snap, rc, st)
	}
	return nil
}
