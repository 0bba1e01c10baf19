package gitcmd

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sync"
)

// DefaultGit is the executable launched when WithGit is not given.
const DefaultGit = "git"

// Runner is the set of terminal operations offered by a Command.
// Functions that run git can accept a Runner so tests can substitute a mock.
type Runner interface {
	// Ok runs the command with all output discarded and reports whether it
	// exited with code 0.
	Ok(ctx context.Context) (bool, error)

	// Pass runs the command while forwarding its output line-prefixed to the
	// host's stdout and stderr.
	Pass(ctx context.Context, opts ...RunOption) error

	// Capture runs the command and returns its standard output.
	Capture(ctx context.Context, opts ...RunOption) ([]byte, error)

	// Text runs the command and returns its standard output decoded as text.
	Text(ctx context.Context, opts ...RunOption) (string, error)

	// Oneline is Text with the trailing newlines removed.
	Oneline(ctx context.Context, opts ...RunOption) (string, error)

	// Array runs the command and returns its standard output as lines.
	Array(ctx context.Context, opts ...RunOption) ([]string, error)
}

var _ Runner = (*Command)(nil)

// Command describes one prospective git invocation: the argument list, the
// transform chain applied to captured output, and how the process is launched.
//
// Push and Pipe append to the descriptor and return it for chaining. Each
// terminal operation works on a snapshot taken when it starts, so appends made
// while a command is running only affect later runs.
type Command struct {
	mu         sync.Mutex
	args       []string
	transforms []Transform

	git    string
	dir    string
	env    map[string]string
	stdout io.Writer
	stderr io.Writer
	logger *slog.Logger
}

// New creates a Command with the given arguments.
// The args slice is copied; later changes to it do not affect the Command.
func New(args []string, opts ...Option) *Command {
	c := &Command{
		args:   append([]string(nil), args...),
		git:    DefaultGit,
		env:    make(map[string]string),
		stdout: os.Stdout,
		stderr: os.Stderr,
		logger: slog.New(slog.DiscardHandler),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Push appends one argument.
func (c *Command) Push(arg string) *Command {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.args = append(c.args, arg)
	return c
}

// Pipe appends a transform stage to the chain applied to captured output.
// Stages run in the order they were added.
func (c *Command) Pipe(t Transform) *Command {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.transforms = append(c.transforms, t)
	return c
}

// Args returns a copy of the accumulated arguments.
func (c *Command) Args() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.args...)
}

// Clone creates an independent copy of the Command.
func (c *Command) Clone() *Command {
	c.mu.Lock()
	defer c.mu.Unlock()

	env := make(map[string]string, len(c.env))
	for k, v := range c.env {
		env[k] = v
	}

	return &Command{
		args:       append([]string(nil), c.args...),
		transforms: append([]Transform(nil), c.transforms...),
		git:        c.git,
		dir:        c.dir,
		env:        env,
		stdout:     c.stdout,
		stderr:     c.stderr,
		logger:     c.logger,
	}
}

// snapshot is the frozen view of a Command used by one execution.
type snapshot struct {
	git        string
	args       []string
	transforms []Transform
	dir        string
	env        map[string]string
	stdout     io.Writer
	stderr     io.Writer
	logger     *slog.Logger
}

func (c *Command) snapshot() *snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	env := make(map[string]string, len(c.env))
	for k, v := range c.env {
		env[k] = v
	}

	return &snapshot{
		git:        c.git,
		args:       append([]string(nil), c.args...),
		transforms: append([]Transform(nil), c.transforms...),
		dir:        c.dir,
		env:        env,
		stdout:     c.stdout,
		stderr:     c.stderr,
		logger:     c.logger,
	}
}
