package gitcmd

import (
	"io"
	"log/slog"

	"github.com/jmgilman/go/errors"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
)

// GitDirEnv is the environment variable set by WithGitDir.
const GitDirEnv = "GIT_DIR"

// Option configures how a Command launches git.
type Option func(*Command)

// WithDir sets the working directory of the process.
func WithDir(dir string) Option {
	return func(c *Command) {
		c.dir = dir
	}
}

// WithGit overrides the executable name or path. The default is "git".
func WithGit(name string) Option {
	return func(c *Command) {
		c.git = name
	}
}

// WithGitDir points git at an alternate repository metadata directory by
// setting GIT_DIR in the process environment. An empty path is no override.
func WithGitDir(path string) Option {
	return func(c *Command) {
		if path != "" {
			c.env[GitDirEnv] = path
		}
	}
}

// WithEnv sets additional environment variables for the process.
// Later calls override earlier ones with the same key.
func WithEnv(env map[string]string) Option {
	return func(c *Command) {
		for k, v := range env {
			c.env[k] = v
		}
	}
}

// WithStdout sets the writer that receives forwarded standard output.
// The default is os.Stdout.
func WithStdout(w io.Writer) Option {
	return func(c *Command) {
		c.stdout = w
	}
}

// WithStderr sets the writer that receives forwarded standard error.
// The default is os.Stderr.
func WithStderr(w io.Writer) Option {
	return func(c *Command) {
		c.stderr = w
	}
}

// WithLogger sets the logger used for execution diagnostics.
// By default nothing is logged.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Command) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// RunOption configures a single terminal operation.
type RunOption func(*runConfig)

type runConfig struct {
	prefix        string
	silenceErrors bool
	encoding      string
}

func newRunConfig(opts []RunOption) *runConfig {
	rc := &runConfig{}
	for _, opt := range opts {
		opt(rc)
	}
	return rc
}

// WithPrefix sets the string written at the start of every forwarded line.
// It is also prepended to the message of a *GitError.
func WithPrefix(prefix string) RunOption {
	return func(rc *runConfig) {
		rc.prefix = prefix
	}
}

// WithSilenceErrors stops the process's standard error from being forwarded.
// It does not suppress a *GitError.
func WithSilenceErrors() RunOption {
	return func(rc *runConfig) {
		rc.silenceErrors = true
	}
}

// WithEncoding decodes captured output from the named encoding.
// Names are WHATWG encoding labels such as "utf-8", "latin1" or "utf-16le".
func WithEncoding(name string) RunOption {
	return func(rc *runConfig) {
		rc.encoding = name
	}
}

// decoder resolves the configured encoding. It returns nil when no encoding
// was requested.
func (rc *runConfig) decoder() (*encoding.Decoder, error) {
	if rc.encoding == "" {
		return nil, nil
	}
	return lookupDecoder(rc.encoding)
}

// textDecoder is like decoder but falls back to UTF-8.
func (rc *runConfig) textDecoder() (*encoding.Decoder, error) {
	if rc.encoding == "" {
		return unicode.UTF8.NewDecoder(), nil
	}
	return lookupDecoder(rc.encoding)
}

func lookupDecoder(name string) (*encoding.Decoder, error) {
	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, errors.Wrapf(err, errors.CodeInvalidInput, "unsupported encoding %q", name)
	}
	return enc.NewDecoder(), nil
}
