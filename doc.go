// Package gitcmd provides a fluent wrapper for invoking git as a subprocess.
//
// A Command accumulates arguments and output transforms. A terminal operation
// then launches the process, handles its output with one of three strategies,
// and turns the exit status into a Go value or a typed error.
//
// # Basic Usage
//
// Check whether a reference exists:
//
//	ok, err := gitcmd.New([]string{"rev-parse", "master"}, gitcmd.WithDir("/repo")).Ok(ctx)
//	if err != nil {
//		log.Fatal(err) // git could not be started
//	}
//
// Capture a single line of output:
//
//	head, err := gitcmd.New([]string{"rev-parse", "HEAD"}, gitcmd.WithDir("/repo")).Oneline(ctx)
//
// # Output Strategies
//
// Ok discards all output and reports whether git exited with code 0. It never
// returns a *GitError.
//
// Pass streams both output streams to the host's stdout and stderr while git
// runs. Every line is prefixed with the string given to WithPrefix:
//
//	err := gitcmd.New([]string{"fetch", "origin"}).Pass(ctx, gitcmd.WithPrefix("origin: "))
//
// Capture, Text, Oneline and Array collect standard output. Standard error is
// still forwarded unless WithSilenceErrors is given.
//
// # Transforms
//
// Captured output can be routed through transform stages before it is
// collected:
//
//	branch, err := gitcmd.New([]string{"symbolic-ref", "HEAD"}).
//		Pipe(gitcmd.Replace("refs/heads/", "")).
//		Oneline(ctx)
//
// Any golang.org/x/text/transform.Transformer can be used as a stage through
// Transformer, and any io.Reader wrapper through TransformFunc.
//
// When an encoding is in effect, stages see the decoded UTF-8 text. Capture
// without WithEncoding hands them the raw bytes.
//
// # Error Handling
//
// A non-zero exit produces a *GitError carrying the exit code:
//
//	_, err := gitcmd.New([]string{"symbolic-ref", "NULL"}).Oneline(ctx, gitcmd.WithSilenceErrors())
//	var gitErr *gitcmd.GitError
//	if errors.As(err, &gitErr) {
//		fmt.Println(gitErr.ExitCode) // 128
//	}
//
// *GitError implements the PlatformError interface from
// github.com/jmgilman/go/errors with the code CodeGitError. Errors from
// starting the process, such as a missing executable, are returned exactly as
// os/exec reports them.
//
// # Environment
//
// Each execution receives a copy of the parent environment. WithGitDir and
// WithEnv only change that copy, so repeated executions with different
// overrides never leak into each other or into the host process.
package gitcmd
