package gitcmd

import (
	"fmt"
	"path/filepath"

	"github.com/jmgilman/go/errors"
)

// CodeGitError identifies a git process that exited unsuccessfully.
const CodeGitError errors.ErrorCode = "GITERROR"

// GitError is returned when git exits with a non-zero code or is terminated
// by a signal. It implements errors.PlatformError.
type GitError struct {
	// Prefix is the line prefix configured for the run.
	Prefix string

	// Tool is the base name of the executable that was run.
	Tool string

	// Args are the arguments the process was started with.
	Args []string

	// ExitCode is the process exit code, or -1 if it was killed by a signal.
	ExitCode int

	// Signal names the signal that terminated the process, if any.
	Signal string
}

var _ errors.PlatformError = (*GitError)(nil)

func newGitError(snap *snapshot, rc *runConfig, st exitStatus) *GitError {
	return &GitError{
		Prefix:   rc.prefix,
		Tool:     filepath.Base(snap.git),
		Args:     snap.args,
		ExitCode: st.code,
		Signal:   st.signal,
	}
}

// Error implements the error interface.
func (e *GitError) Error() string {
	return e.Message()
}

// Message returns the prefix followed by a description of the exit status.
func (e *GitError) Message() string {
	if e.Signal != "" {
		return fmt.Sprintf("%s%s terminated by signal %s", e.Prefix, e.Tool, e.Signal)
	}
	return fmt.Sprintf("%s%s returned exit code %d", e.Prefix, e.Tool, e.ExitCode)
}

// Code returns CodeGitError.
func (e *GitError) Code() errors.ErrorCode {
	return CodeGitError
}

// Classification reports the failure as permanent. Nothing is retried.
func (e *GitError) Classification() errors.ErrorClassification {
	return errors.ClassificationPermanent
}

// Context returns the arguments and exit status as metadata.
func (e *GitError) Context() map[string]interface{} {
	ctx := map[string]interface{}{
		"tool":      e.Tool,
		"args":      append([]string(nil), e.Args...),
		"exit_code": e.ExitCode,
	}
	if e.Signal != "" {
		ctx["signal"] = e.Signal
	}
	return ctx
}

// Unwrap returns nil; a GitError has no underlying cause.
func (e *GitError) Unwrap() error {
	return nil
}
