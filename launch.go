package gitcmd

import (
	"context"
	"os"
	"os/exec"
	"syscall"
	"time"

	"github.com/jmgilman/go/errors"
	"golang.org/x/sync/errgroup"
)

// exitStatus is how a process terminated.
type exitStatus struct {
	code   int
	signal string
}

func (s exitStatus) success() bool {
	return s.code == 0 && s.signal == ""
}

// execute launches one process for snap, wires its output with s and waits
// for both the output drains and the process exit.
//
// Errors from starting the process are returned unchanged. A non-zero exit is
// not an error here; callers decide what it means.
func execute(ctx context.Context, snap *snapshot, s strategy) (exitStatus, error) {
	cmd := exec.CommandContext(ctx, snap.git, snap.args...)
	cmd.Dir = snap.dir
	cmd.Env = deriveEnv(os.Environ(), snap.env)

	drains, err := s.attach(cmd, snap)
	if err != nil {
		return exitStatus{}, err
	}

	log := snap.logger.With("tool", snap.git, "strategy", s.name())
	log.DebugContext(ctx, "running command", "args", snap.args, "dir", snap.dir)
	start := time.Now()

	if err := cmd.Start(); err != nil {
		log.DebugContext(ctx, "command failed to start", "error", err)
		return exitStatus{}, err
	}

	// Descendants of git may hold the pipes open after it is killed, so
	// cancellation closes them to release the drains.
	stop := context.AfterFunc(ctx, func() {
		for _, d := range drains {
			_ = d.src.Close()
		}
	})
	defer stop()

	// Output must be fully read before Wait closes the pipes.
	var g errgroup.Group
	for _, d := range drains {
		g.Go(d.run)
	}
	drainErr := g.Wait()
	waitErr := cmd.Wait()

	if (waitErr != nil || drainErr != nil) && ctx.Err() != nil {
		log.DebugContext(ctx, "command canceled", "error", ctx.Err())
		return exitStatus{}, ctx.Err()
	}
	if drainErr != nil {
		return exitStatus{}, drainErr
	}

	var exitErr *exec.ExitError
	if waitErr != nil && !errors.As(waitErr, &exitErr) {
		return exitStatus{}, waitErr
	}

	st := statusOf(cmd.ProcessState)
	log.DebugContext(ctx, "command exited",
		"exit_code", st.code,
		"signal", st.signal,
		"duration", time.Since(start),
	)

	return st, nil
}

func statusOf(state *os.ProcessState) exitStatus {
	st := exitStatus{code: state.ExitCode()}
	if ws, ok := state.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		st.signal = ws.Signal().String()
	}
	return st
}
