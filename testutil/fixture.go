// Package testutil provisions real git repositories for tests.
//
// Repositories are created by running the git CLI as a plain subprocess and
// then opened with go-git so tests can compare command output against an
// independent reading of the same repository.
package testutil

import (
	"fmt"
	"os/exec"
	"path/filepath"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"
	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	cmdexec "github.com/jmgilman/go/exec"
)

// Fixture is a throwaway repository on disk.
type Fixture struct {
	// Dir is the root of the working tree.
	Dir string

	// Repo is the repository opened with go-git.
	Repo *gogit.Repository

	fs billy.Filesystem
}

// Available reports whether the git CLI is on PATH.
func Available() bool {
	_, err := exec.LookPath("git")
	return err == nil
}

// NewFixture creates a repository in dir, which must exist and be empty.
//
// The repository has one commit on TestBranch containing TestFilePath and a
// lightweight tag TestTag pointing at it. Global and system git configuration
// are ignored so the result does not depend on the host.
//
// Example:
//
//	fx, err := testutil.NewFixture(t.TempDir())
//	if err != nil {
//	    t.Fatal(err)
//	}
func NewFixture(dir string) (*Fixture, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving fixture dir: %w", err)
	}

	fx := &Fixture{
		Dir: dir,
		fs:  osfs.New(dir),
	}

	steps := [][]string{
		{"init", "-q"},
		{"symbolic-ref", "HEAD", "refs/heads/" + TestBranch},
	}
	if err := fx.git(steps...); err != nil {
		return nil, err
	}

	if err := util.WriteFile(fx.fs, TestFilePath, []byte(TestFileContent), 0o644); err != nil {
		return nil, fmt.Errorf("writing %s: %w", TestFilePath, err)
	}

	steps = [][]string{
		{"add", TestFilePath},
		{"-c", "commit.gpgsign=false", "commit", "-q", "-m", TestCommitMessage},
		{"tag", TestTag},
	}
	if err := fx.git(steps...); err != nil {
		return nil, err
	}

	repo, err := gogit.PlainOpen(dir)
	if err != nil {
		return nil, fmt.Errorf("opening fixture: %w", err)
	}
	fx.Repo = repo

	return fx, nil
}

// git runs each argument list in order, stopping at the first failure.
func (f *Fixture) git(steps ...[]string) error {
	git := cmdexec.NewWrapper(cmdexec.New(), "git")

	for _, args := range steps {
		_, err := git.
			WithDir(f.Dir).
			WithInheritEnv().
			WithDisableColors().
			WithEnv(fixtureEnv(f.Dir)).
			Run(args...)
		if err != nil {
			return fmt.Errorf("git %v: %w", args, err)
		}
	}

	return nil
}

func fixtureEnv(dir string) map[string]string {
	return map[string]string{
		"GIT_CONFIG_NOSYSTEM": "1",
		"GIT_CONFIG_GLOBAL":   filepath.Join(dir, ".git", "fixture-global-config"),
		"GIT_AUTHOR_NAME":     TestAuthor,
		"GIT_AUTHOR_EMAIL":    TestEmail,
		"GIT_COMMITTER_NAME":  TestAuthor,
		"GIT_COMMITTER_EMAIL": TestEmail,
	}
}

// Head returns the commit TestBranch points at.
func (f *Fixture) Head() (plumbing.Hash, error) {
	ref, err := f.Repo.Reference(plumbing.NewBranchReferenceName(TestBranch), true)
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("resolving %s: %w", TestBranch, err)
	}
	return ref.Hash(), nil
}

// Tags returns the names of all tags in the repository.
func (f *Fixture) Tags() ([]string, error) {
	iter, err := f.Repo.Tags()
	if err != nil {
		return nil, fmt.Errorf("listing tags: %w", err)
	}
	defer iter.Close()

	var names []string
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		names = append(names, ref.Name().Short())
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("listing tags: %w", err)
	}
	return names, nil
}

// ReadFile returns the content of a file in the working tree.
func (f *Fixture) ReadFile(name string) ([]byte, error) {
	data, err := util.ReadFile(f.fs, name)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}
	return data, nil
}
