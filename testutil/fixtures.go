package testutil

// Identity used for fixture commits.
const (
	// TestAuthor is the author and committer name of fixture commits.
	TestAuthor = "Test User"

	// TestEmail is the author and committer email of fixture commits.
	TestEmail = "test@example.com"
)

// Fixture repository contents.
const (
	// TestBranch is the branch HEAD points at.
	TestBranch = "master"

	// TestTag is the lightweight tag created on the initial commit.
	TestTag = "v0.0.1"

	// TestFilePath is the single tracked file.
	TestFilePath = "README.md"

	// TestFileContent is the content of TestFilePath. It spans several lines
	// and ends with a newline so capture tests see both.
	TestFileContent = "# Fixture\n\nA repository used by the gitcmd tests.\n"

	// TestCommitMessage is the message of the initial commit.
	TestCommitMessage = "Initial commit"
)
