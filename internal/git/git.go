package git

import (
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

// FileStatus contains git information about one vault file
type FileStatus struct {
	IsRepo  bool
	Tracked bool // committed or staged
	Ignored bool // matched by .gitignore
}

// IsGitRepo checks if the working directory is inside a git repository
func IsGitRepo(workDir string) bool {
	cmd := exec.Command("git", "rev-parse", "--is-inside-work-tree")
	cmd.Dir = workDir
	err := cmd.Run()
	return err == nil
}

// IsTracked checks if a file is tracked by git
func IsTracked(workDir, path string) bool {
	cmd := exec.Command("git", "ls-files", "--", path)
	cmd.Dir = workDir
	output, err := cmd.Output()

	if err != nil {
		return false
	}

	return len(strings.TrimSpace(string(output))) > 0
}

// IsIgnored checks if a file is ignored by git (handles all .gitignore files)
func IsIgnored(workDir, path string) bool {
	cmd := exec.Command("git", "check-ignore", "-q", "--", path)
	cmd.Dir = workDir
	err := cmd.Run()

	// git check-ignore returns exit code 0 if file is ignored
	return err == nil
}

// CheckVault reports the git status of the vault file at path
func CheckVault(path string) FileStatus {
	workDir := filepath.Dir(path)
	name := filepath.Base(path)

	if !IsGitRepo(workDir) {
		return FileStatus{}
	}

	return FileStatus{
		IsRepo:  true,
		Tracked: IsTracked(workDir, name),
		Ignored: IsIgnored(workDir, name),
	}
}

// FormatVaultStatus formats git status for display
func FormatVaultStatus(status FileStatus, name string) string {
	if !status.IsRepo {
		return ""
	}

	switch {
	case status.Tracked:
		return fmt.Sprintf("warning: %s is tracked by git; old versions stay in history after passwd", name)
	case status.Ignored:
		return fmt.Sprintf("ok: %s is ignored by git", name)
	default:
		return fmt.Sprintf("warning: %s not in .gitignore (add it before committing)", name)
	}
}
