package agent

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"
)

const gitProbeTimeout = 3 * time.Second

// BuildSystemPrompt is the C10 System Prompt Assembler: it renders the
// working directory, additional directories, platform, OS version, today's
// date, VCS status (when the working directory is a repository), and a
// project instruction file's contents, following the subprocess-invocation
// idiom used by the bash tool (context-bounded exec.Command).
func BuildSystemPrompt(workingDir string, additionalDirs []string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Working directory: %s\n", workingDir)
	if len(additionalDirs) > 0 {
		fmt.Fprintf(&b, "Additional directories: %s\n", strings.Join(additionalDirs, ", "))
	}
	fmt.Fprintf(&b, "Platform: %s\n", runtime.GOOS)
	if osVersion := probeOSVersion(); osVersion != "" {
		fmt.Fprintf(&b, "OS version: %s\n", osVersion)
	}
	fmt.Fprintf(&b, "Today's date: %s\n", time.Now().Format("2006-01-02"))

	if vcs := probeVCSStatus(workingDir); vcs != "" {
		b.WriteString("\n")
		b.WriteString(vcs)
	}

	if instructions := readProjectInstructions(workingDir); instructions != "" {
		b.WriteString("\n<system-reminder>\n")
		b.WriteString(instructions)
		b.WriteString("\n</system-reminder>\n")
	}

	return b.String()
}

func probeOSVersion() string {
	out, err := runProbe(gitProbeTimeout, "", "uname", "-sr")
	if err != nil {
		return ""
	}
	return strings.TrimSpace(out)
}

// probeVCSStatus reports the current branch, a clean/modified marker, and
// the last 5 commit summaries when workingDir is a git repository.
func probeVCSStatus(workingDir string) string {
	branch, err := runProbe(gitProbeTimeout, workingDir, "git", "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return ""
	}
	branch = strings.TrimSpace(branch)

	status, _ := runProbe(gitProbeTimeout, workingDir, "git", "status", "--porcelain")
	marker := "clean"
	if strings.TrimSpace(status) != "" {
		marker = "modified"
	}

	log, _ := runProbe(gitProbeTimeout, workingDir, "git", "log", "-5", "--oneline")

	var b strings.Builder
	fmt.Fprintf(&b, "Git branch: %s (%s)\n", branch, marker)
	if strings.TrimSpace(log) != "" {
		b.WriteString("Recent commits:\n")
		b.WriteString(log)
	}
	return b.String()
}

func runProbe(timeout time.Duration, dir, name string, args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	cmd := exec.CommandContext(ctx, name, args...)
	if dir != "" {
		cmd.Dir = dir
	}
	out, err := cmd.Output()
	return string(out), err
}

// readProjectInstructions returns a project instruction file's contents
// (e.g. CLAUDE.md) if one exists directly in workingDir.
func readProjectInstructions(workingDir string) string {
	for _, name := range []string{"CLAUDE.md", "AGENTS.md"} {
		data, err := os.ReadFile(filepath.Join(workingDir, name))
		if err == nil {
			return string(data)
		}
	}
	return ""
}
