package adapter

import (
	"bufio"
	"bytes"
	"context"
	"os/exec"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	m "leela.dev/pkg/leela/internal/model"
)

// LineFilter supplies the allowed set of source lines for diff mode.
// Optional: a nil filter (or empty base ref) means everything is eligible.
type LineFilter interface {
	ChangedLines(ctx context.Context, base string) (m.AllowedLines, error)
}

// GitLineFilter derives the allowed line set from `git diff -U0` against a
// base ref. It tries the three-dot merge-base form first and falls back to
// a plain diff, matching how reviews compare branches.
type GitLineFilter struct {
	root m.Path
}

// NewGitLineFilter constructs a GitLineFilter rooted at the repository.
func NewGitLineFilter(root m.Path) *GitLineFilter {
	return &GitLineFilter{root: root}
}

// ChangedLines returns changed line numbers per file since the base ref.
func (f *GitLineFilter) ChangedLines(ctx context.Context, base string) (m.AllowedLines, error) {
	output, err := f.gitDiff(ctx, base+"...HEAD")
	if err != nil {
		output, err = f.gitDiff(ctx, base)
		if err != nil {
			return nil, err
		}
	}

	return ParseDiffHunks(output, f.root), nil
}

func (f *GitLineFilter) gitDiff(ctx context.Context, ref string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, "git", "diff", "-U0", ref)
	cmd.Dir = string(f.root)

	var stdout bytes.Buffer

	cmd.Stdout = &stdout

	if err := cmd.Run(); err != nil {
		return nil, err
	}

	return stdout.Bytes(), nil
}

var hunkPattern = regexp.MustCompile(`^@@ -\d+(?:,\d+)? \+(\d+)(?:,(\d+))? @@`)

// ParseDiffHunks parses unified diff output (-U0) into added/modified line
// numbers per Go file, resolved to absolute paths under root.
func ParseDiffHunks(diff []byte, root m.Path) m.AllowedLines {
	allowed := make(m.AllowedLines)

	var currentFile m.Path

	scanner := bufio.NewScanner(bytes.NewReader(diff))
	for scanner.Scan() {
		line := scanner.Text()

		switch {
		case strings.HasPrefix(line, "+++ b/"):
			path := line[len("+++ b/"):]
			if strings.HasSuffix(path, ".go") {
				currentFile = m.Path(filepath.Join(string(root), path))
				if allowed[currentFile] == nil {
					allowed[currentFile] = make(map[int]bool)
				}
			} else {
				currentFile = ""
			}

		case strings.HasPrefix(line, "@@") && currentFile != "":
			match := hunkPattern.FindStringSubmatch(line)
			if match == nil {
				continue
			}

			start, _ := strconv.Atoi(match[1])

			count := 1
			if match[2] != "" {
				count, _ = strconv.Atoi(match[2])
			}

			for l := start; l < start+count; l++ {
				allowed[currentFile][l] = true
			}
		}
	}

	return allowed
}
