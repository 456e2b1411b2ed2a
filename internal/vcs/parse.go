package vcs

import (
	"strings"

	"github.com/kilupskalvis/gg/internal/models"
)

// parsePushPorcelain parses `git push --porcelain` output for one refspec.
// Ref lines are "<flag>\t<from>:<to>\t<summary>". Returns nil when no ref line
// was printed.
func parsePushPorcelain(out string) *models.PushResult {
	for _, line := range strings.Split(out, "\n") {
		if len(line) < 2 || line[1] != '\t' {
			continue
		}
		parts := strings.SplitN(line[2:], "\t", 2)
		summary := ""
		if len(parts) == 2 {
			summary = strings.TrimSpace(parts[1])
		}

		res := &models.PushResult{Summary: summary}
		switch line[0] {
		case '+':
			res.Forced = true
		case '=':
			res.UpToDate = true
		case '*':
			res.New = true
		case '!':
			if strings.HasPrefix(summary, "[remote rejected]") {
				res.RemoteRejected = true
			} else {
				res.Rejected = true
			}
		}
		return res
	}
	return nil
}

// parseNameStatusZ parses `git diff --name-status -z --no-renames` output,
// which alternates status and path fields separated by NUL.
func parseNameStatusZ(out string) []models.FileChange {
	fields := strings.Split(strings.TrimSuffix(out, "\x00"), "\x00")
	var changes []models.FileChange
	for i := 0; i+1 < len(fields); i += 2 {
		status, path := fields[i], fields[i+1]
		if status == "" || path == "" {
			continue
		}
		changes = append(changes, models.FileChange{
			Path:    path,
			Deleted: status[0] == 'D',
		})
	}
	return changes
}

// splitZ splits NUL-terminated output into non-empty entries.
func splitZ(out string) []string {
	var entries []string
	for _, s := range strings.Split(out, "\x00") {
		if s != "" {
			entries = append(entries, s)
		}
	}
	return entries
}

// splitLines returns the non-empty lines of out.
func splitLines(out string) []string {
	var lines []string
	for _, line := range strings.Split(out, "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
