package yaml

import (
	"strings"

	"github.com/aymanbagabas/go-udiff"
	"github.com/charmbracelet/lipgloss"
)

var (
	insertedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	deletedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	hunkStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
)

// Diff returns a unified diff between two YAML documents, or an empty
// string if they are equal. When colored is set, inserted, deleted and hunk
// header lines are styled.
func Diff(oldLabel, newLabel string, oldData, newData []byte, colored bool) string {
	d := udiff.Unified(oldLabel, newLabel, string(oldData), string(newData))
	if d == "" || !colored {
		return d
	}

	lines := strings.Split(strings.TrimSuffix(d, "\n"), "\n")
	for i, line := range lines {
		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
			continue
		case strings.HasPrefix(line, "+"):
			lines[i] = insertedStyle.Render(line)
		case strings.HasPrefix(line, "-"):
			lines[i] = deletedStyle.Render(line)
		case strings.HasPrefix(line, "@@"):
			lines[i] = hunkStyle.Render(line)
		}
	}

	return strings.Join(lines, "\n") + "\n"
}
