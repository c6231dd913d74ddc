package cli_test

import "strings"

// splitLines splits trimmed stdout into its non-empty lines.
func splitLines(s string) []string {
	var lines []string

	for _, line := range strings.Split(s, "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}

	return lines
}
