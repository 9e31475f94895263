package enrich

import "strings"

// ParseURLs splits a newline-separated block into URLs. Lines are trimmed and
// blank lines dropped. Order and duplicates are kept.
func ParseURLs(block string) []string {
	block = strings.ReplaceAll(block, "\r\n", "\n")
	return CleanURLs(strings.Split(block, "\n"))
}

// CleanURLs applies the ParseURLs filtering to an already split list.
func CleanURLs(in []string) []string {
	out := make([]string, 0, len(in))
	for _, u := range in {
		if u = strings.TrimSpace(u); u != "" {
			out = append(out, u)
		}
	}
	return out
}
