package catalog

import "moviecat/internal/textutil"

const suggestThreshold = 0.5

// Suggest returns up to limit titles that resemble title, best first. It is
// used to hint at typos when a lookup misses.
func Suggest(records []Movie, title string, limit int) []string {
	titles := make([]string, 0, len(records))
	for _, m := range records {
		titles = append(titles, m.Title)
	}
	matches := textutil.Closest(title, titles, suggestThreshold, limit)
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, m.Text)
	}
	return out
}
