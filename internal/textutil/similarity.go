package textutil

import "sort"

// CosineSimilarity computes the cosine similarity between two fingerprints.
// Returns 0 if either fingerprint is nil or has zero norm.
func CosineSimilarity(a, b *Fingerprint) float64 {
	if a == nil || b == nil || a.norm == 0 || b.norm == 0 {
		return 0
	}
	var dot float64
	for gram, count := range a.grams {
		if other, ok := b.grams[gram]; ok {
			dot += count * other
		}
	}
	if dot == 0 {
		return 0
	}
	return dot / (a.norm * b.norm)
}

// Match is a candidate scored against a query.
type Match struct {
	Text  string
	Score float64
}

// Closest returns up to limit candidates whose similarity to query is at
// least threshold, best first. Ties keep candidate order. Candidates that
// normalize to the same text are reported once.
func Closest(query string, candidates []string, threshold float64, limit int) []Match {
	q := NewFingerprint(query)
	if q == nil || limit <= 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(candidates))
	var matches []Match
	for _, c := range candidates {
		key := Normalize(c)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		score := CosineSimilarity(q, NewFingerprint(c))
		if score >= threshold {
			matches = append(matches, Match{Text: c, Score: score})
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	if len(matches) > limit {
		matches = matches[:limit]
	}
	return matches
}
