package semantic

import "github.com/lithammer/fuzzysearch/fuzzy"

// suggest returns the candidate closest to name by edit distance among those
// that contain name's letters in order (a case-insensitive fuzzy match), or ""
// if none matches or the closest is too far off to be a plausible typo.
func suggest(name string, candidates []string) string {
	if len(candidates) == 0 {
		return ""
	}
	ranks := fuzzy.RankFindFold(name, candidates)
	if len(ranks) == 0 {
		return ""
	}
	best := ranks[0]
	for _, r := range ranks[1:] {
		if r.Distance < best.Distance {
			best = r
		}
	}
	if best.Distance > len(name)/2+1 {
		return ""
	}
	return best.Target
}
