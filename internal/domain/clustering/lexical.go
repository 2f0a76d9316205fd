package clustering

import "strings"

// stopWords are removed before lexical similarity is computed, along with
// tokens of length <= 2.
var stopWords = map[string]struct{}{}

func init() {
	for _, w := range []string{
		"the", "a", "an", "is", "are", "was", "were", "be", "been", "being",
		"have", "has", "had", "do", "does", "did", "will", "would", "should",
		"can", "could", "may", "might", "must", "i", "you", "he", "she", "it",
		"we", "they", "what", "which", "who", "when", "where", "why", "how",
		"to", "from", "in", "on", "at", "by", "for", "with", "about", "as",
	} {
		stopWords[w] = struct{}{}
	}
}

// lexicalClusters greedily groups items whose meaningful-token Jaccard
// similarity exceeds the threshold with at least MinOverlap shared tokens.
// Singleton groups are discarded: an item with no partner stays unclustered.
func (e *Engine) lexicalClusters(items []Item) [][]int {
	var clusters [][]int
	clustered := make(map[int]struct{}, len(items))

	for i := range items {
		if _, done := clustered[i]; done {
			continue
		}
		members := []int{i}
		clustered[i] = struct{}{}

		first := meaningfulTokens(items[i].Question)
		for j := i + 1; j < len(items); j++ {
			if _, done := clustered[j]; done {
				continue
			}
			second := meaningfulTokens(items[j].Question)
			if len(first) == 0 || len(second) == 0 {
				continue
			}
			overlap, union := setOverlap(first, second)
			if union == 0 {
				continue
			}
			if float64(overlap)/float64(union) > e.cfg.JaccardThreshold && overlap >= e.cfg.MinOverlap {
				members = append(members, j)
				clustered[j] = struct{}{}
			}
		}

		if len(members) > 1 {
			clusters = append(clusters, members)
		}
	}
	return clusters
}

func meaningfulTokens(text string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, token := range strings.Fields(strings.ToLower(text)) {
		if len(token) <= 2 {
			continue
		}
		if _, stop := stopWords[token]; stop {
			continue
		}
		set[token] = struct{}{}
	}
	return set
}

func setOverlap(a, b map[string]struct{}) (overlap, union int) {
	for token := range a {
		if _, ok := b[token]; ok {
			overlap++
		}
	}
	union = len(a) + len(b) - overlap
	return overlap, union
}
