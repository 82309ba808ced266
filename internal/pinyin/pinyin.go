// Package pinyin turns a buffered pinyin string into ranked Hanzi candidates.
//
// The input is first split into fixed chunks (pairs of letters, with a final
// single letter when the length is odd), then a DAG path search joins
// adjacent chunks back into dictionary keys and ranks complete paths by
// log-probability. "nihao" splits into [ni ha o]; the edge ha+o -> "hao"
// lets the search recover the intended [ni hao] segmentation.
package pinyin

import (
	"math"
	"sort"
	"strings"

	"smartinput/internal/dict"
)

// Dictionary is the lookup surface the DAG search needs. *dict.Dict
// implements it; tests supply small fakes.
type Dictionary interface {
	// Entries returns the words for an exact pinyin key, best first.
	Entries(pinyin string) []dict.Entry

	// Total returns the sum of all frequencies, used to normalize scores.
	Total() float64
}

// maxSpan is the maximum number of chunks a single dictionary key may cover.
// Three chunks is up to six letters, enough for any two-syllable word key.
const maxSpan = 3

// SplitChunks splits a pinyin string into greedy 2-character chunks from the
// left, with a trailing 1-character chunk when the length is odd.
func SplitChunks(s string) []string {
	runes := []rune(s)
	if len(runes) == 0 {
		return nil
	}
	chunks := make([]string, 0, (len(runes)+1)/2)
	for i := 0; i < len(runes); i += 2 {
		end := i + 2
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[i:end]))
	}
	return chunks
}

type path struct {
	score float64
	text  string
}

// Lookup returns up to topK Hanzi candidates for the pinyin string, ranked by
// the DAG search score. It never fails: malformed input, an empty dictionary
// or an incomplete path cover all yield an empty slice.
func Lookup(d Dictionary, pinyin string, topK int) []string {
	if d == nil || topK <= 0 {
		return nil
	}
	pinyin = strings.ToLower(strings.TrimSpace(pinyin))
	chunks := SplitChunks(pinyin)
	if len(chunks) == 0 {
		return nil
	}

	total := d.Total()
	if total <= 0 {
		return nil
	}
	logTotal := math.Log(total)

	n := len(chunks)
	// best[j] holds the top partial paths covering chunks[0:j].
	best := make([][]path, n+1)
	best[0] = []path{{score: 0, text: ""}}

	for j := 1; j <= n; j++ {
		var acc []path
		lo := j - maxSpan
		if lo < 0 {
			lo = 0
		}
		for i := lo; i < j; i++ {
			if len(best[i]) == 0 {
				continue
			}
			key := strings.Join(chunks[i:j], "")
			for _, e := range d.Entries(key) {
				w := math.Log(e.Freq+1) - logTotal
				for _, p := range best[i] {
					acc = append(acc, path{score: p.score + w, text: p.text + e.Word})
				}
			}
		}
		best[j] = prune(acc, topK)
	}

	out := make([]string, 0, len(best[n]))
	seen := make(map[string]bool, len(best[n]))
	for _, p := range best[n] {
		if seen[p.text] {
			continue
		}
		seen[p.text] = true
		out = append(out, p.text)
	}
	return out
}

// prune keeps the k highest-scoring paths, breaking score ties by text so the
// ranking is deterministic.
func prune(paths []path, k int) []path {
	sort.Slice(paths, func(a, b int) bool {
		if paths[a].score != paths[b].score {
			return paths[a].score > paths[b].score
		}
		return paths[a].text < paths[b].text
	})
	if len(paths) > k {
		paths = paths[:k]
	}
	return paths
}
