// dictgen regenerates the embedded base dictionary JSON from a Hanzi
// frequency list. Each input line is a word and its frequency, whitespace
// separated; the pinyin key is derived from the word itself.
//
// Usage:
//
//	go run tools/dictgen/main.go -input freq.txt -output internal/dict/base_dict.json
package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/mozillazg/go-pinyin"
)

type fileEntry struct {
	Pinyin string  `json:"pinyin"`
	Word   string  `json:"word"`
	Freq   float64 `json:"freq"`
}

type dictFile struct {
	Entries []fileEntry `json:"entries"`
}

var args = pinyin.NewArgs()

func main() {
	input := flag.String("input", "", "hanzi frequency list (word freq per line)")
	output := flag.String("output", "base_dict.json", "output JSON path")
	minFreq := flag.Float64("min-freq", 1, "drop words below this frequency")
	flag.Parse()

	if *input == "" {
		fmt.Fprintln(os.Stderr, "Usage: dictgen -input freq.txt [-output base_dict.json]")
		os.Exit(1)
	}

	entries, err := readFrequencyList(*input, *minFreq)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Stable output: key, then frequency descending, then word.
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Pinyin != entries[j].Pinyin {
			return entries[i].Pinyin < entries[j].Pinyin
		}
		if entries[i].Freq != entries[j].Freq {
			return entries[i].Freq > entries[j].Freq
		}
		return entries[i].Word < entries[j].Word
	})

	data, err := json.MarshalIndent(&dictFile{Entries: entries}, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: encode: %v\n", err)
		os.Exit(1)
	}
	data = append(data, '\n')

	if err := os.WriteFile(*output, data, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "Error: write %s: %v\n", *output, err)
		os.Exit(1)
	}

	fmt.Printf("Wrote %d entries to %s\n", len(entries), *output)
}

// readFrequencyList parses "word freq" lines and derives each word's pinyin
// key. Words containing characters go-pinyin cannot resolve are skipped.
func readFrequencyList(path string, minFreq float64) ([]fileEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	defer f.Close()

	var entries []fileEntry
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < 2 {
			return nil, fmt.Errorf("line %d: want \"word freq\", got %q", lineNo, line)
		}
		word := fields[0]
		freq, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: bad frequency %q: %w", lineNo, fields[1], err)
		}
		if freq < minFreq {
			continue
		}

		key, ok := pinyinKey(word)
		if !ok {
			fmt.Fprintf(os.Stderr, "skip %q: no pinyin reading\n", word)
			continue
		}

		dedup := key + "/" + word
		if seen[dedup] {
			continue
		}
		seen[dedup] = true

		entries = append(entries, fileEntry{Pinyin: key, Word: word, Freq: freq})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}

	return entries, nil
}

// pinyinKey joins the syllables of a word into the flat lookup key the
// dictionary uses, e.g. 你好 -> "nihao".
func pinyinKey(word string) (string, bool) {
	var parts []string
	for _, r := range word {
		py := pinyin.LazyPinyin(string(r), args)
		if len(py) == 0 {
			return "", false
		}
		parts = append(parts, py[0])
	}
	if len(parts) == 0 {
		return "", false
	}
	return strings.Join(parts, ""), true
}
