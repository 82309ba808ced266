// Package dict holds the pinyin-to-Hanzi dictionary the candidate lookup
// runs against.
//
// Three layers merge into one table:
//
//  1. the embedded base table (base_dict.json, regenerated by tools/dictgen),
//  2. an optional user dictionary JSON file, schema-validated before use,
//  3. learned selections persisted in the SQLite user store.
//
// Keys are lowercase pinyin strings; multi-syllable words use the
// concatenated pinyin ("nihao", "pinyin") as their key.
package dict

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	_ "embed"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed base_dict.json
var baseDictJSON []byte

//go:embed dict.schema.json
var dictSchemaJSON []byte

// Entry is one candidate word with its corpus frequency.
type Entry struct {
	Word string
	Freq float64
}

// FileEntry is the on-disk representation of a dictionary row.
type FileEntry struct {
	Pinyin string  `json:"pinyin"`
	Word   string  `json:"word"`
	Freq   float64 `json:"freq,omitempty"`
}

type fileDict struct {
	Entries []FileEntry `json:"entries"`
}

// Dict is the merged in-memory dictionary. Reads are concurrent; merges and
// boosts take the write lock.
type Dict struct {
	mu      sync.RWMutex
	entries map[string][]Entry
	total   float64
}

// New returns an empty dictionary.
func New() *Dict {
	return &Dict{entries: make(map[string][]Entry)}
}

// LoadBase builds a dictionary from the embedded base table.
func LoadBase() (*Dict, error) {
	d := New()
	if err := d.MergeJSON(baseDictJSON); err != nil {
		return nil, fmt.Errorf("load embedded base dictionary: %w", err)
	}
	return d, nil
}

// schema is compiled once; the embedded schema is trusted input.
var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func dictSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("dict.schema.json", bytes.NewReader(dictSchemaJSON)); err != nil {
			schemaErr = err
			return
		}
		schema, schemaErr = compiler.Compile("dict.schema.json")
	})
	return schema, schemaErr
}

// ValidateJSON checks a dictionary document against the embedded schema.
func ValidateJSON(data []byte) error {
	s, err := dictSchema()
	if err != nil {
		return fmt.Errorf("compile dictionary schema: %w", err)
	}
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parse dictionary JSON: %w", err)
	}
	if err := s.Validate(doc); err != nil {
		return fmt.Errorf("dictionary schema: %w", err)
	}
	return nil
}

// MergeJSON validates and merges a dictionary document into d.
func (d *Dict) MergeJSON(data []byte) error {
	if err := ValidateJSON(data); err != nil {
		return err
	}
	var fd fileDict
	if err := json.Unmarshal(data, &fd); err != nil {
		return fmt.Errorf("decode dictionary JSON: %w", err)
	}
	d.MergeEntries(fd.Entries)
	return nil
}

// MergeFile validates and merges a user dictionary file. A missing file is
// not an error; the user dictionary is optional.
func (d *Dict) MergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read user dictionary: %w", err)
	}
	if err := d.MergeJSON(data); err != nil {
		return fmt.Errorf("user dictionary %s: %w", path, err)
	}
	return nil
}

// MergeEntries adds rows to the table. A row for an existing (pinyin, word)
// pair replaces the frequency when the new one is higher, so user layers can
// only promote words.
func (d *Dict) MergeEntries(rows []FileEntry) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, row := range rows {
		key := strings.ToLower(row.Pinyin)
		if key == "" || row.Word == "" {
			continue
		}
		freq := row.Freq
		if freq <= 0 {
			freq = 1
		}
		d.upsertLocked(key, row.Word, freq, false)
	}
	d.resortLocked()
}

// MergeLearned adds learned rows on top of whatever is already in the table.
// Unlike MergeEntries, learned frequencies are additive: a selection boost
// stacks on the base frequency instead of competing with it.
func (d *Dict) MergeLearned(rows []FileEntry) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, row := range rows {
		key := strings.ToLower(row.Pinyin)
		if key == "" || row.Word == "" || row.Freq <= 0 {
			continue
		}
		d.upsertLocked(key, row.Word, row.Freq, true)
	}
	d.resortLocked()
}

// Boost raises the frequency of one word by delta, inserting it if missing.
// The engine calls this when the user picks a candidate by number.
func (d *Dict) Boost(pinyin, word string, delta float64) {
	if pinyin == "" || word == "" || delta <= 0 {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.upsertLocked(strings.ToLower(pinyin), word, delta, true)
	d.resortLocked()
}

func (d *Dict) upsertLocked(key, word string, freq float64, additive bool) {
	list := d.entries[key]
	for i := range list {
		if list[i].Word != word {
			continue
		}
		if additive {
			list[i].Freq += freq
			d.total += freq
		} else if freq > list[i].Freq {
			d.total += freq - list[i].Freq
			list[i].Freq = freq
		}
		return
	}
	d.entries[key] = append(list, Entry{Word: word, Freq: freq})
	d.total += freq
}

func (d *Dict) resortLocked() {
	for _, list := range d.entries {
		sort.SliceStable(list, func(a, b int) bool {
			if list[a].Freq != list[b].Freq {
				return list[a].Freq > list[b].Freq
			}
			return list[a].Word < list[b].Word
		})
	}
}

// Entries returns the words for an exact pinyin key, highest frequency first.
// The returned slice is a copy and safe to hold.
func (d *Dict) Entries(pinyin string) []Entry {
	d.mu.RLock()
	defer d.mu.RUnlock()
	list := d.entries[strings.ToLower(pinyin)]
	if len(list) == 0 {
		return nil
	}
	out := make([]Entry, len(list))
	copy(out, list)
	return out
}

// Has reports whether the key exists in the table.
func (d *Dict) Has(pinyin string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.entries[strings.ToLower(pinyin)]) > 0
}

// Total returns the frequency mass of the whole table.
func (d *Dict) Total() float64 {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.total
}

// Size returns the number of distinct pinyin keys.
func (d *Dict) Size() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.entries)
}
