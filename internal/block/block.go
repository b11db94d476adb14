// Package block implements the named content catalog: a library of
// playable items, each tagged with a kind and an opaque data string that
// the expander parses lazily.
package block

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/arung-agamani/denpa-radio/internal/config/directive"
)

// Kind tags the five variants a block record can hold.
type Kind int

const (
	KindFile Kind = iota
	KindPlaylist
	KindRandom
	KindRandomFile
	KindInterleave
)

func (k Kind) String() string {
	switch k {
	case KindFile:
		return "file"
	case KindPlaylist:
		return "playlist"
	case KindRandom:
		return "random"
	case KindRandomFile:
		return "randomfile"
	case KindInterleave:
		return "interleave"
	default:
		return "unknown"
	}
}

func parseKind(s string) (Kind, bool) {
	switch strings.ToLower(s) {
	case "file":
		return KindFile, true
	case "playlist":
		return KindPlaylist, true
	case "random":
		return KindRandom, true
	case "randomfile":
		return KindRandomFile, true
	case "interleave":
		return KindInterleave, true
	default:
		return 0, false
	}
}

// Record is a single catalog entry: name, kind, and opaque data string
// whose grammar depends on Kind (see internal/expand).
type Record struct {
	Name string
	Kind Kind
	Data string
}

// Catalog is the named library of blocks loaded from a block file. Lookup
// by name returns the first-inserted record for that name; List preserves
// file order for every loaded record, duplicates included.
type Catalog struct {
	records []Record
	byName  map[string]int // name -> index into records of the FIRST match
}

// New returns an empty catalog.
func New() *Catalog {
	return &Catalog{byName: make(map[string]int)}
}

// Add inserts a record. If name was already present, the existing lookup
// target is left untouched (first insertion wins for Get), but the new
// record is still appended so List/Count reflect every loaded line.
func (c *Catalog) Add(r Record) {
	idx := len(c.records)
	c.records = append(c.records, r)
	if _, exists := c.byName[r.Name]; !exists {
		c.byName[r.Name] = idx
	}
}

// Get returns the first-inserted record with the given name.
func (c *Catalog) Get(name string) (Record, bool) {
	idx, ok := c.byName[name]
	if !ok {
		return Record{}, false
	}
	return c.records[idx], true
}

// List returns every loaded record in file order, duplicates included.
func (c *Catalog) List() []Record {
	out := make([]Record, len(c.records))
	copy(out, c.records)
	return out
}

// Count returns the number of loaded records (including unreachable
// duplicates).
func (c *Catalog) Count() int {
	return len(c.records)
}

// Load reads a block file: three tokens per line (name, kind, data),
// tokenized with the shared configuration-line tokenizer (§6.1). Unknown
// kinds reject only that record; other lines continue to load. Returns
// the number of records loaded and the number of lines skipped.
func Load(path string) (*Catalog, int, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("open block file: %w", err)
	}
	defer f.Close()

	cat := New()
	var loaded, skipped int

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		tokens := directive.Tokenize(line)
		if len(tokens) == 0 {
			continue
		}
		if len(tokens) != 3 {
			skipped++
			continue
		}
		kind, ok := parseKind(tokens[1])
		if !ok {
			slog.Warn("block: unknown kind", "name", tokens[0], "kind", tokens[1])
			skipped++
			continue
		}
		cat.Add(Record{Name: tokens[0], Kind: kind, Data: tokens[2]})
		loaded++
	}
	if err := scanner.Err(); err != nil {
		return cat, loaded, skipped, fmt.Errorf("read block file: %w", err)
	}
	return cat, loaded, skipped, nil
}

// String renders the catalog the way the original daemon dumps its
// loaded tables for operator debugging (see aras_block_print).
func (c *Catalog) String() string {
	var b strings.Builder
	for _, r := range c.records {
		fmt.Fprintf(&b, "%s %s %s\n", r.Name, r.Kind, r.Data)
	}
	return b.String()
}
