// Package expand implements the playlist expander: converting a block
// name into a finite ordered sequence of media URIs, recursively for
// compound kinds (Playlist, Random, RandomFile, Interleave).
package expand

import (
	"bufio"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/arung-agamani/denpa-radio/internal/block"
	"github.com/arung-agamani/denpa-radio/internal/config/directive"
)

// MaxRecursionDepth bounds Interleave-of-Interleave recursion.
const MaxRecursionDepth = 16

// reservedChars mirrors the original daemon's URI-escaping allowlist.
const reservedChars = "!*'();:@&=+$,/?#[]%"

// Expand converts blockName into the ordered sequence of URIs it denotes,
// appending to acc. recursionDepth starts at 0 for a top-level call.
// Exceeding MaxRecursionDepth logs a single diagnostic for the whole call
// tree (an Interleave block that recurses into itself would otherwise
// trigger the check at every one of its exponentially many sub-calls) and
// returns the accumulator unchanged for every branch that hit the cap.
func Expand(acc []string, blockName string, catalog *block.Catalog, recursionDepth int) []string {
	e := &expander{catalog: catalog}
	return e.expand(acc, blockName, recursionDepth)
}

// expander threads a single "already warned" flag through one top-level
// Expand call's entire recursive tree.
type expander struct {
	catalog *block.Catalog
	warned  bool
}

func (e *expander) expand(acc []string, blockName string, depth int) []string {
	if depth >= MaxRecursionDepth {
		if !e.warned {
			slog.Warn("expand: maximum recursion depth reached", "block", blockName, "depth", depth)
			e.warned = true
		}
		return acc
	}

	rec, ok := e.catalog.Get(blockName)
	if !ok {
		return acc
	}

	switch rec.Kind {
	case block.KindFile:
		return expandFile(acc, rec.Data)
	case block.KindPlaylist:
		return expandPlaylist(acc, rec.Data)
	case block.KindRandom:
		return expandRandom(acc, rec.Data)
	case block.KindRandomFile:
		return expandRandomFile(acc, rec.Data)
	case block.KindInterleave:
		return e.expandInterleave(acc, rec.Data, depth)
	default:
		return acc
	}
}

// expandFile applies the File rule to a single data string: if it parses
// as a URI with a non-empty scheme, escape and append; else if it names
// an existing regular file, build a file:// URI; else append nothing.
func expandFile(acc []string, data string) []string {
	if u, err := url.Parse(data); err == nil && u.Scheme != "" {
		return append(acc, escapeURI(data))
	}
	info, err := os.Stat(data)
	if err == nil && info.Mode().IsRegular() {
		abs, err := filepath.Abs(data)
		if err == nil {
			return append(acc, pathToFileURI(abs))
		}
	}
	return acc
}

func escapeURI(raw string) string {
	var b strings.Builder
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		if isUnreserved(c) || strings.IndexByte(reservedChars, c) >= 0 {
			b.WriteByte(c)
		} else {
			fmt.Fprintf(&b, "%%%02X", c)
		}
	}
	return b.String()
}

func isUnreserved(c byte) bool {
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') ||
		c == '-' || c == '.' || c == '_' || c == '~'
}

func pathToFileURI(absPath string) string {
	return "file://" + filepath.ToSlash(absPath)
}

// expandPlaylist opens the M3U at path and applies the File rule to every
// non-comment, non-blank line, resolving relative paths against the M3U's
// own directory.
func expandPlaylist(acc []string, path string) []string {
	f, err := os.Open(path)
	if err != nil {
		return acc
	}
	defer f.Close()

	dir := filepath.Dir(path)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimLeft(scanner.Text(), " \t")
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		entry := line
		if !looksLikeURI(entry) && !filepath.IsAbs(entry) {
			entry = filepath.Join(dir, entry)
		}
		acc = expandFile(acc, entry)
	}
	return acc
}

func looksLikeURI(s string) bool {
	u, err := url.Parse(s)
	return err == nil && u.Scheme != ""
}

// expandRandom recursively enumerates all regular files beneath dirPath
// (depth-capped at MaxRecursionDepth), converts each to a file:// URI,
// then Fisher-Yates shuffles the accumulated set in place.
func expandRandom(acc []string, dirPath string) []string {
	var files []string
	walkRandom(dirPath, 0, &files)

	abs := make([]string, 0, len(files))
	for _, p := range files {
		if a, err := filepath.Abs(p); err == nil {
			abs = append(abs, pathToFileURI(a))
		}
	}
	shuffle(abs)
	return append(acc, abs...)
}

func walkRandom(dir string, depth int, out *[]string) {
	if depth >= MaxRecursionDepth {
		return
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	for _, entry := range entries {
		full := filepath.Join(dir, entry.Name())
		if entry.IsDir() {
			walkRandom(full, depth+1, out)
			continue
		}
		info, err := entry.Info()
		if err == nil && info.Mode().IsRegular() {
			*out = append(*out, full)
		}
	}
}

// shuffle performs an in-place Fisher-Yates shuffle using the process
// global PRNG (seeded automatically by math/rand/v2).
func shuffle(items []string) {
	for i := len(items) - 1; i > 0; i-- {
		j := rand.IntN(i + 1)
		items[i], items[j] = items[j], items[i]
	}
}

// expandRandomFile performs Random then keeps only the head of the
// resulting permutation.
func expandRandomFile(acc []string, dirPath string) []string {
	expanded := expandRandom(nil, dirPath)
	if len(expanded) == 0 {
		return acc
	}
	return append(acc, expanded[0])
}

// expandInterleave expands name_a and name_b into fresh playlists (each at
// recursionDepth+1), then round-robins n_a items from a, n_b from b. The
// round count is driven by whichever list needs more passes to be fully
// visited at its own multiplicity (ceil(len/n)); the shorter list recycles
// from its start for the extra rounds, so it keeps supplying filler items
// (e.g. a jingle reinserted between every batch of songs) for the whole
// run instead of dropping out once its single pass is consumed.
func (e *expander) expandInterleave(acc []string, data string, depth int) []string {
	tokens := directive.Tokenize(data)
	if len(tokens) != 4 {
		return acc
	}
	nameA, nameB := tokens[0], tokens[1]
	nA := clampAtLeastOne(tokens[2])
	nB := clampAtLeastOne(tokens[3])

	pa := e.expand(nil, nameA, depth+1)
	pb := e.expand(nil, nameB, depth+1)
	if len(pa) == 0 || len(pb) == 0 {
		return acc
	}

	roundsA := ceilDiv(len(pa), nA)
	roundsB := ceilDiv(len(pb), nB)
	totalRounds := roundsA
	if roundsB > totalRounds {
		totalRounds = roundsB
	}

	posA, remA := 0, len(pa)
	posB, remB := 0, len(pb)

	for round := 1; round <= totalRounds; round++ {
		take := min(nA, remA)
		for k := 0; k < take; k++ {
			acc = append(acc, pa[posA%len(pa)])
			posA++
		}
		remA -= take
		if remA == 0 && round < totalRounds {
			remA = len(pa)
		}

		take = min(nB, remB)
		for k := 0; k < take; k++ {
			acc = append(acc, pb[posB%len(pb)])
			posB++
		}
		remB -= take
		if remB == 0 && round < totalRounds {
			remB = len(pb)
		}
	}
	return acc
}

func ceilDiv(a, b int) int {
	if b <= 0 {
		return a
	}
	return (a + b - 1) / b
}

func clampAtLeastOne(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 1
	}
	return n
}
