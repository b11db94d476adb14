package expand

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/arung-agamani/denpa-radio/internal/block"
)

func TestExpandFileRemoteURI(t *testing.T) {
	cat := block.New()
	cat.Add(block.Record{Name: "news", Kind: block.KindFile, Data: "http://example.com/n.mp3"})
	got := Expand(nil, "news", cat, 0)
	want := []string{"http://example.com/n.mp3"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestExpandFileLocalPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "song.mp3")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	cat := block.New()
	cat.Add(block.Record{Name: "song", Kind: block.KindFile, Data: path})
	got := Expand(nil, "song", cat, 0)
	if len(got) != 1 || got[0] != pathToFileURI(mustAbs(t, path)) {
		t.Fatalf("got %v", got)
	}
}

func mustAbs(t *testing.T, p string) string {
	t.Helper()
	a, err := filepath.Abs(p)
	if err != nil {
		t.Fatal(err)
	}
	return a
}

func TestInterleaveOrdering(t *testing.T) {
	dir := t.TempDir()
	m3u := filepath.Join(dir, "tracks.m3u")
	var files []string
	for _, name := range []string{"s1", "s2", "s3", "s4", "s5"} {
		p := filepath.Join(dir, name+".mp3")
		if err := os.WriteFile(p, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
		files = append(files, p)
	}
	content := ""
	for _, f := range files {
		content += f + "\n"
	}
	if err := os.WriteFile(m3u, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	jingle := filepath.Join(dir, "j.mp3")
	if err := os.WriteFile(jingle, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	cat := block.New()
	cat.Add(block.Record{Name: "songs", Kind: block.KindPlaylist, Data: m3u})
	cat.Add(block.Record{Name: "jingles", Kind: block.KindFile, Data: jingle})
	cat.Add(block.Record{Name: "songs_block", Kind: block.KindInterleave, Data: "songs jingles 3 1"})

	got := Expand(nil, "songs_block", cat, 0)

	want := []string{
		pathToFileURI(mustAbs(t, files[0])),
		pathToFileURI(mustAbs(t, files[1])),
		pathToFileURI(mustAbs(t, files[2])),
		pathToFileURI(mustAbs(t, jingle)),
		pathToFileURI(mustAbs(t, files[3])),
		pathToFileURI(mustAbs(t, files[4])),
		pathToFileURI(mustAbs(t, jingle)),
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestInterleaveRecursionCap(t *testing.T) {
	cat := block.New()
	cat.Add(block.Record{Name: "a", Kind: block.KindInterleave, Data: "a a 1 1"})

	got := Expand(nil, "a", cat, 0)
	if len(got) != 0 {
		t.Fatalf("got %v, want empty", got)
	}
}
