package changelog

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gh-release-changelog/gh-release-changelog/internal/ignore"
)

// generateLargeChangelog creates a conventional-changelog style document
// with the specified number of entries distributed across versions, newest
// first.
func generateLargeChangelog(entryCount int) []byte {
	var buf bytes.Buffer
	buf.WriteString("# Changelog\n\n")

	// Create versions with ~10 entries each
	entriesPerVersion := 10
	versionCount := (entryCount + entriesPerVersion - 1) / entriesPerVersion

	entriesRemaining := entryCount
	for v := versionCount; v >= 1 && entriesRemaining > 0; v-- {
		fmt.Fprintf(&buf, "<a name=\"%d.0.0\"></a>\n", v)
		fmt.Fprintf(&buf, "## [%d.0.0](https://github.com/o/r/compare/v%d.0.0...v%d.0.0) (2024-%02d-%02d)\n\n", v, v-1, v, (v%12)+1, (v%28)+1)

		entriesInThisVersion := entriesPerVersion
		if entriesRemaining < entriesPerVersion {
			entriesInThisVersion = entriesRemaining
		}

		writeVersionEntries(&buf, entriesInThisVersion)
		entriesRemaining -= entriesInThisVersion
	}

	return buf.Bytes()
}

// writeVersionEntries distributes entries across sections.
func writeVersionEntries(buf *bytes.Buffer, count int) {
	sections := []string{"Features", "Bug Fixes", "Performance Improvements"}

	perSection := count / len(sections)
	remainder := count % len(sections)

	for i, section := range sections {
		entriesForSection := perSection
		if i < remainder {
			entriesForSection++
		}
		if entriesForSection == 0 {
			continue
		}
		fmt.Fprintf(buf, "### %s\n\n", section)
		for j := 0; j < entriesForSection; j++ {
			fmt.Fprintf(buf, "* entry %d for %s ([#%d](https://github.com/o/r/issues/%d)) by [@dev](https://github.com/dev)\n", j+1, strings.ToLower(section), j+1, j+1)
		}
		buf.WriteString("\n")
	}
}

func TestExtract_LargeChangelog(t *testing.T) {
	src := generateLargeChangelog(1000)

	tests := map[string]struct {
		tag       string
		wantLines int
	}{
		"newest version": {tag: "v100.0.0", wantLines: 10},
		"oldest version": {tag: "v1.0.0", wantLines: 10},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			res, err := (&Extractor{}).Extract(context.Background(), Options{
				Content:   src,
				Tag:       tt.tag,
				RepoOwner: "o",
				RepoName:  "r",
				SplitNote: true,
			})
			require.NoError(t, err)

			assert.Equal(t, 2, res.Depth)
			assert.Equal(t, tt.wantLines, strings.Count(res.ReleaseNote, "\n* "))
			assert.NotContains(t, res.ReleaseNote, "<a name=")
			assert.NotContains(t, res.ReleaseNote, "](https://github.com/o/r/issues/")
		})
	}
}

// BenchmarkParse_1000Entries benchmarks parsing a changelog with 1000 entries.
func BenchmarkParse_1000Entries(b *testing.B) {
	src := generateLargeChangelog(1000)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Parse(src)
	}
}

// BenchmarkScan_OldestVersion benchmarks the worst case scan, where the
// matching heading is the last one in the document.
func BenchmarkScan_OldestVersion(b *testing.B) {
	doc := Parse(generateLargeChangelog(1000))
	q := Query{Tag: "1.0.0", Rules: ignore.Defaults()}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if seg := Scan(doc, q); !seg.Matched {
			b.Fatal("expected a match")
		}
	}
}

// BenchmarkExtract_100Entries benchmarks a typical changelog size end to end.
func BenchmarkExtract_100Entries(b *testing.B) {
	opts := Options{
		Content:   generateLargeChangelog(100),
		Tag:       "v10.0.0",
		RepoOwner: "o",
		RepoName:  "r",
	}
	e := &Extractor{}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := e.Extract(context.Background(), opts); err != nil {
			b.Fatalf("unexpected error: %v", err)
		}
	}
}
