package changelog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderMarkdown(t *testing.T) {
	tests := map[string]struct {
		markdown string
		want     string
	}{
		"github references become plain text": {
			markdown: "### Bug Fixes\n\n" +
				"* **core:** handle empty input ([#12](https://github.com/o/r/issues/12)) ([abc1234](https://github.com/o/r/commit/abc1234))\n" +
				"* thanks [@alice](https://github.com/alice)\n",
			want: "### Bug Fixes\n\n" +
				"* **core:** handle empty input (#12) ([abc1234](https://github.com/o/r/commit/abc1234))\n" +
				"* thanks @alice",
		},
		"cross repository pull request": {
			markdown: "- merged [o/r#7](https://github.com/o/r/pull/7)",
			want:     "- merged o/r#7",
		},
		"links to other hosts are kept": {
			markdown: "- see [@alice](https://example.com/alice) and [#3](https://example.com/3)",
			want:     "- see [@alice](https://example.com/alice) and [#3](https://example.com/3)",
		},
		"ordered and nested lists": {
			markdown: "1. first\n2. second\n   - nested",
			want:     "1. first\n2. second\n   - nested",
		},
		"loose list": {
			markdown: "- a\n\n- b",
			want:     "- a\n\n- b",
		},
		"multi line paragraph": {
			markdown: "line one\nline two",
			want:     "line one\nline two",
		},
		"fenced code": {
			markdown: "```go\nfmt.Println(\"hi\")\n```",
			want:     "```go\nfmt.Println(\"hi\")\n```",
		},
		"blockquote": {
			markdown: "> note\n> more",
			want:     "> note\n> more",
		},
		"emphasis styles are normalized": {
			markdown: "*a* and _b_ and __c__",
			want:     "*a* and *b* and **c**",
		},
		"inline code and strikethrough": {
			markdown: "use `go test` not ~~make~~",
			want:     "use `go test` not ~~make~~",
		},
		"task list": {
			markdown: "- [x] done\n- [ ] todo",
			want:     "- [x] done\n- [ ] todo",
		},
		"image and titled link": {
			markdown: `![logo](img.png) [docs](https://example.com "Docs")`,
			want:     `![logo](img.png) [docs](https://example.com "Docs")`,
		},
		"autolink": {
			markdown: "<https://example.com>",
			want:     "<https://example.com>",
		},
		"blocks are separated by a blank line": {
			markdown: "# Title\ntext\n\n---\n\n- item",
			want:     "# Title\n\ntext\n\n---\n\n- item",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			doc := Parse([]byte(tt.markdown))
			assert.Equal(t, tt.want, RenderMarkdown(children(doc), doc.Source))
		})
	}
}

func TestRenderMarkdown_Table(t *testing.T) {
	doc := Parse([]byte("| a | b |\n|:--|--:|\n| 1 | 2 |\n"))
	got := RenderMarkdown(children(doc), doc.Source)

	assert.Contains(t, got, "| a | b |")
	assert.Contains(t, got, "| :--- | ---: |")
	assert.Contains(t, got, "| 1 | 2 |")
}

func TestRenderMarkdown_Idempotent(t *testing.T) {
	first := Parse([]byte(conventionalChangelog))
	once := RenderMarkdown(children(first), first.Source)

	second := Parse([]byte(once))
	assert.Equal(t, once, RenderMarkdown(children(second), second.Source))
}

func TestRenderMarkdown_Empty(t *testing.T) {
	assert.Equal(t, "", RenderMarkdown(nil, nil))
}

func TestIsAutoReference(t *testing.T) {
	tests := map[string]struct {
		text string
		url  string
		want bool
	}{
		"mention":                {text: "@alice", url: "https://github.com/alice", want: true},
		"mention with dash":      {text: "@bob-s", url: "http://github.com/bob-s", want: true},
		"issue":                  {text: "#12", url: "https://github.com/o/r/issues/12", want: true},
		"pull request":           {text: "#7", url: "https://github.com/o/r/pull/7", want: true},
		"qualified issue":        {text: "o/r#12", url: "https://github.com/o/r/issues/12", want: true},
		"repo qualified issue":   {text: "r#12", url: "https://github.com/o/r/issues/12", want: true},
		"commit link":            {text: "abc1234", url: "https://github.com/o/r/commit/abc1234"},
		"mention to other host":  {text: "@alice", url: "https://gitlab.com/alice"},
		"issue text to compare":  {text: "#12", url: "https://github.com/o/r/compare/a...b"},
		"mention with more text": {text: "@alice and bob", url: "https://github.com/alice"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsAutoReference(tt.text, tt.url))
		})
	}
}
