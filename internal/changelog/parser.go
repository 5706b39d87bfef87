package changelog

import (
	"fmt"
	"os"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// Document is a parsed changelog. Node segments point into Source.
type Document struct {
	Root   ast.Node
	Source []byte
}

// newMarkdown returns a CommonMark parser with the GitHub extensions that
// changelogs commonly use. Autolinking of bare URLs is left off so URLs
// survive as written.
func newMarkdown() goldmark.Markdown {
	return goldmark.New(
		goldmark.WithExtensions(
			extension.Table,
			extension.Strikethrough,
			extension.TaskList,
		),
	)
}

// Parse builds the document tree for src.
func Parse(src []byte) *Document {
	root := newMarkdown().Parser().Parse(text.NewReader(src))
	return &Document{Root: root, Source: src}
}

// Load reads and parses the changelog at path.
func Load(path string) (*Document, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading changelog file: %w", err)
	}
	return Parse(src), nil
}

// PlainText flattens n to its textual content: text, code and raw HTML are
// concatenated with no markup. Soft and hard breaks become newlines.
func PlainText(n ast.Node, src []byte) string {
	var b strings.Builder
	writePlain(&b, n, src)
	return b.String()
}

func writePlain(b *strings.Builder, n ast.Node, src []byte) {
	switch n := n.(type) {
	case *ast.Text:
		value := n.Segment.Value(src)
		if !n.IsRaw() {
			value = util.UnescapePunctuations(value)
		}
		b.Write(value)
		if n.SoftLineBreak() || n.HardLineBreak() {
			b.WriteByte('\n')
		}
		return
	case *ast.String:
		b.Write(n.Value)
		return
	case *ast.AutoLink:
		b.Write(n.Label(src))
		return
	case *ast.RawHTML:
		for i := 0; i < n.Segments.Len(); i++ {
			seg := n.Segments.At(i)
			b.Write(seg.Value(src))
		}
		return
	case *ast.FencedCodeBlock, *ast.CodeBlock, *ast.HTMLBlock:
		b.WriteString(strings.TrimSuffix(blockLines(n, src), "\n"))
		return
	}

	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		writePlain(b, c, src)
	}
}

// blockLines concatenates the raw lines of a leaf block, including the
// closing line of an HTML block.
func blockLines(n ast.Node, src []byte) string {
	var b strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		b.Write(seg.Value(src))
	}
	if h, ok := n.(*ast.HTMLBlock); ok && h.HasClosure() {
		b.Write(h.ClosureLine.Value(src))
	}
	return b.String()
}

// headingText is the trimmed text of a heading as used for version
// matching. A leading bracketed reference such as "[1.2.0] - 2024-01-01"
// loses its brackets even when the reference has no definition.
func headingText(n ast.Node, src []byte) string {
	s := strings.TrimSpace(PlainText(n, src))
	if strings.HasPrefix(s, "[") {
		if i := strings.Index(s, "]"); i > 0 {
			s = s[1:i] + s[i+1:]
		}
	}
	return s
}
