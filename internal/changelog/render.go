package changelog

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/yuin/goldmark/ast"
	east "github.com/yuin/goldmark/extension/ast"
)

// Links GitHub turns into references on its own. Their markdown form is
// replaced with the visible text.
var (
	mentionText = regexp.MustCompile(`^@[\w-]+$`)
	mentionURL  = regexp.MustCompile(`^https?://github\.com/[\w-]+`)
	issueText   = regexp.MustCompile(`^([\w-]+(/[\w-]+)?)?#\d+$`)
	issueURL    = regexp.MustCompile(`^https?://github\.com/[\w-]+/[\w-]+/(issues|pull)/\d+`)
)

// RenderMarkdown serializes nodes back to markdown in order. Each node is a
// block; blocks are separated by one blank line and the result is trimmed.
func RenderMarkdown(nodes []ast.Node, src []byte) string {
	r := renderer{src: src}
	parts := make([]string, 0, len(nodes))
	for _, n := range nodes {
		parts = append(parts, r.block(n)+"\n")
	}
	return strings.TrimSpace(strings.Join(parts, "\n"))
}

// IsAutoReference reports whether a link with the given text and target is
// a GitHub mention or issue reference that GitHub links by itself.
func IsAutoReference(text, url string) bool {
	return (mentionText.MatchString(text) && mentionURL.MatchString(url)) ||
		(issueText.MatchString(text) && issueURL.MatchString(url))
}

type renderer struct {
	src []byte
}

func (r renderer) block(n ast.Node) string {
	switch n := n.(type) {
	case *ast.Heading:
		return strings.Repeat("#", n.Level) + " " + r.inlines(n)
	case *ast.Paragraph:
		return r.inlines(n)
	case *ast.TextBlock:
		return r.inlines(n)
	case *ast.ThematicBreak:
		return "---"
	case *ast.CodeBlock:
		return indent(strings.TrimSuffix(blockLines(n, r.src), "\n"), "    ", "    ")
	case *ast.FencedCodeBlock:
		return r.fencedCode(n)
	case *ast.HTMLBlock:
		return strings.TrimSuffix(blockLines(n, r.src), "\n")
	case *ast.Blockquote:
		return quote(r.children(n, "\n\n"))
	case *ast.List:
		return r.list(n)
	case *east.Table:
		return r.table(n)
	}
	return r.children(n, "\n\n")
}

func (r renderer) children(n ast.Node, sep string) string {
	var parts []string
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		parts = append(parts, r.block(c))
	}
	return strings.Join(parts, sep)
}

func (r renderer) fencedCode(n *ast.FencedCodeBlock) string {
	body := blockLines(n, r.src)
	if body != "" && !strings.HasSuffix(body, "\n") {
		body += "\n"
	}
	fence := "```"
	if strings.Contains(body, fence) {
		fence = "~~~~"
	}
	var info string
	if n.Info != nil {
		info = string(n.Info.Segment.Value(r.src))
	}
	return fence + info + "\n" + body + fence
}

func (r renderer) list(l *ast.List) string {
	sep := "\n\n"
	if l.IsTight {
		sep = "\n"
	}

	var items []string
	num := l.Start
	for item := l.FirstChild(); item != nil; item = item.NextSibling() {
		marker := string(l.Marker) + " "
		if l.IsOrdered() {
			marker = strconv.Itoa(num) + string(l.Marker) + " "
			num++
		}
		body := r.children(item, sep)
		items = append(items, indent(body, marker, strings.Repeat(" ", len(marker))))
	}
	return strings.Join(items, sep)
}

func (r renderer) table(t *east.Table) string {
	var rows []string
	for row := t.FirstChild(); row != nil; row = row.NextSibling() {
		var cells []string
		for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
			cells = append(cells, r.inlines(cell))
		}
		rows = append(rows, "| "+strings.Join(cells, " | ")+" |")

		if _, ok := row.(*east.TableHeader); ok {
			aligns := make([]string, len(cells))
			for i := range aligns {
				aligns[i] = "---"
				if i < len(t.Alignments) {
					aligns[i] = alignment(t.Alignments[i])
				}
			}
			rows = append(rows, "| "+strings.Join(aligns, " | ")+" |")
		}
	}
	return strings.Join(rows, "\n")
}

func alignment(a east.Alignment) string {
	switch a {
	case east.AlignLeft:
		return ":---"
	case east.AlignRight:
		return "---:"
	case east.AlignCenter:
		return ":---:"
	default:
		return "---"
	}
}

func (r renderer) inlines(n ast.Node) string {
	var b strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		r.inline(&b, c)
	}
	return b.String()
}

func (r renderer) inline(b *strings.Builder, n ast.Node) {
	switch n := n.(type) {
	case *ast.Text:
		b.Write(n.Segment.Value(r.src))
		switch {
		case n.HardLineBreak():
			b.WriteString("\\\n")
		case n.SoftLineBreak():
			b.WriteString("\n")
		}
	case *ast.String:
		b.Write(n.Value)
	case *ast.CodeSpan:
		b.WriteString(codeSpan(PlainText(n, r.src)))
	case *ast.Emphasis:
		delim := strings.Repeat("*", n.Level)
		b.WriteString(delim + r.inlines(n) + delim)
	case *east.Strikethrough:
		b.WriteString("~~" + r.inlines(n) + "~~")
	case *east.TaskCheckBox:
		if n.IsChecked {
			b.WriteString("[x] ")
		} else {
			b.WriteString("[ ] ")
		}
	case *ast.Link:
		text := PlainText(n, r.src)
		if IsAutoReference(text, string(n.Destination)) {
			b.WriteString(text)
			return
		}
		b.WriteString("[" + r.inlines(n) + "](" + destination(n.Destination, n.Title) + ")")
	case *ast.Image:
		b.WriteString("![" + r.inlines(n) + "](" + destination(n.Destination, n.Title) + ")")
	case *ast.AutoLink:
		b.WriteString("<" + string(n.Label(r.src)) + ">")
	case *ast.RawHTML:
		for i := 0; i < n.Segments.Len(); i++ {
			seg := n.Segments.At(i)
			b.Write(seg.Value(r.src))
		}
	default:
		b.WriteString(r.inlines(n))
	}
}

func codeSpan(code string) string {
	ticks := "`"
	for strings.Contains(code, ticks) {
		ticks += "`"
	}
	if strings.HasPrefix(code, "`") || strings.HasSuffix(code, "`") {
		code = " " + code + " "
	}
	return ticks + code + ticks
}

func destination(dest, title []byte) string {
	d := string(dest)
	if d == "" || strings.ContainsAny(d, " <>") {
		d = "<" + strings.NewReplacer("<", `\<`, ">", `\>`).Replace(d) + ">"
	}
	if len(title) > 0 {
		d += ` "` + strings.ReplaceAll(string(title), `"`, `\"`) + `"`
	}
	return d
}

// indent prefixes the first line with first and every other non-empty line
// with rest.
func indent(s, first, rest string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		switch {
		case i == 0:
			lines[i] = first + line
		case line != "":
			lines[i] = rest + line
		}
	}
	return strings.Join(lines, "\n")
}

func quote(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if line == "" {
			lines[i] = ">"
		} else {
			lines[i] = "> " + line
		}
	}
	return strings.Join(lines, "\n")
}
