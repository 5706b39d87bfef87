package changelog

import (
	"github.com/yuin/goldmark/ast"

	"github.com/gh-release-changelog/gh-release-changelog/internal/ignore"
	"github.com/gh-release-changelog/gh-release-changelog/internal/semtag"
)

// Query selects the release section of Tag. When FromTag is set, later
// version headings are absorbed until one matching FromTag is reached.
type Query struct {
	Tag     string
	FromTag string
	Rules   ignore.Rules
}

type scanState int

const (
	stateSearching scanState = iota
	stateCollecting
	stateDone
)

// scanner is a single pass over the document: search for the first heading
// matching the tag, collect its following siblings, stop at the boundary.
// It never re-enters an earlier state.
type scanner struct {
	src   []byte
	query Query
	state scanState
	seg   Segment
}

// Scan walks doc depth first and returns the segment of q.Tag. The first
// matching heading wins, wherever it is nested. The tree is not modified.
func Scan(doc *Document, q Query) Segment {
	s := &scanner{src: doc.Source, query: q}
	_ = ast.Walk(doc.Root, s.visit)
	return s.seg
}

func (s *scanner) visit(n ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering || s.state != stateSearching {
		return ast.WalkContinue, nil
	}
	if _, ok := n.(*ast.Heading); !ok {
		return ast.WalkContinue, nil
	}
	if !semtag.IsMatchedTag(headingText(n, s.src), s.query.Tag) {
		return ast.WalkContinue, nil
	}

	s.seg.Matched = true
	s.state = stateCollecting
	for sib := n.NextSibling(); sib != nil && s.state == stateCollecting; sib = sib.NextSibling() {
		s.step(sib)
	}
	s.state = stateDone
	return ast.WalkStop, nil
}

// step handles one sibling while collecting.
func (s *scanner) step(n ast.Node) {
	h, isHeading := n.(*ast.Heading)
	if isHeading && s.isBoundary(n) {
		s.seg.Boundary = headingText(n, s.src)
		s.state = stateDone
		return
	}

	if isHeading && h.Level > 1 {
		if d := h.Level - 1; s.seg.Depth == 0 || d < s.seg.Depth {
			s.seg.Depth = d
		}
	}

	if s.query.Rules.ShouldIgnore(PlainText(n, s.src)) {
		return
	}
	s.seg.Nodes = append(s.seg.Nodes, n)
}

// isBoundary reports whether heading n ends the section: it names a
// version, and either no FromTag was given or it is the FromTag release.
func (s *scanner) isBoundary(n ast.Node) bool {
	text := headingText(n, s.src)
	if !semtag.IsVersionText(text) {
		return false
	}
	return s.query.FromTag == "" || semtag.IsMatchedTag(text, s.query.FromTag)
}
