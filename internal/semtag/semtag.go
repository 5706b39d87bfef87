// Package semtag recognizes version-shaped tag strings such as "1.2.3",
// "v1.2.3-beta.1", "pkg@1.2.3" and "@scope/pkg@1.2.3".
//
// Only enough of semver is understood to decide whether a changelog heading
// and a release tag refer to the same version.
package semtag

import (
	"regexp"
	"strings"
)

// Identifier is a parsed tag. Name is empty unless the tag was package scoped.
type Identifier struct {
	Name    string `json:"name,omitempty"`
	Version string `json:"version"`
}

// String renders the identifier back into tag form.
func (id Identifier) String() string {
	if id.Name == "" {
		return id.Version
	}
	return id.Name + "@" + id.Version
}

// versionBody is MAJOR.MINOR[.PATCH] followed by any non-space suffix.
const versionBody = `(\d+\.\d+(?:\.\d+)?\S*)`

// recognizers are tried in order; the first match wins.
var recognizers = []*regexp.Regexp{
	regexp.MustCompile(`^` + versionBody),
	regexp.MustCompile(`^[vV]` + versionBody),
	regexp.MustCompile(`^([\w-]+)@` + versionBody),
	regexp.MustCompile(`^(@[\w-]+/[\w-]+)@` + versionBody),
}

var standardVersion = regexp.MustCompile(`^\d+\.\d+\.\d+$`)

// Parse decomposes text into an Identifier. The second return value is false
// when text is not version shaped.
func Parse(text string) (Identifier, bool) {
	text = strings.TrimSpace(text)
	for _, re := range recognizers {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		if len(m) == 2 {
			return Identifier{Version: m[1]}, true
		}
		return Identifier{Name: m[1], Version: m[2]}, true
	}
	return Identifier{}, false
}

// IsVersionText reports whether text parses as a version.
func IsVersionText(text string) bool {
	_, ok := Parse(text)
	return ok
}

// IsStandardVersion reports whether text carries a plain MAJOR.MINOR.PATCH
// version without prerelease or build suffix.
func IsStandardVersion(text string) bool {
	id, ok := Parse(text)
	if !ok {
		return false
	}
	return standardVersion.MatchString(id.Version)
}

// IsMatchedTag reports whether a heading refers to the same version as tag.
// Package names are not compared.
func IsMatchedTag(heading, tag string) bool {
	h, ok := Parse(heading)
	if !ok {
		return false
	}
	t, ok := Parse(tag)
	if !ok {
		return false
	}
	return h.Version == t.Version
}
