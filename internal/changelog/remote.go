package changelog

import (
	"context"
	"regexp"

	"github.com/gh-release-changelog/gh-release-changelog/internal/logging"
	"github.com/gh-release-changelog/gh-release-changelog/internal/repoinfo"
	"github.com/gh-release-changelog/gh-release-changelog/internal/semtag"
)

// TagLister returns the tags of a GitHub repository in API order, oldest
// first.
type TagLister interface {
	ListTags(ctx context.Context, owner, repo string) ([]string, error)
}

// MatchTag searches tags from the most recent one for the tag of version.
// When name is set only "name@version" qualifies, otherwise an optional
// v/V prefix is accepted.
func MatchTag(tags []string, name, version string) (string, bool) {
	var pattern *regexp.Regexp
	if name != "" {
		pattern = regexp.MustCompile("^" + regexp.QuoteMeta(name+"@"+version) + "$")
	} else {
		pattern = regexp.MustCompile("^[vV]?" + regexp.QuoteMeta(version) + "$")
	}

	for i := len(tags) - 1; i >= 0; i-- {
		if pattern.MatchString(tags[i]) {
			return tags[i], true
		}
	}
	return "", false
}

// inferFromTag resolves the tag of the release whose heading ended the
// scan. Lookup failures are logged and yield no tag.
func inferFromTag(ctx context.Context, lister TagLister, log logging.Logger, repo repoinfo.Info, tag, boundary string) string {
	prev, ok := semtag.Parse(boundary)
	if !ok {
		return ""
	}
	target, _ := semtag.Parse(tag)

	tags, err := lister.ListTags(ctx, repo.Owner, repo.Name)
	if err != nil {
		log.Warnf("Listing tags of %s failed: %v", repo, err)
		return ""
	}

	if match, ok := MatchTag(tags, target.Name, prev.Version); ok {
		log.Infof("Inferred fromTag %q from %s", match, prev.Version)
		return match
	}
	log.Warnf("Inferred fromTag failed from version %s (searched %d tags)", prev.Version, len(tags))
	return ""
}
