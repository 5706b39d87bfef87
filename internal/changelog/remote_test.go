package changelog

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gh-release-changelog/gh-release-changelog/internal/repoinfo"
)

// fakeTags is a TagLister serving a fixed tag list.
type fakeTags struct {
	tags  []string
	err   error
	calls []string
}

func (f *fakeTags) ListTags(_ context.Context, owner, repo string) ([]string, error) {
	f.calls = append(f.calls, owner+"/"+repo)
	return f.tags, f.err
}

// recordingLogger keeps formatted messages per level.
type recordingLogger struct {
	mu    sync.Mutex
	infos []string
	warns []string
}

func (l *recordingLogger) Debugf(string, ...any) {}

func (l *recordingLogger) Infof(format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.infos = append(l.infos, fmt.Sprintf(format, args...))
}

func (l *recordingLogger) Warnf(format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.warns = append(l.warns, fmt.Sprintf(format, args...))
}

func (l *recordingLogger) Errorf(string, ...any) {}

func TestMatchTag(t *testing.T) {
	tests := map[string]struct {
		tags      []string
		name      string
		version   string
		wantTag   string
		wantFound bool
	}{
		"bare version": {
			tags:      []string{"0.9.0", "1.0.0"},
			version:   "1.0.0",
			wantTag:   "1.0.0",
			wantFound: true,
		},
		"v prefix": {
			tags:      []string{"v1.0.0", "v1.1.0"},
			version:   "1.0.0",
			wantTag:   "v1.0.0",
			wantFound: true,
		},
		"most recent wins": {
			tags:      []string{"1.0.0", "v1.0.0"},
			version:   "1.0.0",
			wantTag:   "v1.0.0",
			wantFound: true,
		},
		"package tag": {
			tags:      []string{"pkg@1.5.0", "other@1.5.0", "v1.5.0"},
			name:      "pkg",
			version:   "1.5.0",
			wantTag:   "pkg@1.5.0",
			wantFound: true,
		},
		"scoped package tag": {
			tags:      []string{"@scope/pkg@1.5.0"},
			name:      "@scope/pkg",
			version:   "1.5.0",
			wantTag:   "@scope/pkg@1.5.0",
			wantFound: true,
		},
		"package name requires package tag": {
			tags:    []string{"v1.5.0", "1.5.0"},
			name:    "pkg",
			version: "1.5.0",
		},
		"version is matched literally": {
			tags:    []string{"1x0x0", "v1.0.0-beta"},
			version: "1.0.0",
		},
		"no tags": {
			version: "1.0.0",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			tag, found := MatchTag(tt.tags, tt.name, tt.version)
			assert.Equal(t, tt.wantFound, found)
			assert.Equal(t, tt.wantTag, tag)
		})
	}
}

func TestInferFromTag(t *testing.T) {
	repo := repoinfo.Info{Owner: "o", Name: "r"}

	tests := map[string]struct {
		lister    *fakeTags
		tag       string
		boundary  string
		want      string
		wantInfos int
		wantWarns int
	}{
		"inferred from boundary version": {
			lister:    &fakeTags{tags: []string{"v0.9.0", "v1.0.0"}},
			tag:       "v1.0.0",
			boundary:  "0.9.0 (2024-01-01)",
			want:      "v0.9.0",
			wantInfos: 1,
		},
		"package tag": {
			lister:    &fakeTags{tags: []string{"pkg@1.5.0", "pkg@2.0.0"}},
			tag:       "pkg@2.0.0",
			boundary:  "pkg@1.5.0",
			want:      "pkg@1.5.0",
			wantInfos: 1,
		},
		"no matching tag": {
			lister:    &fakeTags{tags: []string{"v2.0.0"}},
			tag:       "v2.0.0",
			boundary:  "1.0.0",
			wantWarns: 1,
		},
		"lister failure": {
			lister:    &fakeTags{err: errors.New("rate limited")},
			tag:       "v2.0.0",
			boundary:  "1.0.0",
			wantWarns: 1,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			log := &recordingLogger{}
			got := inferFromTag(context.Background(), tt.lister, log, repo, tt.tag, tt.boundary)

			assert.Equal(t, tt.want, got)
			assert.Equal(t, []string{"o/r"}, tt.lister.calls)
			assert.Len(t, log.infos, tt.wantInfos)
			assert.Len(t, log.warns, tt.wantWarns)
		})
	}
}
