package repoinfo

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRepositoryURL(t *testing.T) {
	tests := map[string]struct {
		raw       string
		wantOwner string
		wantName  string
	}{
		"plain owner/repo":       {raw: "imcuttle/gh-release", wantOwner: "imcuttle", wantName: "gh-release"},
		"https":                  {raw: "https://github.com/a/b", wantOwner: "a", wantName: "b"},
		"https with .git":        {raw: "https://github.com/a/b.git", wantOwner: "a", wantName: "b"},
		"https www":              {raw: "https://www.github.com/a/b", wantOwner: "a", wantName: "b"},
		"git+ssh":                {raw: "git+ssh://git@github.com/a/b.git", wantOwner: "a", wantName: "b"},
		"git protocol":           {raw: "git://github.com/a/b.git", wantOwner: "a", wantName: "b"},
		"scp form":               {raw: "git@github.com:a/b.git", wantOwner: "a", wantName: "b"},
		"github shorthand":       {raw: "github:a/b", wantOwner: "a", wantName: "b"},
		"uppercase host":         {raw: "HTTPS://GitHub.com/a/b", wantOwner: "a", wantName: "b"},
		"tree path is truncated": {raw: "https://github.com/a/b/tree/main", wantOwner: "a", wantName: "b"},
		"owner only":             {raw: "solo", wantOwner: "solo", wantName: ""},
		"empty":                  {raw: "  ", wantOwner: "", wantName: ""},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			owner, repo := ParseRepositoryURL(tt.raw)
			assert.Equal(t, tt.wantOwner, owner)
			assert.Equal(t, tt.wantName, repo)
		})
	}
}

func TestResolver_Infer(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "package.json"),
		[]byte(`{"repository": {"url": "git+https://github.com/pkg/from-manifest.git"}}`), 0o644))

	env := func(vars map[string]string) func(string) string {
		return func(k string) string { return vars[k] }
	}

	tests := map[string]struct {
		resolver Resolver
		owner    string
		name     string
		opts     Options
		want     Info
	}{
		"explicit values win": {
			resolver: Resolver{Getenv: env(map[string]string{EnvRepository: "env/repo"})},
			owner:    "me",
			name:     "mine",
			opts:     Options{Cwd: dir},
			want:     Info{Owner: "me", Name: "mine"},
		},
		"partial explicit value is kept as is": {
			resolver: Resolver{Getenv: env(map[string]string{EnvRepository: "env/repo"})},
			owner:    "me",
			opts:     Options{Cwd: dir},
			want:     Info{Owner: "me"},
		},
		"environment before manifest": {
			resolver: Resolver{Getenv: env(map[string]string{EnvRepository: "env/repo"})},
			opts:     Options{Cwd: dir},
			want:     Info{Owner: "env", Name: "repo"},
		},
		"skip environment": {
			resolver: Resolver{Getenv: env(map[string]string{EnvRepository: "env/repo"})},
			opts:     Options{Cwd: dir, SkipEnv: true},
			want:     Info{Owner: "pkg", Name: "from-manifest"},
		},
		"nil getenv falls back to manifest": {
			opts: Options{Cwd: dir},
			want: Info{Owner: "pkg", Name: "from-manifest"},
		},
		"nothing available": {
			opts: Options{Cwd: t.TempDir()},
			want: Info{},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.resolver.Infer(tt.owner, tt.name, tt.opts))
		})
	}
}

func TestResolver_Resolve(t *testing.T) {
	r := Resolver{}

	_, err := r.Resolve("", "", Options{Cwd: t.TempDir()})
	assert.ErrorIs(t, err, ErrOwnerMissing)

	_, err = r.Resolve("owner", "", Options{})
	assert.ErrorIs(t, err, ErrNameMissing)

	info, err := r.Resolve("owner", "repo", Options{})
	require.NoError(t, err)
	assert.Equal(t, "owner/repo", info.String())
}
