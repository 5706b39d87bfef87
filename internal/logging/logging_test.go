package logging

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConsole(t *testing.T) {
	tests := map[string]struct {
		opts     ConsoleOptions
		log      func(l Logger)
		expected string
	}{
		"info written": {
			log:      func(l Logger) { l.Infof("Run in %s", "monorepo") },
			expected: "Run in monorepo\n",
		},
		"quiet drops info": {
			opts:     ConsoleOptions{Quiet: true},
			log:      func(l Logger) { l.Infof("hidden") },
			expected: "",
		},
		"quiet keeps warnings": {
			opts:     ConsoleOptions{Quiet: true},
			log:      func(l Logger) { l.Warnf("releaseNote is empty") },
			expected: "Warning: releaseNote is empty\n",
		},
		"debug disabled by default": {
			log:      func(l Logger) { l.Debugf("x") },
			expected: "",
		},
		"debug enabled": {
			opts:     ConsoleOptions{Debug: true},
			log:      func(l Logger) { l.Debugf("tags=%d", 3) },
			expected: "[debug] tags=3\n",
		},
		"error label": {
			log:      func(l Logger) { l.Errorf("boom") },
			expected: "Error: boom\n",
		},
		"trailing newline trimmed": {
			log:      func(l Logger) { l.Infof("line\n") },
			expected: "line\n",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.opts.NoColor = true
			tt.log(NewConsole(&buf, tt.opts))
			assert.Equal(t, tt.expected, buf.String())
		})
	}
}

func TestActions(t *testing.T) {
	var buf bytes.Buffer
	l := NewActions(&buf)

	l.Infof("Creating release %s", "v1.0.0")
	l.Warnf("Inferred fromTag failed\n100%% sure")
	l.Errorf("bad")
	l.Debugf("dbg")

	assert.Equal(t,
		"Creating release v1.0.0\n"+
			"::warning::Inferred fromTag failed%0A100%25 sure\n"+
			"::error::bad\n"+
			"::debug::dbg\n",
		buf.String())
}

func TestFromEnv(t *testing.T) {
	env := map[string]string{"GITHUB_ACTIONS": "true"}
	getenv := func(k string) string { return env[k] }

	assert.IsType(t, &Actions{}, FromEnv(nil, getenv, ConsoleOptions{}))

	delete(env, "GITHUB_ACTIONS")
	assert.IsType(t, &Console{}, FromEnv(nil, getenv, ConsoleOptions{}))
}

func TestOrNop(t *testing.T) {
	assert.NotPanics(t, func() {
		OrNop(nil).Warnf("ignored")
	})
	c := NewConsole(nil, ConsoleOptions{})
	assert.Same(t, c, OrNop(c))
}
