package quiz

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog(t *testing.T) {
	c := DefaultCatalog()
	assert.Len(t, c.Tones, 50)
	assert.Len(t, c.Reasons, 20)
	assert.Len(t, c.Frameworks, 13)

	assert.Equal(t, "Sarcasm", c.Tones[0])
	assert.Equal(t, "Detached", c.Tones[49])
	assert.Equal(t, "faster development time", c.Reasons[0])
	assert.Equal(t, "support for RESTful APIs", c.Reasons[19])
	assert.Contains(t, c.Frameworks, "Nordcraft")
}

func TestCatalog_Periodicity(t *testing.T) {
	c := DefaultCatalog()
	for _, n := range []int64{0, 1, 7, 19, 49, 123, 1 << 40} {
		assert.Equal(t, c.Tone(n), c.Tone(n+50), "tone period for n=%d", n)
		assert.Equal(t, c.Reason(n), c.Reason(n+20), "reason period for n=%d", n)
	}
}

func TestCatalog_Selection(t *testing.T) {
	c := DefaultCatalog()
	tests := []struct {
		n      int64
		tone   string
		reason string
	}{
		{0, "Sarcasm", "faster development time"},
		{3, "Formal", "easy integration with databases"},
		{20, "Angry", "faster development time"},
		{50, "Sarcasm", "faster development time"},
		{-1, "Detached", "support for RESTful APIs"},
		{-20, "Whimsical", "faster development time"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.tone, c.Tone(tt.n), "Tone(%d)", tt.n)
		assert.Equal(t, tt.reason, c.Reason(tt.n), "Reason(%d)", tt.n)
	}
}

func TestParseCatalog_RejectsEmptyLists(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"no tones", "reasons: [a]\nframeworks: [b]\n"},
		{"no reasons", "tones: [a]\nframeworks: [b]\n"},
		{"no frameworks", "tones: [a]\nreasons: [b]\n"},
		{"not yaml", "tones: [a\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCatalog([]byte(tt.yaml))
			require.Error(t, err)
		})
	}
}

func TestLoadCatalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte("tones: [Dry]\nreasons: [speed]\nframeworks: [Svelte, Qwik]\n"), 0o644))

	c, err := LoadCatalog(path)
	require.NoError(t, err)
	assert.Equal(t, "Dry", c.Tone(12345))
	assert.Equal(t, "speed", c.Reason(-7))
	assert.Equal(t, []string{"Svelte", "Qwik"}, c.Frameworks)

	_, err = LoadCatalog(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
