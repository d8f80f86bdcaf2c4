package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	for _, format := range []string{"", "console", "json", "pretty"} {
		t.Run(format, func(t *testing.T) {
			root, err := New("debug", format)
			require.NoError(t, err)
			require.NotNil(t, root)

			child := Named(root, GitHub)
			require.NotNil(t, child)
			child.Debug("logger ready", "format", format)
		})
	}
}

func TestNew_UnsupportedFormat(t *testing.T) {
	_, err := New("info", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported format")
}

func TestNormalizeLevel(t *testing.T) {
	assert.Equal(t, "", normalizeLevel("loud"))
	assert.Equal(t, normalizeLevel("warn"), normalizeLevel("WARNING"))
	assert.NotEmpty(t, normalizeLevel(" info "))
}

func TestNamedWithoutRoot(t *testing.T) {
	l := Named(nil, Site)
	require.NotNil(t, l)
	l.Info("discarded")
	assert.Equal(t, Nop(), l.WithFields(map[string]any{"k": "v"}))
}

func TestOrNop(t *testing.T) {
	assert.Equal(t, Nop(), OrNop(nil))
	root, err := New("info", "console")
	require.NoError(t, err)
	assert.NotEqual(t, Nop(), OrNop(root))
}
