package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cheru-app/cheru/internal/index"
	"github.com/cheru-app/cheru/internal/security"
)

func TestStripFieldCodes(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"firefox %u", "firefox"},
		{"nautilus --new-window %U", "nautilus --new-window"},
		{"gimp-2.10 %F", "gimp-2.10"},
		{"plain-command", "plain-command"},
		{"%f", ""},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, stripFieldCodes(tt.in), "in=%q", tt.in)
	}
}

func TestLaunch_CalculatorIsNoOp(t *testing.T) {
	eng := newTestEngine(t, t.TempDir(), nil, nil, nil)
	assert.NoError(t, eng.Launch(Result{Name: "= 5", Exec: "calc:5", Kind: index.KindCalculator}))
}

func TestLaunch_AppOutsideAllowlistDenied(t *testing.T) {
	eng := newTestEngine(t, t.TempDir(), nil, nil, nil)

	err := eng.Launch(Result{Name: "evil", Exec: "/tmp/evil %u", Kind: index.KindApp})
	require.Error(t, err)
	assert.True(t, security.IsDenied(err))
}

func TestLaunch_FolderOutsideHomeDenied(t *testing.T) {
	eng := newTestEngine(t, t.TempDir(), nil, nil, nil)

	err := eng.Launch(Result{Name: "etc", Exec: "/etc", Kind: index.KindFolder})
	require.Error(t, err)
	assert.True(t, security.IsDenied(err))
}

func TestLaunch_UnknownSystemCommand(t *testing.T) {
	eng := newTestEngine(t, t.TempDir(), nil, nil, nil)
	assert.Error(t, eng.Launch(Result{Name: "bogus", Exec: "system:bogus", Kind: index.KindSystem}))
}

func TestWebSearchResult_EscapesQuery(t *testing.T) {
	result := webSearchResult("hello world & more", "https://www.google.com/search?q=")
	assert.Equal(t, "https://www.google.com/search?q=hello+world+%26+more", result.Exec)
	assert.Equal(t, index.KindWebSearch, result.Kind)
}

func TestSystemResults_StableOrder(t *testing.T) {
	first := systemResults()
	second := systemResults()
	assert.Equal(t, first, second)
	for _, result := range first {
		assert.Equal(t, index.KindSystem, result.Kind)
		assert.NotEmpty(t, result.Exec)
	}
}
