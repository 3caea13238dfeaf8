package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexcabrera/pickr/internal/option"
	"github.com/alexcabrera/pickr/internal/paths"
	"github.com/alexcabrera/pickr/internal/ui/styles"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, paths.LogFile(), cfg.LogFile)
	assert.False(t, cfg.LoggingDisabled())
	enabled, order, err := cfg.SortOrder()
	require.NoError(t, err)
	assert.True(t, enabled)
	assert.Equal(t, option.Asc, order)
	assert.NotEmpty(t, cfg.EmptyText)
	assert.NotEmpty(t, cfg.SearchPlaceholder)
}

func TestLoadMissing(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadOverrides(t *testing.T) {
	path := writeConfig(t, `
placeholder: Pick one
sort: desc
search: true
floating: true
log_file: ""
theme:
  primary: "#ff0000"
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Pick one", cfg.Placeholder)
	assert.True(t, cfg.Search)
	assert.True(t, cfg.Floating)
	assert.Equal(t, Default().EmptyText, cfg.EmptyText, "unset fields should keep defaults")
	assert.Equal(t, paths.LogFile(), cfg.LogFile, "empty log file should fall back to the default")

	_, order, _ := cfg.SortOrder()
	assert.Equal(t, option.Desc, order)

	th := cfg.StyleTheme()
	assert.Equal(t, lipgloss.Color("#ff0000"), th.Primary)
	assert.Equal(t, styles.DefaultTheme().Text, th.Text, "unset colors should keep the default")
}

func TestLoadLoggingOff(t *testing.T) {
	cfg, err := Load(writeConfig(t, "log_file: \"OFF\"\n"))
	require.NoError(t, err)
	assert.True(t, cfg.LoggingDisabled())
}

func TestLoadSortNone(t *testing.T) {
	cfg, err := Load(writeConfig(t, "sort: none\n"))
	require.NoError(t, err)
	enabled, _, _ := cfg.SortOrder()
	assert.False(t, enabled, "sort none should disable sorting")
}

func TestLoadInvalid(t *testing.T) {
	_, err := Load(writeConfig(t, "sort: sideways\n"))
	assert.ErrorIs(t, err, ErrSort)

	_, err = Load(writeConfig(t, "search: [\n"))
	assert.Error(t, err)
}

func TestCheckVersion(t *testing.T) {
	tests := []struct {
		name     string
		requires string
		version  string
		wantErr  bool
	}{
		{"no constraint", "", "0.1.0", false},
		{"devel build", ">= 9.0.0", "devel", false},
		{"satisfied", ">= 0.2.0", "0.3.1", false},
		{"too old", ">= 0.2.0", "0.1.9", true},
		{"bad constraint", "not a constraint", "0.1.0", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Config{Requires: tt.requires}.CheckVersion(tt.version)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}

	var verr *VersionError
	err := Config{Requires: ">= 1.0.0"}.CheckVersion("0.5.0")
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "0.5.0", verr.Found)
}
