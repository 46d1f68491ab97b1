package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/blacktop/introspect/pkg/arch"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`arch: arm64e
symbols:
  load-address: 0x200000000
  defined: true
  limit: 25
`), 0o644))

	v := viper.New()
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())

	c, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, "arm64e", c.Arch)
	assert.Equal(t, arch.ARM64e, c.Target())
	assert.Equal(t, uint64(0x200000000), c.Symbols.LoadAddress)
	assert.True(t, c.Symbols.Defined)
	assert.Equal(t, 25, c.Symbols.Limit)
}

func TestLoadDefaults(t *testing.T) {
	c, err := Load(viper.New())
	require.NoError(t, err)
	assert.Empty(t, c.Arch)
	assert.Equal(t, arch.Current(), c.Target())
	assert.Zero(t, c.Symbols.Limit)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		set  map[string]any
	}{
		{"unknown arch", map[string]any{"arch": "sparc"}},
		{"negative limit", map[string]any{"symbols.limit": -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := viper.New()
			for k, val := range tt.set {
				v.Set(k, val)
			}
			_, err := Load(v)
			assert.Error(t, err)
		})
	}
}
