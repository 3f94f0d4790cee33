package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig(t *testing.T) {
	testCases := []struct {
		name    string
		cfg     Config
		want    func(t *testing.T, c *Config)
		wantErr string
	}{
		{
			name: "defaults",
			cfg:  Config{},
			want: func(t *testing.T, c *Config) {
				assert.Equal(t, CommandBuild, c.Command)
				assert.Equal(t, FormatHTML, c.Format)
				assert.False(t, c.keepsRunning())
			},
		},
		{
			name: "watch keeps running",
			cfg:  Config{Watch: true},
			want: func(t *testing.T, c *Config) { assert.True(t, c.keepsRunning()) },
		},
		{
			name: "render",
			cfg:  Config{Command: CommandRender, TemplatePath: "x.tmpl"},
			want: func(t *testing.T, c *Config) { assert.Equal(t, "x.tmpl", c.TemplatePath) },
		},
		{name: "unknown command", cfg: Config{Command: "serve"}, wantErr: `unknown command "serve"`},
		{name: "unknown format", cfg: Config{Format: "toml"}, wantErr: `invalid format "toml"`},
		{name: "render without template", cfg: Config{Command: CommandRender}, wantErr: "requires a template path"},
		{name: "render with watch", cfg: Config{Command: CommandRender, TemplatePath: "x", Watch: true}, wantErr: "build only"},
		{name: "bad port", cfg: Config{Port: 70000}, wantErr: "invalid port"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := NewConfig(tc.cfg)

			if tc.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.wantErr)
				return
			}
			require.NoError(t, err)
			tc.want(t, got)
		})
	}
}

func TestParseLevel(t *testing.T) {
	for _, name := range LogLevels {
		_, err := ParseLevel(name)
		assert.NoError(t, err, name)
	}
	_, err := ParseLevel("verbose")
	assert.Error(t, err)
}
