package application

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withTempConfigFile(t *testing.T, action func(filename string)) {
	t.Helper()
	filename := filepath.Join(t.TempDir(), "config.conf")
	require.NoError(t, os.WriteFile(filename, nil, 0600))
	action(filename)
}

func TestReadOptions(t *testing.T) {
	t.Run("default config file path", func(t *testing.T) {
		_, err := ReadOptions(nil)
		require.Error(t, err)
		assert.Equal(t, errConfigFileNotFound(DefaultConfigPath), err)
	})

	t.Run("allow missing file with default path", func(t *testing.T) {
		opts, err := ReadOptions([]string{"--allow-missing-file"})
		require.NoError(t, err)
		assert.Equal(t, "", opts.ConfigFile)
		assert.False(t, opts.UseEnvironment)
	})

	t.Run("custom config file", func(t *testing.T) {
		withTempConfigFile(t, func(filename string) {
			opts, err := ReadOptions([]string{"--config", filename})
			require.NoError(t, err)
			assert.Equal(t, filename, opts.ConfigFile)
			assert.False(t, opts.UseEnvironment)
			assert.Equal(t, "configuration file "+filename, opts.DescribeConfigSource())
		})
	})

	t.Run("version", func(t *testing.T) {
		// --version skips the config file check entirely
		opts, err := ReadOptions([]string{"--version"})
		require.NoError(t, err)
		assert.True(t, opts.PrintVersion)
		assert.Equal(t, "", opts.ConfigFile)
	})

	t.Run("environment only", func(t *testing.T) {
		opts, err := ReadOptions([]string{"--from-env"})
		require.NoError(t, err)
		assert.Equal(t, "", opts.ConfigFile)
		assert.True(t, opts.UseEnvironment)
		assert.Equal(t, "configuration from environment variables", opts.DescribeConfigSource())
	})

	t.Run("environment plus config file", func(t *testing.T) {
		withTempConfigFile(t, func(filename string) {
			opts, err := ReadOptions([]string{"--config", filename, "--from-env"})
			require.NoError(t, err)
			assert.Equal(t, filename, opts.ConfigFile)
			assert.True(t, opts.UseEnvironment)
			assert.Equal(t, "configuration file "+filename+" plus environment variables", opts.DescribeConfigSource())
		})
	})

	t.Run("invalid options", func(t *testing.T) {
		_, err := ReadOptions([]string{"--unknown"})
		assert.Error(t, err)
	})
}
