package root_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"fjacquet/budget-buddy/cmd/root"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand_Metadata(t *testing.T) {
	assert.Equal(t, "budget-buddy", root.Cmd.Use)
	assert.Contains(t, root.Cmd.Short, "categorize bank transactions")
	assert.Contains(t, root.Cmd.Long, "reads transaction exports")
	assert.NotNil(t, root.Cmd.Run)
	assert.NotNil(t, root.Cmd.PersistentPreRun)
}

func TestRootCommand_Flags(t *testing.T) {
	root.Init()
	root.Init()

	for _, name := range []string{"config", "log-level", "log-format"} {
		flag := root.Cmd.PersistentFlags().Lookup(name)
		require.NotNil(t, flag, name)
		assert.Equal(t, "", flag.DefValue, name)
		assert.NotEmpty(t, flag.Usage, name)
	}
}

func TestRootCommand_Run(t *testing.T) {
	var out bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&out)

	assert.NotPanics(t, func() {
		root.Cmd.Run(cmd, []string{})
	})
	assert.Contains(t, out.String(), "Welcome to budget-buddy!")
}

func TestLoadConfig_FlagOverrides(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "budget-buddy.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte("log:\n  level: warn\n"), 0644))

	original := root.Flags
	t.Cleanup(func() { root.Flags = original })

	root.Flags = root.GlobalFlags{ConfigFile: configFile}
	cfg, err := root.LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Log.Level)

	root.Flags = root.GlobalFlags{ConfigFile: configFile, LogLevel: "debug", LogFormat: "json"}
	cfg, err = root.LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)

	root.Flags = root.GlobalFlags{ConfigFile: configFile, LogFormat: "xml"}
	_, err = root.LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log format")
}

func TestNewContainer(t *testing.T) {
	dir := t.TempDir()
	configFile := filepath.Join(dir, "budget-buddy.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte("paths:\n  categories_file: "+filepath.Join(dir, "categories.yaml")+"\n"), 0644))

	original := root.Flags
	t.Cleanup(func() { root.Flags = original })
	root.Flags = root.GlobalFlags{ConfigFile: configFile}

	cfg, err := root.LoadConfig()
	require.NoError(t, err)

	c, err := root.NewContainer(&cobra.Command{}, cfg)
	require.NoError(t, err)
	assert.Same(t, cfg, c.GetConfig())
	assert.NoError(t, c.Close())
}
