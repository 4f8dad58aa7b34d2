package main

import (
	"flag"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func newLogLevelContext(t *testing.T, level string) *cli.Context {
	t.Helper()

	set := flag.NewFlagSet("test", flag.ContinueOnError)
	set.String("log-level", "", "")
	require.NoError(t, set.Set("log-level", level))
	return cli.NewContext(nil, set, nil)
}

func TestSetupLogger(t *testing.T) {
	original := slog.Default()
	t.Cleanup(func() { slog.SetDefault(original) })

	t.Run("valid levels", func(t *testing.T) {
		for _, level := range []string{"debug", "info", "warn", "error", "DEBUG", "Info"} {
			assert.NoError(t, setupLogger(newLogLevelContext(t, level)), level)
		}
	})

	t.Run("invalid level", func(t *testing.T) {
		err := setupLogger(newLogLevelContext(t, "verbose"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid log level")
	})
}

func TestAIFlagDefaults(t *testing.T) {
	var hostFlag, modelFlag *cli.StringFlag
	for _, f := range aiFlags() {
		if sf, ok := f.(*cli.StringFlag); ok {
			switch sf.Name {
			case "embedding-host":
				hostFlag = sf
			case "chat-model":
				modelFlag = sf
			}
		}
	}

	require.NotNil(t, hostFlag)
	assert.Equal(t, "http://localhost:11434/v1", hostFlag.Value)
	require.NotNil(t, modelFlag)
	assert.Equal(t, "qwen2.5:3b", modelFlag.Value)
}
