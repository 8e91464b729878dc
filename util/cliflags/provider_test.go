package cliflags

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func TestProvider(t *testing.T) {
	var got map[string]any

	app := &cli.App{
		Name: "test",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "log-level"},
			&cli.BoolFlag{Name: "enable"},
			&cli.StringFlag{Name: "executable"},
			&cli.DurationFlag{Name: "graceful-timeout"},
			&cli.IntFlag{Name: "port", Value: 8080},
		},
		Action: func(ctx *cli.Context) error {
			cliMap := map[string]string{
				"enable":           "settings.enable_service",
				"executable":       "settings.executable_path",
				"graceful-timeout": "gateway.graceful_timeout",
			}

			var err error
			got, err = Provider(ctx, ".", func(s string) string {
				if name, ok := cliMap[s]; ok {
					return name
				}
				return strings.ReplaceAll(s, "-", "_")
			}).Read()
			return err
		},
	}

	err := app.Run([]string{"test", "--log-level", "debug", "--enable", "--executable", "/opt/gw", "--graceful-timeout", "2s"})
	require.NoError(t, err)

	assert.Equal(t, "debug", got["log_level"])
	assert.Equal(t, map[string]any{
		"enable_service":  true,
		"executable_path": "/opt/gw",
	}, got["settings"])
	assert.Equal(t, map[string]any{"graceful_timeout": 2 * time.Second}, got["gateway"])

	// flags left at their defaults are not provided
	assert.NotContains(t, got, "port")
}

func TestProvider_ReadBytes(t *testing.T) {
	_, err := (&CLIFlags{}).ReadBytes()
	assert.Error(t, err)
}
