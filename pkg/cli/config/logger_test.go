package config_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/m-mizutani/artifact-release/pkg/cli/config"
)

func TestLogger_Configure(t *testing.T) {
	tests := []struct {
		level   string
		wantErr bool
	}{
		{level: "debug"},
		{level: "DEBUG"},
		{level: "info"},
		{level: "Info"},
		{level: "warn"},
		{level: "WARN"},
		{level: "error"},
		{level: "ERROR"},
		{level: "invalid", wantErr: true},
		{level: "", wantErr: true},
		{level: "warning", wantErr: true},
	}

	for _, tt := range tests {
		t.Run("level="+tt.level, func(t *testing.T) {
			logger, err := (&config.Logger{Level: tt.level, Output: &bytes.Buffer{}}).Configure()
			if tt.wantErr {
				gt.Error(t, err)
				gt.String(t, err.Error()).Contains("invalid log level")
				return
			}
			gt.NoError(t, err)
			gt.Value(t, logger).NotNil()
		})
	}
}

func TestLogger_Configure_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	logger, err := (&config.Logger{Level: "warn", Output: &buf}).Configure()
	gt.NoError(t, err)

	logger.Info("hidden message")
	logger.Warn("visible message")

	gt.Value(t, bytes.Contains(buf.Bytes(), []byte("hidden message"))).Equal(false)
	gt.String(t, buf.String()).Contains("visible message")
}

func TestLogger_Configure_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger, err := (&config.Logger{Level: "info", JSON: true, Output: &buf}).Configure()
	gt.NoError(t, err)

	logger.Info("test log message", "release_id", 55)

	var record map[string]any
	gt.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	gt.Value(t, record["msg"]).Equal("test log message")
	gt.Value(t, record["release_id"]).Equal(float64(55))
}

func TestLogger_Configure_RedactsSecrets(t *testing.T) {
	var buf bytes.Buffer
	logger, err := (&config.Logger{Level: "info", JSON: true, Output: &buf}).Configure()
	gt.NoError(t, err)

	logger.Info("config", "github", config.GitHub{
		Repository: "octo/repo",
		Token:      "ghp_very_secret_token",
	})

	gt.Value(t, bytes.Contains(buf.Bytes(), []byte("ghp_very_secret_token"))).Equal(false)
	gt.String(t, buf.String()).Contains("octo/repo")
}

func TestLogger_Flags(t *testing.T) {
	flags := (&config.Logger{}).Flags()
	gt.A(t, flags).Length(2)

	var names []string
	for _, flag := range flags {
		if f, ok := flag.(interface{ Names() []string }); ok {
			names = append(names, f.Names()[0])
		}
	}
	gt.Value(t, names).Equal([]string{"log-level", "log-json"})
}
