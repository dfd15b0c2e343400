package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"PORT", "ALLOWED_ORIGIN", "LOG_LEVEL", "LOG_FORMAT", "SEND_BUFFER"} {
		t.Setenv(k, "")
	}
}

func validConfig() Config {
	return Config{
		Port:          5000,
		AllowedOrigin: "https://play.example.com",
		LogLevel:      "info",
		LogFormat:     "json",
		SendBuffer:    32,
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 5000, cfg.Port)
	assert.Equal(t, "http://localhost:3000", cfg.AllowedOrigin)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 32, cfg.SendBuffer)
}

func TestLoad_CustomValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "8081")
	t.Setenv("ALLOWED_ORIGIN", "https://tic-tac-toe.example.org")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "console")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8081, cfg.Port)
	assert.Equal(t, "https://tic-tac-toe.example.org", cfg.AllowedOrigin)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "console", cfg.LogFormat)
}

func TestLoad_InvalidPort(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "abc")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_ValidationFailure(t *testing.T) {
	clearEnv(t)
	t.Setenv("LOG_LEVEL", "trace")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LOG_LEVEL")
}

func TestValidate_CollectsAllViolations(t *testing.T) {
	cfg := Config{Port: 0, AllowedOrigin: "not a url", LogLevel: "loud", LogFormat: "xml", SendBuffer: 0}

	err := cfg.Validate()
	require.Error(t, err)
	for _, key := range []string{"PORT", "ALLOWED_ORIGIN", "LOG_LEVEL", "LOG_FORMAT", "SEND_BUFFER"} {
		assert.Contains(t, err.Error(), key)
	}
}

func TestValidate_WildcardOrigin(t *testing.T) {
	cfg := validConfig()
	cfg.AllowedOrigin = "*"
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, []string{"*"}, cfg.OriginPatterns())
}

func TestAddr(t *testing.T) {
	assert.Equal(t, ":5000", validConfig().Addr())
}

func TestOriginPatterns(t *testing.T) {
	cfg := validConfig()
	assert.Equal(t, []string{"play.example.com"}, cfg.OriginPatterns())

	cfg.AllowedOrigin = "http://localhost:3000"
	assert.Equal(t, []string{"localhost:3000"}, cfg.OriginPatterns())
}

func TestProperty_PortRange(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		cfg := validConfig()
		cfg.Port = rapid.IntRange(-70000, 70000).Draw(rt, "port")
		err := cfg.Validate()
		if cfg.Port >= 1 && cfg.Port <= 65535 {
			if err != nil {
				rt.Fatalf("port %d rejected: %v", cfg.Port, err)
			}
		} else if err == nil {
			rt.Fatalf("port %d accepted", cfg.Port)
		}
	})
}
