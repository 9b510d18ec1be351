package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matryer/is"
)

func writeFile(t *testing.T, name string, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}

	return path
}

func TestLoad_Defaults(t *testing.T) {
	is := is.New(t)

	cfg, err := Load(LoaderOptions{EnvPrefix: "AFTEST_DEFAULTS"})
	is.NoErr(err)

	is.Equal(cfg, &Config{Logging: Logging{Level: "info", Format: "json"}})
}

func TestLoad_File(t *testing.T) {
	is := is.New(t)

	path := writeFile(t, "config.yaml", `
autoescape: true
enable_async: true
logging:
  level: debug
  format: console
  no_color: true
`)

	cfg, err := Load(LoaderOptions{ConfigFile: path})
	is.NoErr(err)

	is.True(cfg.Autoescape)
	is.True(cfg.EnableAsync)
	is.Equal(cfg.Logging, Logging{Level: "debug", Format: "console", NoColor: true})
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	is := is.New(t)

	path := writeFile(t, "config.yaml", "enable_async: false\nlogging:\n  level: debug\n")

	t.Setenv("ASYNCFILTERS_ENABLE_ASYNC", "true")
	t.Setenv("ASYNCFILTERS_LOGGING_LEVEL", "warn")

	cfg, err := Load(LoaderOptions{ConfigFile: path})
	is.NoErr(err)

	is.True(cfg.EnableAsync)
	is.Equal(cfg.Logging.Level, "warn")
}

func TestLoad_EnvFile(t *testing.T) {
	is := is.New(t)

	path := writeFile(t, ".env", "AFTEST_ENV_AUTOESCAPE=true\n")

	t.Cleanup(func() {
		_ = os.Unsetenv("AFTEST_ENV_AUTOESCAPE")
	})

	cfg, err := Load(LoaderOptions{EnvFile: path, EnvPrefix: "AFTEST_ENV"})
	is.NoErr(err)

	is.True(cfg.Autoescape)
}

func TestLoad_Errors(t *testing.T) {
	is := is.New(t)

	_, err := Load(LoaderOptions{ConfigFile: filepath.Join(t.TempDir(), "missing.yaml")})
	is.True(err != nil)

	_, err = Load(LoaderOptions{EnvFile: filepath.Join(t.TempDir(), "missing.env")})
	is.True(err != nil)

	path := writeFile(t, "config.yaml", "logging:\n  format: xml\n")

	_, err = Load(LoaderOptions{ConfigFile: path})
	is.True(err != nil)
	is.True(strings.Contains(err.Error(), "logging.format"))
}

func TestValidate(t *testing.T) {
	is := is.New(t)

	cfg := &Config{}
	cfg.ApplyDefaults()
	is.NoErr(cfg.Validate())

	cfg.Logging.Level = "loud"
	is.True(cfg.Validate() != nil)
}

func TestNewLogger(t *testing.T) {
	is := is.New(t)

	buf := bytes.Buffer{}

	logger := NewLogger(Logging{Level: "warn", Format: "json"}, &buf)

	logger.Info().Msg("hidden")
	logger.Warn().Msg("shown")

	is.True(!strings.Contains(buf.String(), "hidden"))
	is.True(strings.Contains(buf.String(), `"message":"shown"`))
	is.True(strings.Contains(buf.String(), `"component":"asyncfilters"`))

	buf.Reset()

	logger = NewLogger(Logging{Level: "nonsense", Format: "console", NoColor: true}, &buf)
	logger.Debug().Msg("hidden")
	logger.Info().Msg("plain")

	is.True(!strings.Contains(buf.String(), "hidden"))
	is.True(strings.Contains(buf.String(), "plain"))
}
