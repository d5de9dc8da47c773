package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"plot-lasso/src/hotkey"
)

const (
	EnvFileEnvVar = "PLOT_LASSO_ENV"

	StrategyAuto = "auto"
	StrategyXY   = "xy"

	ReportNone      = "none"
	ReportStdout    = "stdout"
	ReportClipboard = "clipboard"

	KeySourceWindow = "window"
	KeySourceGlobal = "global"
)

type LoadOptions struct {
	ModifiersOverride string
	StrategyOverride  string
	ReportOverride    string
	KeySourceOverride string
	FigureOverride    string
	LuaOverride       string
}

type Config struct {
	Modifiers []string

	LassoColor     string
	LassoLineStyle string
	LassoLineWidth float64

	MarkerColor  string
	MarkerSymbol string
	MarkerSize   float64

	Strategy  string
	Report    string
	KeySource string

	FigureFile string
	LuaHandler string

	EnableFileLogging bool
	LogLevel          string

	// EnvFile is the .env file that was loaded, if any.
	EnvFile string
}

func Load() (*Config, error) {
	return LoadWithOptions(LoadOptions{})
}

func LoadWithOptions(opts LoadOptions) (*Config, error) {
	// Load configuration from sources in priority order:
	// 1) .env in the application (executable) directory
	// 2) If not found, use PLOT_LASSO_ENV as a path to a config file
	// Variables already set in the environment win over the file.
	envPath := resolveEnvPath()
	dotenvValues := readDotenvValues(envPath)
	if envPath != "" {
		_ = godotenv.Load(envPath)
	}

	modifiers, err := hotkey.ParseModifiers(override(opts.ModifiersOverride, os.Getenv("LASSO_MODIFIERS")))
	if err != nil {
		return nil, fmt.Errorf("LASSO_MODIFIERS: %w", err)
	}

	strategy, err := oneOf("SELECTION_STRATEGY", override(opts.StrategyOverride, os.Getenv("SELECTION_STRATEGY")),
		StrategyAuto, StrategyAuto, StrategyXY)
	if err != nil {
		return nil, err
	}
	report, err := oneOf("REPORT_TARGET", override(opts.ReportOverride, os.Getenv("REPORT_TARGET")),
		ReportNone, ReportNone, ReportStdout, ReportClipboard)
	if err != nil {
		return nil, err
	}
	keySource, err := oneOf("KEY_SOURCE", override(opts.KeySourceOverride, os.Getenv("KEY_SOURCE")),
		KeySourceWindow, KeySourceWindow, KeySourceGlobal)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Modifiers:         modifiers,
		LassoColor:        getEnvWithDefault("LASSO_COLOR", "k"),
		LassoLineStyle:    getEnvWithDefault("LASSO_LINESTYLE", ":"),
		LassoLineWidth:    getPositiveFloat("LASSO_LINEWIDTH", 1),
		MarkerColor:       getEnvWithDefault("MARKER_COLOR", "r"),
		MarkerSymbol:      getEnvWithDefault("MARKER_SYMBOL", "x"),
		MarkerSize:        getPositiveFloat("MARKER_SIZE", 6),
		Strategy:          strategy,
		Report:            report,
		KeySource:         keySource,
		FigureFile:        resolveFigureFile(opts, envPath, dotenvValues),
		LuaHandler:        override(opts.LuaOverride, os.Getenv("LUA_HANDLER")),
		EnableFileLogging: strings.ToLower(os.Getenv("ENABLE_FILE_LOGGING")) == "true",
		LogLevel:          strings.ToLower(getEnvWithDefault("LOG_LEVEL", "info")),
		EnvFile:           envPath,
	}

	return cfg, nil
}

func resolveEnvPath() string {
	execPath, err := os.Executable()
	if err != nil {
		return ""
	}

	execDir := filepath.Dir(execPath)
	exeEnv := filepath.Join(execDir, ".env")
	if _, err := os.Stat(exeEnv); err == nil {
		return exeEnv
	}

	if alt := os.Getenv(EnvFileEnvVar); alt != "" {
		if _, err := os.Stat(alt); err == nil {
			return alt
		}
	}

	return ""
}

func readDotenvValues(envPath string) map[string]string {
	if envPath == "" {
		return map[string]string{}
	}

	values, err := godotenv.Read(envPath)
	if err != nil {
		return map[string]string{}
	}

	return values
}

// resolveFigureFile interprets a relative FIGURE_FILE from the .env file
// relative to that file's directory.
func resolveFigureFile(opts LoadOptions, envPath string, dotenvValues map[string]string) string {
	if o := strings.TrimSpace(opts.FigureOverride); o != "" {
		return o
	}

	path := strings.TrimSpace(os.Getenv("FIGURE_FILE"))
	if path == "" {
		return ""
	}
	if fromFile := strings.TrimSpace(dotenvValues["FIGURE_FILE"]); fromFile == path && !filepath.IsAbs(path) && envPath != "" {
		return filepath.Join(filepath.Dir(envPath), path)
	}
	return path
}

func override(flag, env string) string {
	if v := strings.TrimSpace(flag); v != "" {
		return v
	}
	return strings.TrimSpace(env)
}

func oneOf(name, value, def string, allowed ...string) (string, error) {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return def, nil
	}
	for _, a := range allowed {
		if value == a {
			return value, nil
		}
	}
	return "", fmt.Errorf("%s: unsupported value %q (want one of %s)", name, value, strings.Join(allowed, ", "))
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getPositiveFloat(key string, defaultValue float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			return f
		}
	}
	return defaultValue
}
