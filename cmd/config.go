package cmd

import (
	"errors"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/natefinch/lumberjack.v2"

	"cobfus.dev/pkg/cobfus/internal/adapter"
)

const (
	configVersionKey     = "version"
	currentConfigVersion = 1

	configBaseName   = "cobfus"
	configFileName   = configBaseName + ".yaml"
	configFolderPath = "."

	levelFlagName       = "level"
	outputFileFlagName  = "output-file"
	diffFlagName        = "diff"
	parallelFlagName    = "parallel"
	reportFlagName      = "report"
	verboseFlagName     = "verbose"
	logFileFlagName     = "log-file"
	levelConfigKey      = "level"
	verifyParallelKey   = "verify.parallel"
	toolchainCompiler   = "toolchain.compiler"
	toolchainStrip      = "toolchain.strip"
	toolchainFlags      = "toolchain.flags"
	toolchainTimeoutKey = "toolchain.timeout"

	defaultLevel          = 0
	defaultVerifyParallel = 1
	defaultCompiler       = "gcc"
	defaultStrip          = "strip"

	envPrefix = "COBFUS"

	logFilenameKey   = "log.filename"
	logLevelKey      = "log.level"
	logVerboseKey    = "log.verbose"
	logMaxSizeKey    = "log.max_size"
	logMaxBackupsKey = "log.max_backups"
	logMaxAgeKey     = "log.max_age"
	logCompressKey   = "log.compress"

	defaultLogFilename   = ".cobfus.log"
	defaultLogLevel      = int(slog.LevelInfo)
	defaultLogVerbose    = false
	defaultLogMaxSize    = 10
	defaultLogMaxBackups = 3
	defaultLogMaxAge     = 28
	defaultLogCompress   = true
)

var globalLogger *slog.Logger

func init() {
	viper.SetConfigName(configBaseName)
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configFolderPath)
	viper.SetConfigFile(filepath.Join(configFolderPath, configFileName))
	viper.AutomaticEnv()
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	viper.SetDefault(configVersionKey, currentConfigVersion)
	viper.SetDefault(levelConfigKey, defaultLevel)
	viper.SetDefault(verifyParallelKey, defaultVerifyParallel)
	viper.SetDefault(toolchainCompiler, defaultCompiler)
	viper.SetDefault(toolchainStrip, defaultStrip)
	viper.SetDefault(toolchainFlags, []string{})
	viper.SetDefault(toolchainTimeoutKey, int64(adapter.DefaultToolchainTimeout.Seconds()))

	// Logging defaults (used by config/env and as fallbacks for flags).
	viper.SetDefault(logFilenameKey, defaultLogFilename)
	viper.SetDefault(logLevelKey, defaultLogLevel)
	viper.SetDefault(logVerboseKey, defaultLogVerbose)
	viper.SetDefault(logMaxSizeKey, defaultLogMaxSize)
	viper.SetDefault(logMaxBackupsKey, defaultLogMaxBackups)
	viper.SetDefault(logMaxAgeKey, defaultLogMaxAge)
	viper.SetDefault(logCompressKey, defaultLogCompress)

	if err := readConfigFile(viper.GetViper()); err != nil {
		slog.Warn("ignoring unreadable config file", "file", configFileName, "error", err)
	}
}

// readConfigFile loads the config file of v. A missing file is not an error.
func readConfigFile(v *viper.Viper) error {
	err := v.ReadInConfig()
	if err == nil {
		return nil
	}

	var notFound viper.ConfigFileNotFoundError
	if errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist) {
		return nil
	}

	return err
}

// toolchainConfig reads the toolchain section of the configuration.
func toolchainConfig() adapter.ToolchainConfig {
	return adapter.ToolchainConfig{
		Compiler: viper.GetString(toolchainCompiler),
		Strip:    viper.GetString(toolchainStrip),
		Flags:    viper.GetStringSlice(toolchainFlags),
		Timeout:  time.Duration(viper.GetInt64(toolchainTimeoutKey)) * time.Second,
	}
}

func parseSlogLevel(value string, defaultLevel slog.Level) slog.Level {
	level := strings.ToLower(strings.TrimSpace(value))
	if level == "" {
		return defaultLevel
	}

	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}

	// Numeric slog levels, e.g. -4 for debug.
	if n, err := strconv.Atoi(level); err == nil {
		return slog.Level(n)
	}

	return defaultLevel
}

// configureLogger configures the global slog logger.
//
// By default it logs at the configured level; if verbose is true it logs at
// Debug.
func configureLogger(logPath string, verbose bool) {
	if strings.TrimSpace(logPath) == "" {
		logPath = viper.GetString(logFilenameKey)
	}

	if strings.TrimSpace(logPath) == "" {
		logPath = defaultLogFilename
	}

	var logLevel slog.Level
	if verbose {
		logLevel = slog.LevelDebug
	} else {
		logLevel = parseSlogLevel(viper.GetString(logLevelKey), slog.LevelInfo)
	}

	logWriter := &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    viper.GetInt(logMaxSizeKey),
		MaxBackups: viper.GetInt(logMaxBackupsKey),
		MaxAge:     viper.GetInt(logMaxAgeKey),
		Compress:   viper.GetBool(logCompressKey),
	}

	handler := slog.NewTextHandler(logWriter, &slog.HandlerOptions{
		AddSource: true,
		Level:     logLevel,
	})

	globalLogger = slog.New(handler)
	slog.SetDefault(globalLogger)
}
