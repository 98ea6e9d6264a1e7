package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/julianstephens/droplet/internal/constants"
)

// Logger is the global logger instance. Nil until Init or InitWriter.
var Logger *log.Logger

// Rotation bounds the log file kept under the config directory
type Rotation struct {
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

func DefaultRotation() Rotation {
	return Rotation{MaxSizeMB: 10, MaxBackups: 3, MaxAgeDays: 28}
}

// Config holds logger configuration
type Config struct {
	Debug     bool
	ConfigDir string
	// Quiet keeps stderr clean even in debug mode (used while the TUI owns the terminal)
	Quiet bool
	// Level is a charmbracelet/log level name. Empty means warn; Debug wins.
	Level string
	// Format is text, logfmt or json
	Format   string
	Rotation Rotation
}

// Path returns the log file used for configDir
func Path(configDir string) string {
	return filepath.Join(configDir, "logs", constants.AppName+".log")
}

// ParseLevel accepts the level names of charmbracelet/log, case-insensitively
func ParseLevel(name string) (log.Level, error) {
	if name == "" {
		return log.WarnLevel, nil
	}
	return log.ParseLevel(strings.ToLower(name))
}

func ParseFormat(name string) (log.Formatter, error) {
	switch strings.ToLower(name) {
	case "", "text":
		return log.TextFormatter, nil
	case "logfmt":
		return log.LogfmtFormatter, nil
	case "json":
		return log.JSONFormatter, nil
	default:
		return 0, fmt.Errorf("unknown log format %q", name)
	}
}

// Init points the global logger at a rotating file in cfg.ConfigDir
func Init(cfg Config) error {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return err
	}
	if cfg.Debug {
		level = log.DebugLevel
	}
	formatter, err := ParseFormat(cfg.Format)
	if err != nil {
		return err
	}

	path := Path(cfg.ConfigDir)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	rot := cfg.Rotation
	def := DefaultRotation()
	if rot.MaxSizeMB <= 0 {
		rot.MaxSizeMB = def.MaxSizeMB
	}
	if rot.MaxBackups <= 0 {
		rot.MaxBackups = def.MaxBackups
	}
	if rot.MaxAgeDays <= 0 {
		rot.MaxAgeDays = def.MaxAgeDays
	}

	var w io.Writer = &lumberjack.Logger{
		Filename:   path,
		MaxSize:    rot.MaxSizeMB,
		MaxBackups: rot.MaxBackups,
		MaxAge:     rot.MaxAgeDays,
		Compress:   true,
	}
	if cfg.Debug && !cfg.Quiet {
		w = io.MultiWriter(os.Stderr, w)
	}

	Logger = log.NewWithOptions(w, log.Options{
		ReportCaller:    cfg.Debug,
		ReportTimestamp: true,
		Level:           level,
		Prefix:          constants.AppName,
		Formatter:       formatter,
	})
	return nil
}

// InitWriter points the global logger at w. Tests use it to capture output.
func InitWriter(w io.Writer, level log.Level) {
	Logger = log.NewWithOptions(w, log.Options{
		Level:  level,
		Prefix: constants.AppName,
	})
}

func Debug(msg string, keyvals ...any) {
	if Logger != nil {
		Logger.Debug(msg, keyvals...)
	}
}

func Info(msg string, keyvals ...any) {
	if Logger != nil {
		Logger.Info(msg, keyvals...)
	}
}

func Warn(msg string, keyvals ...any) {
	if Logger != nil {
		Logger.Warn(msg, keyvals...)
	}
}

func Error(msg string, keyvals ...any) {
	if Logger != nil {
		Logger.Error(msg, keyvals...)
	}
}

// Fatal logs and exits with status 1, even before Init
func Fatal(msg string, keyvals ...any) {
	if Logger != nil {
		Logger.Fatal(msg, keyvals...)
	}
	os.Exit(1)
}
