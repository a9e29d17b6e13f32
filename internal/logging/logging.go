package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

const logFileName = "aoe4coach.log"

// Rotation keeps roughly a season of history on disk.
const (
	logMaxSizeMB  = 16
	logMaxBackups = 8
	logMaxAgeDays = 90
)

// Init configures the global zerolog logger. Entries go to stderr and to
// a rotating file under the data directory. Stderr must stay clean of
// non-log output because MCP clients own stdout and read diagnostics
// from stderr.
//
// Init runs before config.Load, so it resolves DATA_PATH on its own.
func Init(verbose bool) {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)

	dir := resolveLogDir()
	if err := ensureWritableDir(dir); err != nil {
		fmt.Fprintf(os.Stderr, "Error: cannot use log directory %q: %v\n", dir, err)
		os.Exit(1)
	}

	log.Logger = zerolog.New(zerolog.MultiLevelWriter(consoleWriter(), rotatingWriter(dir))).
		With().
		Timestamp().
		Logger()
}

// resolveLogDir mirrors config.Load's layout: logs live in a "logs"
// subdirectory of DATA_PATH, which defaults to the binary's directory.
func resolveLogDir() string {
	exeDir := ""
	if exePath, err := os.Executable(); err == nil {
		exeDir = filepath.Dir(exePath)
		// The .env next to the binary may carry DATA_PATH.
		_ = godotenv.Load(filepath.Join(exeDir, ".env"))
	}

	dataPath := os.Getenv("DATA_PATH")
	if dataPath == "" {
		if exeDir != "" {
			dataPath = exeDir
		} else {
			dataPath = "."
		}
	}
	return filepath.Join(dataPath, "logs")
}

// ensureWritableDir creates dir if needed and verifies a file can
// actually be written there. MkdirAll alone does not catch read-only
// mounts or an existing plain file at the path.
func ensureWritableDir(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	marker := filepath.Join(dir, ".write-check")
	if err := os.WriteFile(marker, []byte("ok"), 0644); err != nil {
		return err
	}
	return os.Remove(marker)
}

func consoleWriter() zerolog.ConsoleWriter {
	isTerminal := isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
	return zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
		NoColor:    !isTerminal,
	}
}

func rotatingWriter(dir string) *lumberjack.Logger {
	return &lumberjack.Logger{
		Filename:   filepath.Join(dir, logFileName),
		MaxSize:    logMaxSizeMB,
		MaxBackups: logMaxBackups,
		MaxAge:     logMaxAgeDays,
		Compress:   true,
	}
}
