package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/AlexZinkM/nano-wallet/internal/client"
	"github.com/AlexZinkM/nano-wallet/internal/handler"
	"github.com/AlexZinkM/nano-wallet/internal/wallet"
	"github.com/AlexZinkM/nano-wallet/nano"

	"github.com/btcsuite/btclog"
	"github.com/jrick/logrotate/rotator"
)

// Loggers per subsystem. A single backend logger is created and all
// subsystem loggers created from it write to the backend. When adding a
// subsystem, add it to subsystemLoggers.
var (
	logWriter = &LogWriter{stdout: os.Stdout}

	backendLog = btclog.NewBackend(logWriter)

	// logRotator is one of the logging outputs. Close it on shutdown.
	logRotator *rotator.Rotator

	mainLog = backendLog.Logger("MAIN")
	nanoLog = backendLog.Logger(nano.Subsystem)
	wlltLog = backendLog.Logger(wallet.Subsystem)
	rpccLog = backendLog.Logger(client.Subsystem)
	httpLog = backendLog.Logger(handler.Subsystem)
)

// subsystemLoggers maps each subsystem identifier to its logger.
var subsystemLoggers = map[string]btclog.Logger{
	"MAIN":            mainLog,
	nano.Subsystem:    nanoLog,
	wallet.Subsystem:  wlltLog,
	client.Subsystem:  rpccLog,
	handler.Subsystem: httpLog,
}

func init() {
	nano.UseLogger(nanoLog)
	wallet.UseLogger(wlltLog)
	client.UseLogger(rpccLog)
	handler.UseLogger(httpLog)
}

// LogWriter writes to stdout and, once the rotator is running, to the
// rotator pipe as well.
type LogWriter struct {
	stdout io.Writer

	mu sync.Mutex
	// pipe is the write end of the pipe read by the log rotator. It is nil
	// when no rotator runs.
	pipe *io.PipeWriter
}

func (w *LogWriter) Write(b []byte) (int, error) {
	if w.stdout != nil {
		_, _ = w.stdout.Write(b)
	}

	w.mu.Lock()
	pipe := w.pipe
	w.mu.Unlock()

	if pipe != nil {
		_, _ = pipe.Write(b)
	}
	return len(b), nil
}

// startRotator feeds log lines to run until it returns. Once it does, the
// pipe is closed so writers never block on it, and it is detached.
func (w *LogWriter) startRotator(run func(io.Reader) error) {
	pr, pw := io.Pipe()

	w.mu.Lock()
	w.pipe = pw
	w.mu.Unlock()

	go func() {
		err := run(pr)
		_ = pr.CloseWithError(err)

		w.mu.Lock()
		if w.pipe == pw {
			w.pipe = nil
		}
		w.mu.Unlock()

		if err != nil {
			mainLog.Errorf("Log rotator stopped, logging to stdout only: %v", err)
		}
	}()
}

// rotating reports whether lines still go to a rotator
func (w *LogWriter) rotating() bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.pipe != nil
}

// stopRotator closes the pipe, which ends the rotator's Run
func (w *LogWriter) stopRotator() {
	w.mu.Lock()
	pipe := w.pipe
	w.pipe = nil
	w.mu.Unlock()

	if pipe != nil {
		_ = pipe.Close()
	}
}

// Main returns the logger of the binaries themselves
func Main() btclog.Logger {
	return mainLog
}

// InitLogRotator starts writing logs to logFile, rolling it over after
// maxSizeKB kilobytes and keeping maxFiles old files next to it.
func InitLogRotator(logFile string, maxSizeKB, maxFiles int) error {
	logDir, _ := filepath.Split(logFile)
	if logDir != "" {
		if err := os.MkdirAll(logDir, 0700); err != nil {
			return fmt.Errorf("failed to create log directory: %w", err)
		}
	}

	r, err := rotator.New(logFile, int64(maxSizeKB*1024), false, maxFiles)
	if err != nil {
		return fmt.Errorf("failed to create file rotator: %w", err)
	}

	logRotator = r
	logWriter.startRotator(r.Run)
	return nil
}

// Close flushes and closes the log file, if any
func Close() {
	logWriter.stopRotator()
	if logRotator != nil {
		_ = logRotator.Close()
		logRotator = nil
	}
}

// SetLogLevel sets the logging level of one subsystem. Unknown subsystems
// are ignored.
func SetLogLevel(subsystemID, logLevel string) {
	logger, ok := subsystemLoggers[subsystemID]
	if !ok {
		return
	}

	// Defaults to info if the log level is invalid.
	level, _ := btclog.LevelFromString(logLevel)
	logger.SetLevel(level)
}

// SetLogLevels sets every subsystem to logLevel. The level may also be a
// comma separated list of subsystem=level pairs, with an optional global
// level first, e.g. "info,NANO=debug".
func SetLogLevels(logLevel string) error {
	for _, part := range strings.Split(logLevel, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		subsystem, level, ok := strings.Cut(part, "=")
		if !ok {
			if _, valid := btclog.LevelFromString(part); !valid {
				return fmt.Errorf("invalid log level %q", part)
			}
			for id := range subsystemLoggers {
				SetLogLevel(id, part)
			}
			continue
		}

		if _, exists := subsystemLoggers[subsystem]; !exists {
			return fmt.Errorf("unknown subsystem %q, supported: %s",
				subsystem, strings.Join(SupportedSubsystems(), ", "))
		}
		if _, valid := btclog.LevelFromString(level); !valid {
			return fmt.Errorf("invalid log level %q for %s", level, subsystem)
		}
		SetLogLevel(subsystem, level)
	}
	return nil
}

// SupportedSubsystems returns the sorted subsystem identifiers
func SupportedSubsystems() []string {
	ids := make([]string, 0, len(subsystemLoggers))
	for id := range subsystemLoggers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
