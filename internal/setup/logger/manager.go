// Package logger sets up the zap loggers of the example bot. Every run logs
// into its own timestamped session directory and old sessions are removed.
package logger

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robalyx/interactivity/internal/setup/config"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// SessionDirFormat is the time layout of session directory names.
const SessionDirFormat = "2006-01-02_15-04-05"

// TraceFileName is the file of the session directory receiving the error
// spans when error tracing is enabled.
const TraceFileName = "errors.trace.json"

// Manager handles the creation and management of log files and directories.
type Manager struct {
	instanceID        string
	currentSessionDir string
	logDir            string
	level             string
	maxLogsToKeep     int
	maxLogLines       int
	traceErrors       bool

	mu        sync.Mutex
	rotators  []*Rotator
	provider  *sdktrace.TracerProvider
	traceFile *os.File
}

// NewManager creates a Manager writing below logDir.
func NewManager(logDir string, debugCfg *config.Debug) *Manager {
	return &Manager{
		instanceID:    uuid.New().String(),
		logDir:        logDir,
		level:         debugCfg.LogLevel,
		maxLogsToKeep: debugCfg.MaxLogsToKeep,
		maxLogLines:   debugCfg.MaxLogLines,
		traceErrors:   debugCfg.TraceErrors,
	}
}

// InstanceID returns the unique identifier of this run.
func (lm *Manager) InstanceID() string {
	return lm.instanceID
}

// SessionDir returns the directory of the current session, empty before
// the first logger was created.
func (lm *Manager) SessionDir() string {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	return lm.currentSessionDir
}

// GetLogger returns a logger writing to name.log in the session directory.
// The first call rotates old sessions and creates the session directory.
// With error tracing enabled, error logs are also recorded as spans in
// TraceFileName.
func (lm *Manager) GetLogger(name string) (*zap.Logger, error) {
	lm.mu.Lock()
	defer lm.mu.Unlock()

	if lm.currentSessionDir == "" {
		if err := lm.setupLogDirectories(); err != nil {
			return nil, err
		}
	}

	zapLevel, err := zapcore.ParseLevel(lm.level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}

	path := filepath.Join(lm.currentSessionDir, name+".log")
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("cannot open log file %s: %w", path, err)
	}

	rotator := NewRotator(file, lm.maxLogLines, path)
	lm.rotators = append(lm.rotators, rotator)

	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.EncodeCaller = zapcore.ShortCallerEncoder

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.AddSync(rotator),
		zapLevel,
	)

	if lm.traceErrors {
		tracer, err := lm.tracer()
		if err != nil {
			return nil, err
		}
		core = zapcore.NewTee(core, NewTraceCore(zapcore.ErrorLevel, tracer))
	}

	return zap.New(core,
		zap.AddCaller(),
		zap.AddStacktrace(zapcore.ErrorLevel),
		zap.Fields(zap.String("instanceID", lm.instanceID)),
	), nil
}

// Close closes every log file opened by the manager.
func (lm *Manager) Close() error {
	lm.mu.Lock()
	defer lm.mu.Unlock()

	var errs []error
	for _, rotator := range lm.rotators {
		errs = append(errs, rotator.Close())
	}
	lm.rotators = nil

	if lm.provider != nil {
		errs = append(errs, lm.provider.Shutdown(context.Background()), lm.traceFile.Close())
		lm.provider = nil
		lm.traceFile = nil
	}
	return errors.Join(errs...)
}

// tracer returns the tracer of the session, creating its trace file on the
// first call. Callers hold lm.mu.
func (lm *Manager) tracer() (trace.Tracer, error) {
	if lm.provider == nil {
		path := filepath.Join(lm.currentSessionDir, TraceFileName)
		file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("cannot open trace file %s: %w", path, err)
		}

		exporter, err := stdouttrace.New(stdouttrace.WithWriter(file))
		if err != nil {
			_ = file.Close()
			return nil, fmt.Errorf("failed to create trace exporter: %w", err)
		}

		lm.provider = sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
		lm.traceFile = file
	}
	return lm.provider.Tracer("logs"), nil
}

// setupLogDirectories ensures the base directory exists, rotates old logs
// and creates a new session directory.
func (lm *Manager) setupLogDirectories() error {
	if err := os.MkdirAll(lm.logDir, os.ModePerm); err != nil {
		return fmt.Errorf("failed to create logs directory: %w", err)
	}

	// Leave room for the session created below
	if err := lm.rotateLogSessions(lm.maxLogsToKeep - 1); err != nil {
		return fmt.Errorf("failed to rotate log sessions: %w", err)
	}

	sessionDir := filepath.Join(lm.logDir, time.Now().Format(SessionDirFormat))
	if err := os.MkdirAll(sessionDir, os.ModePerm); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}

	lm.currentSessionDir = sessionDir
	return nil
}

// rotateLogSessions removes the oldest sessions until at most keep remain.
func (lm *Manager) rotateLogSessions(keep int) error {
	if keep < 0 {
		keep = 0
	}

	sessions, err := filepath.Glob(filepath.Join(lm.logDir, "*"))
	if err != nil {
		return err
	}

	if len(sessions) <= keep {
		return nil
	}

	// Oldest first
	sort.Slice(sessions, func(i, j int) bool {
		iInfo, iErr := os.Stat(sessions[i])
		jInfo, jErr := os.Stat(sessions[j])
		if iErr != nil || jErr != nil {
			return sessions[i] < sessions[j]
		}
		return iInfo.ModTime().Before(jInfo.ModTime())
	})

	for _, session := range sessions[:len(sessions)-keep] {
		if err := os.RemoveAll(session); err != nil {
			return err
		}
	}

	return nil
}
