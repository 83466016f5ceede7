// Package logging builds the file-backed zap logger used by perch.
//
// The TUI owns stdout and stderr while it is running, so diagnostics go to
// a JSON log file under the configured log directory instead. Recoverable
// runtime problems (fetch failures, save rejections, prefs write errors)
// are logged here and surfaced to the user through the snapshot's error
// indicators; nothing is ever printed over the live interface.
package logging

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Open creates the log directory as needed and returns a production JSON
// logger appending to the file at path, plus a close function that flushes
// and releases it.
func Open(path string) (*zap.Logger, func(), error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderCfg),
		zapcore.AddSync(file),
		zap.InfoLevel,
	)

	logger := zap.New(core)
	closer := func() {
		_ = logger.Sync()
		_ = file.Close()
	}
	return logger, closer, nil
}
