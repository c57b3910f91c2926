package main

import (
	"fmt"
	"path/filepath"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/trackd/trackd/internal/config"
)

var opLog *lumberjack.Logger

// setupOperationLog opens the rotating operation log next to the database,
// or at the configured log-file path. Every mutating command appends a line.
func setupOperationLog() {
	logPath := config.GetString("log-file")
	if logPath == "" {
		logPath = filepath.Join(filepath.Dir(dbPath), "trackd.log")
	}

	opLog = &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     30, // days
		Compress:   true,
	}
}

func logf(format string, args ...interface{}) {
	if opLog == nil {
		return
	}
	msg := fmt.Sprintf(format, args...)
	timestamp := time.Now().Format("2006-01-02 15:04:05")
	_, _ = fmt.Fprintf(opLog, "[%s] actor=%s %s\n", timestamp, actor, msg)
}
