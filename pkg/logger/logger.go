package logger

import (
	"io"
	"os"
	"sync"

	"github.com/sirupsen/logrus"

	"video-aggregation-service/pkg/config"
)

// Logger 基于logrus的日志服务
type Logger struct {
	entry *logrus.Logger
	file  *os.File
}

var (
	globalMu     sync.RWMutex
	globalLogger *Logger
)

// NewLogger 根据配置创建日志服务
func NewLogger(cfg *config.Config) *Logger {
	l := logrus.New()

	level, err := logrus.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	l.SetLevel(level)

	if cfg.Log.Format == "json" {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	logger := &Logger{entry: l}

	switch cfg.Log.Output {
	case "file":
		if cfg.Log.Filename != "" {
			if f, err := os.OpenFile(cfg.Log.Filename, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644); err == nil {
				logger.file = f
				l.SetOutput(io.MultiWriter(os.Stdout, f))
				break
			}
		}
		l.SetOutput(os.Stdout)
	default:
		l.SetOutput(os.Stdout)
	}

	return logger
}

// SetGlobalLogger 设置全局日志服务
func SetGlobalLogger(l *Logger) {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalLogger = l
}

// Close 关闭日志文件句柄
func (l *Logger) Close() {
	if l.file != nil {
		_ = l.file.Close()
	}
}

func std() *logrus.Logger {
	globalMu.RLock()
	l := globalLogger
	globalMu.RUnlock()
	if l == nil {
		return logrus.StandardLogger()
	}
	return l.entry
}

// Debug 记录调试日志，fields为结构化字段
func Debug(msg string, fields map[string]interface{}) {
	std().WithFields(fields).Debug(msg)
}

// Info 记录信息日志
func Info(msg string, fields map[string]interface{}) {
	std().WithFields(fields).Info(msg)
}

// Warn 记录警告日志
func Warn(msg string, fields map[string]interface{}) {
	std().WithFields(fields).Warn(msg)
}

// Error 记录错误日志
func Error(msg string, fields map[string]interface{}) {
	std().WithFields(fields).Error(msg)
}

func Debugf(format string, args ...interface{}) {
	std().Debugf(format, args...)
}

func Infof(format string, args ...interface{}) {
	std().Infof(format, args...)
}

func Warnf(format string, args ...interface{}) {
	std().Warnf(format, args...)
}

func Errorf(format string, args ...interface{}) {
	std().Errorf(format, args...)
}

// Fatal 记录致命错误并退出
func Fatal(msg string) {
	std().Fatal(msg)
}
