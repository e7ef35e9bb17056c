package utils

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	logLevelDebugStringConstant          = "debug"
	logLevelInfoStringConstant           = "info"
	logLevelWarnStringConstant           = "warn"
	logLevelErrorStringConstant          = "error"
	logFormatStructuredStringConstant    = "structured"
	logFormatConsoleStringConstant       = "console"
	unsupportedLogLevelTemplateConstant  = "unsupported log level: %s"
	unsupportedLogFormatTemplateConstant = "unsupported log format: %s"
	logFileMaximumSizeMegabytesConstant  = 1
	logFileMaximumBackupsConstant        = 2
	logFileMaximumAgeDaysConstant        = 30
)

// LogLevel enumerates supported logging granularities.
type LogLevel string

// Exported log level constants for reuse across packages.
const (
	LogLevelDebug LogLevel = LogLevel(logLevelDebugStringConstant)
	LogLevelInfo  LogLevel = LogLevel(logLevelInfoStringConstant)
	LogLevelWarn  LogLevel = LogLevel(logLevelWarnStringConstant)
	LogLevelError LogLevel = LogLevel(logLevelErrorStringConstant)
)

// LogFormat enumerates supported logger output encodings.
type LogFormat string

// Exported log format constants for reuse across packages.
const (
	LogFormatStructured LogFormat = LogFormat(logFormatStructuredStringConstant)
	LogFormatConsole    LogFormat = LogFormat(logFormatConsoleStringConstant)
)

var logLevelMapping = map[LogLevel]zapcore.Level{
	LogLevelDebug: zapcore.DebugLevel,
	LogLevelInfo:  zapcore.InfoLevel,
	LogLevelWarn:  zapcore.WarnLevel,
	LogLevelError: zapcore.ErrorLevel,
}

// LoggerConfiguration describes the logger requested by the command.
type LoggerConfiguration struct {
	Level  LogLevel
	Format LogFormat
	// FilePath, when set, receives a JSON copy of every entry through a size-rotated file.
	FilePath string
	// Output defaults to os.Stderr.
	Output io.Writer
}

// LoggerFactory builds zap.Logger instances and owns the log files they write to.
type LoggerFactory struct {
	mutex       sync.Mutex
	openedFiles []io.Closer
}

// NewLoggerFactory constructs a new logger factory.
func NewLoggerFactory() *LoggerFactory {
	return &LoggerFactory{}
}

// ParseLogLevel converts user input into a LogLevel.
func ParseLogLevel(value string) (LogLevel, error) {
	level := LogLevel(strings.ToLower(strings.TrimSpace(value)))
	if _, exists := logLevelMapping[level]; !exists {
		return "", fmt.Errorf(unsupportedLogLevelTemplateConstant, value)
	}
	return level, nil
}

// ParseLogFormat converts user input into a LogFormat.
func ParseLogFormat(value string) (LogFormat, error) {
	format := LogFormat(strings.ToLower(strings.TrimSpace(value)))
	switch format {
	case LogFormatStructured, LogFormatConsole:
		return format, nil
	default:
		return "", fmt.Errorf(unsupportedLogFormatTemplateConstant, value)
	}
}

// CreateLogger produces a zap.Logger honoring the requested level, format and optional log file.
func (factory *LoggerFactory) CreateLogger(configuration LoggerConfiguration) (*zap.Logger, error) {
	zapLogLevel, levelExists := logLevelMapping[configuration.Level]
	if !levelExists {
		return nil, fmt.Errorf(unsupportedLogLevelTemplateConstant, configuration.Level)
	}

	encoderConfiguration := zap.NewProductionEncoderConfig()
	encoderConfiguration.EncodeTime = zapcore.ISO8601TimeEncoder

	var primaryEncoder zapcore.Encoder
	switch configuration.Format {
	case LogFormatStructured:
		primaryEncoder = zapcore.NewJSONEncoder(encoderConfiguration)
	case LogFormatConsole:
		primaryEncoder = zapcore.NewConsoleEncoder(encoderConfiguration)
	default:
		return nil, fmt.Errorf(unsupportedLogFormatTemplateConstant, configuration.Format)
	}

	output := configuration.Output
	if output == nil {
		output = os.Stderr
	}

	cores := []zapcore.Core{
		zapcore.NewCore(primaryEncoder, zapcore.Lock(zapcore.AddSync(output)), zapLogLevel),
	}

	logFilePath := strings.TrimSpace(configuration.FilePath)
	if len(logFilePath) > 0 {
		rotatingFile := &lumberjack.Logger{
			Filename:   logFilePath,
			MaxSize:    logFileMaximumSizeMegabytesConstant,
			MaxBackups: logFileMaximumBackupsConstant,
			MaxAge:     logFileMaximumAgeDaysConstant,
			Compress:   false,
		}
		factory.trackFile(rotatingFile)
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfiguration), zapcore.AddSync(rotatingFile), zapLogLevel))
	}

	return zap.New(zapcore.NewTee(cores...), zap.ErrorOutput(zapcore.Lock(os.Stderr))), nil
}

// Close releases every log file opened by the factory.
func (factory *LoggerFactory) Close() error {
	factory.mutex.Lock()
	defer factory.mutex.Unlock()

	var closeErrors []error
	for _, openedFile := range factory.openedFiles {
		if closeError := openedFile.Close(); closeError != nil {
			closeErrors = append(closeErrors, closeError)
		}
	}
	factory.openedFiles = nil
	return errors.Join(closeErrors...)
}

func (factory *LoggerFactory) trackFile(file io.Closer) {
	factory.mutex.Lock()
	defer factory.mutex.Unlock()
	factory.openedFiles = append(factory.openedFiles, file)
}
