package utilities

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

// LogOptions controls where log files go and how they rotate.
type LogOptions struct {
	Dir        string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Debug      bool
}

var (
	debugLog = log.New(io.Discard, "DEBUG: ", log.Ldate|log.Ltime)
	infoLog  = log.New(os.Stdout, "INFO: ", log.Ldate|log.Ltime)
	warnLog  = log.New(os.Stdout, "WARNING: ", log.Ldate|log.Ltime)
	errorLog = log.New(os.Stderr, "ERROR: ", log.Ldate|log.Ltime)
	logMutex sync.Mutex
	closers  []io.Closer
)

// SetupLogging sends each level to stdout/stderr and to its own rotating
// file under opts.Dir.
func SetupLogging(opts LogOptions) error {
	if err := os.MkdirAll(opts.Dir, 0755); err != nil {
		return fmt.Errorf("create log directory: %w", err)
	}

	logMutex.Lock()
	defer logMutex.Unlock()

	for _, c := range closers {
		c.Close()
	}
	closers = nil

	infoFile := rotating(opts, "info.log")
	warnFile := rotating(opts, "warn.log")
	errorFile := rotating(opts, "error.log")

	infoWriter := io.MultiWriter(os.Stdout, infoFile)
	infoLog = log.New(infoWriter, "INFO: ", log.Ldate|log.Ltime)
	warnLog = log.New(io.MultiWriter(os.Stdout, warnFile), "WARNING: ", log.Ldate|log.Ltime)
	errorLog = log.New(io.MultiWriter(os.Stderr, errorFile), "ERROR: ", log.Ldate|log.Ltime)

	if opts.Debug {
		debugLog = log.New(infoWriter, "DEBUG: ", log.Ldate|log.Ltime)
	} else {
		debugLog = log.New(io.Discard, "DEBUG: ", log.Ldate|log.Ltime)
	}

	// Override Go's default log
	log.SetOutput(infoWriter)
	return nil
}

// SetLogOutput points every level at w. Used by tests.
func SetLogOutput(w io.Writer) {
	logMutex.Lock()
	defer logMutex.Unlock()
	debugLog = log.New(w, "DEBUG: ", 0)
	infoLog = log.New(w, "INFO: ", 0)
	warnLog = log.New(w, "WARNING: ", 0)
	errorLog = log.New(w, "ERROR: ", 0)
}

// CloseLogging flushes and closes the rotating files.
func CloseLogging() {
	logMutex.Lock()
	defer logMutex.Unlock()
	for _, c := range closers {
		c.Close()
	}
	closers = nil
}

func rotating(opts LogOptions, name string) io.Writer {
	w := &lumberjack.Logger{
		Filename:   filepath.Join(opts.Dir, name),
		MaxSize:    opts.MaxSizeMB,
		MaxBackups: opts.MaxBackups,
		MaxAge:     opts.MaxAgeDays,
		Compress:   true,
	}
	closers = append(closers, w)
	return w
}

func getCallerInfo() string {
	pc, _, _, ok := runtime.Caller(3)
	if !ok {
		return "unknown"
	}
	name := runtime.FuncForPC(pc).Name()
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	return name
}

func Log(level string, format string, v ...interface{}) {
	logMutex.Lock()
	defer logMutex.Unlock()

	message := fmt.Sprintf(format, v...)
	logEntry := fmt.Sprintf("[%s] %s", getCallerInfo(), message)

	switch level {
	case "DEBUG":
		debugLog.Println(logEntry)
	case "WARNING":
		warnLog.Println(logEntry)
	case "ERROR":
		errorLog.Println(logEntry)
	default:
		infoLog.Println(logEntry)
	}
}

func Debug(format string, v ...interface{}) {
	Log("DEBUG", format, v...)
}

func Info(format string, v ...interface{}) {
	Log("INFO", format, v...)
}

func Warn(format string, v ...interface{}) {
	Log("WARNING", format, v...)
}

func Error(format string, v ...interface{}) {
	Log("ERROR", format, v...)
}
