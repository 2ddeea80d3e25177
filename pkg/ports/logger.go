package ports

// LogLevel is the severity of a log message.
type LogLevel int

const (
	// LevelDebug: component-level internal processing detail.
	LevelDebug LogLevel = iota
	// LevelInfo: session-level progress.
	LevelInfo
	// LevelWarn: recoverable problems that don't stop the session.
	LevelWarn
	// LevelError: problems that terminate the current call.
	LevelError
	// LevelQuiet suppresses all output.
	LevelQuiet
)

// String returns the level name.
func (l LogLevel) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	case LevelQuiet:
		return "quiet"
	default:
		return "unknown"
	}
}

// ParseLogLevel parses a level name, defaulting to info.
func ParseLogLevel(s string) LogLevel {
	switch s {
	case "debug":
		return LevelDebug
	case "info":
		return LevelInfo
	case "warn":
		return LevelWarn
	case "error":
		return LevelError
	case "quiet":
		return LevelQuiet
	default:
		return LevelInfo
	}
}

// Logger abstracts logging. The msg parameter is a translatable message
// key with printf-style arguments.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})

	// WithComponent returns a Logger that prefixes messages with the
	// component name.
	WithComponent(component string) Logger
}
