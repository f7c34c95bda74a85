// Package obslog provides the structured logging facade used by the CLI
// and the interpreter. It wraps
// github.com/tliron/commonlog behind a small interface so the rest of
// the module depends on this package rather than on commonlog directly.
package obslog

import (
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"
)

// Logger is the subset of commonlog's Logger this module uses. Calls
// take a message plus structured key/value pairs, mirroring commonlog's
// own Logger methods.
type Logger interface {
	Debug(message string, keyValuePairs ...interface{})
	Info(message string, keyValuePairs ...interface{})
	Warning(message string, keyValuePairs ...interface{})
	Error(message string, keyValuePairs ...interface{})
}

// commonLogger adapts commonlog.Logger to Logger.
type commonLogger struct {
	inner commonlog.Logger
}

func (l *commonLogger) Debug(message string, keyValuePairs ...interface{}) {
	l.inner.Debug(message, keyValuePairs...)
}

func (l *commonLogger) Info(message string, keyValuePairs ...interface{}) {
	l.inner.Info(message, keyValuePairs...)
}

func (l *commonLogger) Warning(message string, keyValuePairs ...interface{}) {
	l.inner.Warning(message, keyValuePairs...)
}

func (l *commonLogger) Error(message string, keyValuePairs ...interface{}) {
	l.inner.Error(message, keyValuePairs...)
}

// Get returns the named logger (e.g. "vm.interp", "image.loader",
// "profile.store"), backed by commonlog's registry.
func Get(name string) Logger {
	return &commonLogger{inner: commonlog.GetLogger(name)}
}

// SetVerbose raises every registered logger's level to Debug; used by the
// CLI's -v flag.
func SetVerbose(verbose bool) {
	if verbose {
		commonlog.SetMaxLevel(commonlog.Debug)
	} else {
		commonlog.SetMaxLevel(commonlog.Info)
	}
}

// discard is a no-op Logger, used by default in packages constructed
// without an explicit logger (tests, library embedding that doesn't want
// log output).
type discard struct{}

func (discard) Debug(string, ...interface{})   {}
func (discard) Info(string, ...interface{})    {}
func (discard) Warning(string, ...interface{}) {}
func (discard) Error(string, ...interface{})   {}

// Discard is the no-op Logger singleton.
var Discard Logger = discard{}
