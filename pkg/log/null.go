package log

// nullLogger discards everything. It is the default for the CPU, the MMU
// and the machine until a logger is supplied with an option.
type nullLogger struct{}

func (nullLogger) Fatal(string) {}
func (nullLogger) Infof(string, ...interface{}) {}
func (nullLogger) Errorf(string, ...interface{}) {}
func (nullLogger) Debugf(string, ...interface{}) {}

// NewNullLogger returns a Logger that writes nothing.
func NewNullLogger() Logger {
	return nullLogger{}
}
