package core

// Logger is any service that can log messages and report errors.
// args may hold errors, extra data maps or the Person performing the request.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}

// Person identifies the studio user behind a logged event.
type Person struct {
	ID       string
	Username string
	Email    string
}
