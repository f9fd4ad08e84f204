package core

// Logger receives a render's progress messages. The CLI sends them to glog;
// the web server also forwards them to the browser console.
type Logger interface {
	Printf(format string, args ...interface{})
}
