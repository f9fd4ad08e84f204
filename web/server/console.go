package server

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang/glog"

	"github.com/scifi6546/ray-tracing-sub001/pkg/core"
)

// ConsoleMessage is a renderer log line forwarded to the browser console
type ConsoleMessage struct {
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Level     string    `json:"level"` // "info", "warning", "error"
}

// WebLogger implements core.Logger by copying messages to glog and to a
// render's console channel
type WebLogger struct {
	renderID    string
	consoleChan chan<- ConsoleMessage
}

// NewWebLogger creates a logger for the render identified by renderID.
// consoleChan may be nil.
func NewWebLogger(renderID string, consoleChan chan<- ConsoleMessage) core.Logger {
	return &WebLogger{
		renderID:    renderID,
		consoleChan: consoleChan,
	}
}

// Printf implements core.Logger. It never blocks; messages are dropped when
// the console channel is full.
func (wl *WebLogger) Printf(format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)
	glog.InfoDepth(1, wl.renderID+": "+strings.TrimRight(message, "\n"))

	if wl.consoleChan == nil {
		return
	}
	select {
	case wl.consoleChan <- ConsoleMessage{
		Message:   message,
		Timestamp: time.Now(),
		Level:     "info",
	}:
	default:
	}
}
