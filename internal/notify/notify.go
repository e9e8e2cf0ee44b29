package notify

import (
	"log"
	"sync"
)

// Severity classifies a user-facing message.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
)

// Message is a single user-facing notification. The session engine only ever
// emits curated messages ("Failed to sign in", "Session expired", ...); raw
// transport errors are never surfaced here.
type Message struct {
	Severity Severity
	Content  string
}

// Notifier is the sink for user-facing messages.
type Notifier interface {
	Dispatch(msg Message)
}

// LogNotifier writes notifications to the process log.
type LogNotifier struct{}

// NewLogNotifier creates a log-backed notifier.
func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

// Dispatch logs the message.
func (n *LogNotifier) Dispatch(msg Message) {
	log.Printf("[Notify] %s: %s", msg.Severity, msg.Content)
}

// CaptureNotifier records dispatched messages in order. Used in tests and by
// frontends that render their own message queue.
type CaptureNotifier struct {
	mu       sync.Mutex
	messages []Message
}

// NewCaptureNotifier creates a capturing notifier.
func NewCaptureNotifier() *CaptureNotifier {
	return &CaptureNotifier{}
}

// Dispatch appends the message to the capture buffer.
func (n *CaptureNotifier) Dispatch(msg Message) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.messages = append(n.messages, msg)
}

// Messages returns a copy of all dispatched messages in dispatch order.
func (n *CaptureNotifier) Messages() []Message {
	n.mu.Lock()
	defer n.mu.Unlock()

	out := make([]Message, len(n.messages))
	copy(out, n.messages)
	return out
}
