// Package notify carries transient user-facing notifications from the sync
// and service layers to whatever surface renders them (TUI banner, plain
// stderr line). One notification is visible at a time: a new one replaces
// the current one immediately, there is no queue.
package notify

import (
	"strings"
	"sync"
	"time"
)

// Level classifies a notification for styling and routing.
type Level int

const (
	Info Level = iota
	Success
	Warning
	Error
	// Danger marks a blocking confirmation prompt. Danger notifications
	// never auto-dismiss; they resolve only through Confirm or Cancel.
	Danger
)

// String implements [fmt.Stringer] for log output.
func (l Level) String() string {
	switch l {
	case Info:
		return "info"
	case Success:
		return "success"
	case Warning:
		return "warning"
	case Error:
		return "error"
	case Danger:
		return "danger"
	default:
		return "unknown"
	}
}

// Notification is one message with its level and optional line breakdown.
// A message containing newlines renders as a list, one line per item.
type Notification struct {
	Message string
	Level   Level
	Posted  time.Time
}

// Lines splits the message on newlines for list-style rendering.
func (n Notification) Lines() []string {
	if !strings.Contains(n.Message, "\n") {
		return []string{n.Message}
	}
	raw := strings.Split(n.Message, "\n")
	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	return lines
}

// Listener receives the current notification, or nil when it was dismissed.
type Listener func(*Notification)

// Channel is a last-write-wins notification slot with timed auto-dismissal.
// Posting replaces whatever is showing and restarts the dismissal clock;
// Danger prompts stay until explicitly resolved.
type Channel struct {
	mu        sync.Mutex
	current   *Notification
	listeners []Listener
	timer     *time.Timer
	ttl       time.Duration
	onConfirm func()
	onCancel  func()
	gen       uint64
}

// NewChannel creates a channel that auto-dismisses after ttl. A zero or
// negative ttl falls back to four seconds.
func NewChannel(ttl time.Duration) *Channel {
	if ttl <= 0 {
		ttl = 4 * time.Second
	}
	return &Channel{ttl: ttl}
}

// Subscribe registers a listener. It is invoked on every post, replacement,
// dismissal, and confirmation resolution.
func (c *Channel) Subscribe(listener Listener) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, listener)
}

// Current returns the visible notification, nil when none is showing.
func (c *Channel) Current() *Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == nil {
		return nil
	}
	copied := *c.current
	return &copied
}

// Post shows a notification, replacing any visible one and restarting the
// dismissal timer. A pending Danger prompt is cancelled by the replacement.
func (c *Channel) Post(message string, level Level) {
	c.mu.Lock()
	c.replaceLocked(&Notification{Message: message, Level: level, Posted: time.Now()})
	c.onConfirm, c.onCancel = nil, nil

	gen := c.gen
	if c.timer != nil {
		c.timer.Stop()
	}
	c.timer = time.AfterFunc(c.ttl, func() { c.expire(gen) })
	c.mu.Unlock()

	c.broadcast()
}

// Successf posts a Success-level notification.
func (c *Channel) Successf(message string) { c.Post(message, Success) }

// Errorf posts an Error-level notification.
func (c *Channel) Errorf(message string) { c.Post(message, Error) }

// Infof posts an Info-level notification.
func (c *Channel) Infof(message string) { c.Post(message, Info) }

// Prompt shows a Danger confirmation that stays visible until the user
// resolves it. onConfirm runs on Confirm, onCancel on Cancel; either resolves
// and dismisses the prompt.
func (c *Channel) Prompt(message string, onConfirm, onCancel func()) {
	c.mu.Lock()
	c.replaceLocked(&Notification{Message: message, Level: Danger, Posted: time.Now()})
	c.onConfirm, c.onCancel = onConfirm, onCancel
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.mu.Unlock()

	c.broadcast()
}

// Confirm resolves a pending Danger prompt affirmatively. It is a no-op when
// nothing is pending.
func (c *Channel) Confirm() {
	c.resolve(true)
}

// Cancel resolves a pending Danger prompt negatively. It is a no-op when
// nothing is pending.
func (c *Channel) Cancel() {
	c.resolve(false)
}

// Dismiss clears the visible notification immediately. Danger prompts are
// treated as cancelled.
func (c *Channel) Dismiss() {
	c.mu.Lock()
	if c.current != nil && c.current.Level == Danger {
		c.mu.Unlock()
		c.resolve(false)
		return
	}
	c.clearLocked()
	c.mu.Unlock()

	c.broadcast()
}

func (c *Channel) resolve(confirmed bool) {
	c.mu.Lock()
	if c.current == nil || c.current.Level != Danger {
		c.mu.Unlock()
		return
	}
	callback := c.onCancel
	if confirmed {
		callback = c.onConfirm
	}
	c.clearLocked()
	c.mu.Unlock()

	c.broadcast()
	if callback != nil {
		callback()
	}
}

// expire dismisses the notification the timer was armed for. The generation
// check keeps a late timer from clearing a newer notification.
func (c *Channel) expire(gen uint64) {
	c.mu.Lock()
	if c.gen != gen || c.current == nil {
		c.mu.Unlock()
		return
	}
	c.clearLocked()
	c.mu.Unlock()

	c.broadcast()
}

func (c *Channel) replaceLocked(n *Notification) {
	c.gen++
	c.current = n
}

func (c *Channel) clearLocked() {
	c.gen++
	c.current = nil
	c.onConfirm, c.onCancel = nil, nil
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

func (c *Channel) broadcast() {
	c.mu.Lock()
	current := c.current
	listeners := append([]Listener(nil), c.listeners...)
	c.mu.Unlock()

	for _, listener := range listeners {
		listener(current)
	}
}
