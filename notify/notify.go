// Package notify implements the transient notifications and the confirm
// modal shown by the terminal client.
package notify

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// DefaultDuration is how long a notification stays up unless told otherwise.
const DefaultDuration = 3 * time.Second

type Level int

const (
	LevelInfo Level = iota
	LevelSuccess
	LevelWarning
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelSuccess:
		return "success"
	case LevelWarning:
		return "warning"
	case LevelError:
		return "error"
	default:
		return "info"
	}
}

func (l Level) Icon() string {
	switch l {
	case LevelSuccess:
		return "✓"
	case LevelWarning:
		return "⚠"
	case LevelError:
		return "✕"
	default:
		return "ℹ"
	}
}

func (l Level) color() lipgloss.Color {
	switch l {
	case LevelSuccess:
		return lipgloss.Color("2")
	case LevelWarning:
		return lipgloss.Color("3")
	case LevelError:
		return lipgloss.Color("1")
	default:
		return lipgloss.Color("4")
	}
}

type Notification struct {
	ID        int
	Level     Level
	Message   string
	CreatedAt time.Time
	// ExpiresAt is zero for sticky notifications.
	ExpiresAt time.Time
}

func (n Notification) Expired(now time.Time) bool {
	return !n.ExpiresAt.IsZero() && !now.Before(n.ExpiresAt)
}

func (n Notification) Render() string {
	style := lipgloss.NewStyle().Foreground(n.Level.color()).Bold(true)
	return style.Render(n.Level.Icon()) + " " + n.Message
}

// Center keeps the notifications currently on screen, oldest first.
type Center struct {
	items    []Notification
	nextID   int
	duration time.Duration
	now      func() time.Time
}

func NewCenter() *Center {
	return &Center{duration: DefaultDuration, now: time.Now}
}

// Push adds a notification. A non-positive duration makes it sticky.
func (c *Center) Push(level Level, message string, duration time.Duration) Notification {
	c.nextID++
	now := c.now()
	n := Notification{ID: c.nextID, Level: level, Message: message, CreatedAt: now}
	if duration > 0 {
		n.ExpiresAt = now.Add(duration)
	}
	c.items = append(c.items, n)
	return n
}

func (c *Center) Success(message string) { c.Push(LevelSuccess, message, c.duration) }
func (c *Center) Error(message string)   { c.Push(LevelError, message, c.duration) }
func (c *Center) Warning(message string) { c.Push(LevelWarning, message, c.duration) }
func (c *Center) Info(message string)    { c.Push(LevelInfo, message, c.duration) }

// Active returns the notifications that have not expired at now.
func (c *Center) Active(now time.Time) []Notification {
	var out []Notification
	for _, n := range c.items {
		if !n.Expired(now) {
			out = append(out, n)
		}
	}
	return out
}

// Prune drops expired notifications and reports whether any were removed.
func (c *Center) Prune(now time.Time) bool {
	kept := c.items[:0]
	for _, n := range c.items {
		if !n.Expired(now) {
			kept = append(kept, n)
		}
	}
	removed := len(kept) != len(c.items)
	c.items = kept
	return removed
}

func (c *Center) Dismiss(id int) {
	for i, n := range c.items {
		if n.ID == id {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return
		}
	}
}

func (c *Center) Clear() {
	c.items = nil
}

// View renders the active notifications, one per line.
func (c *Center) View() string {
	active := c.Active(c.now())
	lines := make([]string, 0, len(active))
	for _, n := range active {
		lines = append(lines, n.Render())
	}
	return strings.Join(lines, "\n")
}

// Printer writes notifications straight to a stream, for non-interactive commands.
type Printer struct {
	Out io.Writer
}

func (p Printer) print(level Level, message string) {
	if p.Out == nil {
		return
	}
	fmt.Fprintln(p.Out, Notification{Level: level, Message: message}.Render())
}

func (p Printer) Success(message string) { p.print(LevelSuccess, message) }
func (p Printer) Error(message string)   { p.print(LevelError, message) }
func (p Printer) Warning(message string) { p.print(LevelWarning, message) }
func (p Printer) Info(message string)    { p.print(LevelInfo, message) }
