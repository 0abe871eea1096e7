package messages

import (
	"fmt"
	"io"
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ColorSetter switches the color used for subsequent surface writes.
type ColorSetter func(level Level)

// Writer appends text to a rendering surface.
type Writer func(text string)

// Log is an ordered, leveled queue of operator-facing messages.
type Log struct {
	mu        sync.Mutex
	queue     []Message
	threshold Level
	out       io.Writer

	sink     *zap.Logger
	sinkFile *os.File

	closed bool
}

// Option configures a Log.
type Option func(*Log)

// WithOutput sets the destination of FlushToPlainOutput (default os.Stdout).
func WithOutput(w io.Writer) Option {
	return func(l *Log) {
		l.out = w
	}
}

// New creates a Log that displays messages up to and including threshold.
func New(threshold Level, opts ...Option) *Log {
	if !threshold.Valid() {
		threshold = LevelVerbose
	}
	l := &Log{
		threshold: threshold,
		out:       os.Stdout,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// SetThreshold changes the most-suppressed level still displayed.
func (l *Log) SetThreshold(level Level) {
	if !level.Valid() {
		return
	}
	l.mu.Lock()
	l.threshold = level
	l.mu.Unlock()
}

// Threshold returns the configured display threshold.
func (l *Log) Threshold() Level {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.threshold
}

// AttachFile truncates (or creates) path and mirrors every drained message
// into it, one line per message. A previously attached file is closed.
func (l *Log) AttachFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}

	// Message-only encoder: each entry is the raw text plus a newline
	encoder := zapcore.NewConsoleEncoder(zapcore.EncoderConfig{
		MessageKey: "msg",
		LineEnding: zapcore.DefaultLineEnding,
	})
	core := zapcore.NewCore(encoder, zapcore.Lock(f), zapcore.DebugLevel)

	l.mu.Lock()
	defer l.mu.Unlock()
	l.closeSinkLocked()
	l.sink = zap.New(core)
	l.sinkFile = f
	return nil
}

func (l *Log) closeSinkLocked() {
	if l.sink != nil {
		_ = l.sink.Sync()
		l.sink = nil
	}
	if l.sinkFile != nil {
		_ = l.sinkFile.Close()
		l.sinkFile = nil
	}
}

// Push appends a message to the tail of the queue. It never blocks or fails.
func (l *Log) Push(text string, level Level) {
	if l == nil {
		return
	}
	l.mu.Lock()
	l.queue = append(l.queue, Message{Text: text, Level: level})
	l.mu.Unlock()
}

// Normal queues text verbatim at LevelNormal.
func (l *Log) Normal(text string) { l.Push(text, LevelNormal) }

// Success queues text verbatim at LevelSuccess.
func (l *Log) Success(text string) { l.Push(text, LevelSuccess) }

// Error queues "  [Error] <text>." at LevelError.
func (l *Log) Error(text string) { l.Push("  [Error] "+text+".", LevelError) }

// Warning queues "[Warning] <text>." at LevelWarning.
func (l *Log) Warning(text string) { l.Push("[Warning] "+text+".", LevelWarning) }

// Info queues "   [Info] <text>." at LevelInfo.
func (l *Log) Info(text string) { l.Push("   [Info] "+text+".", LevelInfo) }

// Verbose queues "[Verbose] <text>." at LevelVerbose.
func (l *Log) Verbose(text string) { l.Push("[Verbose] "+text+".", LevelVerbose) }

// Errorf formats and queues an error message.
func (l *Log) Errorf(format string, args ...any) { l.Error(fmt.Sprintf(format, args...)) }

// Warningf formats and queues a warning message.
func (l *Log) Warningf(format string, args ...any) { l.Warning(fmt.Sprintf(format, args...)) }

// Infof formats and queues an info message.
func (l *Log) Infof(format string, args ...any) { l.Info(fmt.Sprintf(format, args...)) }

// Verbosef formats and queues a verbose message.
func (l *Log) Verbosef(format string, args ...any) { l.Verbose(fmt.Sprintf(format, args...)) }

// Len returns the number of queued messages.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.queue)
}

// DrainNext pops the head of the queue. When a log file is attached the
// message is written to it before being returned.
func (l *Log) DrainNext() (Message, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.queue) == 0 {
		return Message{}, false
	}
	msg := l.queue[0]
	l.queue[0] = Message{}
	l.queue = l.queue[1:]

	if l.sink != nil {
		l.sink.Info(msg.Text)
	}
	return msg, true
}

// visible reports whether msg passes the display threshold.
func (l *Log) visible(msg Message) bool {
	return msg.Level <= l.Threshold()
}

// FlushToPlainOutput drains the whole queue, printing each visible message
// on its own line with a level color.
func (l *Log) FlushToPlainOutput() {
	for {
		msg, ok := l.DrainNext()
		if !ok {
			return
		}
		if !l.visible(msg) {
			continue
		}
		_, _ = fmt.Fprintln(l.out, render(msg))
	}
}

// FlushToSurface drains the whole queue, routing each visible message
// through the caller's color and write callbacks. The color is reset to
// LevelNormal after every message.
func (l *Log) FlushToSurface(setColor ColorSetter, write Writer) {
	for {
		msg, ok := l.DrainNext()
		if !ok {
			return
		}
		if !l.visible(msg) {
			continue
		}
		setColor(msg.Level)
		write(msg.Text + "\n")
		setColor(LevelNormal)
	}
}

// Close performs the final plain flush and closes the log file.
// Calling Close more than once has no further effect.
func (l *Log) Close() error {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return nil
	}
	l.closed = true
	l.mu.Unlock()

	l.FlushToPlainOutput()

	l.mu.Lock()
	defer l.mu.Unlock()
	l.closeSinkLocked()
	return nil
}

func render(msg Message) string {
	if style, ok := levelStyles[msg.Level]; ok {
		return style.Render(msg.Text)
	}
	return msg.Text
}
