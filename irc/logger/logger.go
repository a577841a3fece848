// Package logger implements the core's type-tagged, level-ranked log
// fan-out: a Manager keeps a list of LogStream subscribers, each with a
// minimum level and an optional exclusion set of types it does not want to
// see even when subscribed to "*".
package logger

import (
	"bufio"
	"fmt"
	"os"
	"sync"
	"time"
)

// Level is the rank of a log message. Higher is noisier; RAWIO is the
// noisiest and NONE disables a stream entirely.
type Level int

const (
	LevelNone Level = iota
	LevelSparse
	LevelDefault
	LevelVerbose
	LevelDebug
	LevelRawIO
)

var levelNames = map[string]Level{
	"none":    LevelNone,
	"sparse":  LevelSparse,
	"default": LevelDefault,
	"verbose": LevelVerbose,
	"debug":   LevelDebug,
	"rawio":   LevelRawIO,
}

// ParseLevel resolves a config-file level name, defaulting to LevelDefault
// for an unrecognized name.
func ParseLevel(name string) Level {
	if l, ok := levelNames[name]; ok {
		return l
	}
	return LevelDefault
}

// LogStream is a subscriber to log output. OnLog is invoked with the
// already-level-and-type-filtered message; a stream whose OnLog itself logs
// is protected against infinite recursion by the Manager's reentrancy guard.
type LogStream interface {
	OnLog(level Level, logType string, parts []string)
}

type subscription struct {
	stream    LogStream
	minLevel  Level
	types     map[string]bool // "*" means all types
	excluded  map[string]bool // exclusion set, only meaningful when types["*"]
}

func (s *subscription) accepts(level Level, logType string) bool {
	if level > s.minLevel {
		return false
	}
	if s.excluded[logType] {
		return false
	}
	return s.types["*"] || s.types[logType]
}

// Manager is the process-wide log fan-out. The zero value is usable.
type Manager struct {
	mu   sync.Mutex
	subs []*subscription

	// logging guards against reentrant Log calls made from inside an
	// OnLog callback, mirroring InspIRCd LogManager's "Logging" flag.
	logging bool
}

// NewManager returns an empty Manager with no subscribers.
func NewManager() *Manager {
	return &Manager{}
}

// AddLogTypes subscribes stream to the given types (or {"*"} for
// everything) at minLevel, with optional excluded types (only relevant
// alongside "*").
func (m *Manager) AddLogTypes(stream LogStream, types []string, excluded []string, minLevel Level) {
	typeSet := make(map[string]bool, len(types))
	for _, t := range types {
		typeSet[t] = true
	}
	exSet := make(map[string]bool, len(excluded))
	for _, t := range excluded {
		exSet[t] = true
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.subs = append(m.subs, &subscription{stream: stream, minLevel: minLevel, types: typeSet, excluded: exSet})
}

// DelLogType removes every subscription belonging to stream that would have
// matched logType, matching InspIRCd's DelLogType semantics of removing a
// single type entry; when a subscription's type set becomes empty it is
// removed entirely.
func (m *Manager) DelLogType(stream LogStream, logType string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	kept := m.subs[:0]
	for _, s := range m.subs {
		if s.stream == stream {
			delete(s.types, logType)
			if len(s.types) == 0 {
				continue
			}
		}
		kept = append(kept, s)
	}
	m.subs = kept
}

// RemoveStream unsubscribes stream entirely.
func (m *Manager) RemoveStream(stream LogStream) {
	m.mu.Lock()
	defer m.mu.Unlock()

	kept := m.subs[:0]
	for _, s := range m.subs {
		if s.stream != stream {
			kept = append(kept, s)
		}
	}
	m.subs = kept
}

// Log publishes a message of the given level and type. Reentrant calls made
// from inside a subscriber's OnLog are silently dropped.
func (m *Manager) Log(level Level, logType string, parts ...string) {
	m.mu.Lock()
	if m.logging {
		m.mu.Unlock()
		return
	}
	m.logging = true
	subs := m.subs
	m.mu.Unlock()

	for _, s := range subs {
		if s.accepts(level, logType) {
			s.stream.OnLog(level, logType, parts)
		}
	}

	m.mu.Lock()
	m.logging = false
	m.mu.Unlock()
}

func (m *Manager) Debug(logType string, parts ...string)   { m.Log(LevelDebug, logType, parts...) }
func (m *Manager) Verbose(logType string, parts ...string) { m.Log(LevelVerbose, logType, parts...) }
func (m *Manager) Info(logType string, parts ...string)    { m.Log(LevelDefault, logType, parts...) }
func (m *Manager) Warning(logType string, parts ...string) { m.Log(LevelSparse, logType, parts...) }

// FileStream is a LogStream that buffers lines to disk and flushes every
// flushEvery writes, flushing unconditionally on Close.
type FileStream struct {
	mu         sync.Mutex
	file       *os.File
	writer     *bufio.Writer
	flushEvery int
	writes     int
}

// OpenFileStream opens (creating/appending) path as a buffered log sink.
func OpenFileStream(path string, flushEvery int) (*FileStream, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0666)
	if err != nil {
		return nil, fmt.Errorf("opening log file %s: %w", path, err)
	}
	if flushEvery <= 0 {
		flushEvery = 1
	}
	return &FileStream{file: f, writer: bufio.NewWriter(f), flushEvery: flushEvery}, nil
}

// OnLog implements LogStream.
func (fs *FileStream) OnLog(level Level, logType string, parts []string) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	fmt.Fprintf(fs.writer, "%s : %-7s : %-12s : ", time.Now().UTC().Format("2006-01-02T15:04:05.000Z"), levelDisplay(level), logType)
	for i, p := range parts {
		fs.writer.WriteString(p)
		if i != len(parts)-1 {
			fs.writer.WriteString(" : ")
		}
	}
	fs.writer.WriteByte('\n')

	fs.writes++
	if fs.writes >= fs.flushEvery {
		fs.writer.Flush()
		fs.writes = 0
	}
}

// Close flushes any buffered output and closes the underlying file.
func (fs *FileStream) Close() error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	flushErr := fs.writer.Flush()
	closeErr := fs.file.Close()
	if flushErr != nil {
		return flushErr
	}
	return closeErr
}

func levelDisplay(l Level) string {
	switch l {
	case LevelRawIO:
		return "rawio"
	case LevelDebug:
		return "debug"
	case LevelVerbose:
		return "verbose"
	case LevelDefault:
		return "default"
	case LevelSparse:
		return "sparse"
	default:
		return "none"
	}
}

// StdStream is a LogStream writing to stdout or stderr.
type StdStream struct {
	mu    *sync.Mutex
	out   *os.File
}

// NewStdStream returns a stream writing to the given file (os.Stdout or
// os.Stderr), sharing lock with any other StdStream passed the same mutex.
func NewStdStream(out *os.File, lock *sync.Mutex) *StdStream {
	return &StdStream{mu: lock, out: out}
}

// OnLog implements LogStream.
func (s *StdStream) OnLog(level Level, logType string, parts []string) {
	line := fmt.Sprintf("%s : %-7s : %-12s : ", time.Now().UTC().Format("2006-01-02T15:04:05.000Z"), levelDisplay(level), logType)
	for i, p := range parts {
		line += p
		if i != len(parts)-1 {
			line += " : "
		}
	}
	line += "\n"

	s.mu.Lock()
	s.out.WriteString(line)
	s.mu.Unlock()
}
