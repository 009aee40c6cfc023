package logtail

import (
	"strings"
	"time"
)

// Entry is one line of the program log split into its console-encoder
// columns: time, level, message and the JSON-ish field blob.
type Entry struct {
	Time    time.Time
	Level   string
	Message string
	Fields  string
	Raw     string
}

const timeLayout = "2006-01-02T15:04:05.000Z0700"

// Parse splits a tab separated log line. Lines that do not look like log
// records come back with only Raw set.
func Parse(line string) Entry {
	e := Entry{Raw: line}
	parts := strings.SplitN(line, "\t", 4)
	if len(parts) < 3 {
		return e
	}
	ts, err := time.Parse(timeLayout, parts[0])
	if err != nil {
		return e
	}
	level := strings.ToUpper(strings.TrimSpace(parts[1]))
	if !knownLevel(level) {
		return e
	}
	e.Time = ts
	e.Level = level
	e.Message = parts[2]
	if len(parts) == 4 {
		e.Fields = strings.TrimSpace(parts[3])
	}
	return e
}

func knownLevel(level string) bool {
	switch level {
	case "DEBUG", "INFO", "WARN", "ERROR", "DPANIC", "PANIC", "FATAL":
		return true
	default:
		return false
	}
}
