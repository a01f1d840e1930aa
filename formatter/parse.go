package formatter

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/philipp01105/tradingengine/core"
)

// linePattern matches the TextFormatter layout. The thread name column
// is exactly ThreadNameWidth runes.
var linePattern = regexp.MustCompile(
	`^\[(\d{4}-\d{2}-\d{2} \d{2}-\d{2}-\d{2}\.\d{7})\] \[(.{30}):(\d{3,})\] \[([A-Za-z]+)\] (.*)$`)

// ParsedLine is one line of a log file split into its columns
type ParsedLine struct {
	Time       time.Time
	ThreadName string
	ThreadID   uint64
	Level      core.Level
	Message    string
}

// ParseLine splits a line written by TextFormatter with the default
// layout. The trailing newline is optional. Times are read in loc, or
// the local zone when loc is nil.
func ParseLine(line string, loc *time.Location) (ParsedLine, error) {
	if loc == nil {
		loc = time.Local
	}
	m := linePattern.FindStringSubmatch(strings.TrimSuffix(line, "\n"))
	if m == nil {
		return ParsedLine{}, errors.Errorf("malformed log line %q", line)
	}

	ts, err := time.ParseInLocation(TimestampLayout, m[1], loc)
	if err != nil {
		return ParsedLine{}, errors.Wrap(err, "parse timestamp")
	}
	id, err := strconv.ParseUint(m[3], 10, 64)
	if err != nil {
		return ParsedLine{}, errors.Wrap(err, "parse thread id")
	}
	level, err := core.ParseLevel(m[4])
	if err != nil {
		return ParsedLine{}, err
	}

	return ParsedLine{
		Time:       ts,
		ThreadName: strings.TrimRight(m[2], " "),
		ThreadID:   id,
		Level:      level,
		Message:    m[5],
	}, nil
}
