// Package logfile reads terminal login logs.
//
// Each line holds three whitespace-separated fields:
//
//	<signed-terminal> <epoch-millis> <username>
//
// A positive terminal is a login and a negative one a logout; the absolute
// value is the terminal number. Blank lines are skipped.
package logfile

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/daviddao/loginstats/pkg/model"
)

// ParseLine parses one log line into an Event.
func ParseLine(line string) (model.Event, error) {
	fields := strings.Fields(line)
	if len(fields) != 3 {
		return model.Event{}, fmt.Errorf("%w: want 3 fields, got %d", model.ErrInvalidArgument, len(fields))
	}
	terminal, err := strconv.Atoi(fields[0])
	if err != nil {
		return model.Event{}, fmt.Errorf("%w: terminal %q: %v", model.ErrInvalidArgument, fields[0], err)
	}
	ms, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil {
		return model.Event{}, fmt.Errorf("%w: timestamp %q: %v", model.ErrInvalidArgument, fields[1], err)
	}
	kind := model.KindLogin
	if terminal < 0 {
		kind = model.KindLogout
		terminal = -terminal
	}
	return model.NewEvent(terminal, kind, fields[2], time.UnixMilli(ms))
}

// FormatLine renders e in the log-file format. It is the inverse of
// ParseLine.
func FormatLine(e model.Event) string {
	return e.String()
}

// Read parses every line of r. The first malformed line stops the read and
// is reported with its line number.
func Read(r io.Reader) ([]model.Event, error) {
	var events []model.Event
	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := sc.Text()
		if strings.TrimSpace(line) == "" {
			slog.Debug("logfile: skipping blank line", "line", lineNo)
			continue
		}
		e, err := ParseLine(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		events = append(events, e)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read line %d: %w", lineNo+1, err)
	}
	return events, nil
}

// ReadFile opens path and parses it with Read.
func ReadFile(path string) ([]model.Event, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	events, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	slog.Info("logfile: loaded", "path", path, "events", len(events))
	return events, nil
}

// Write writes events to w, one line each.
func Write(w io.Writer, events []model.Event) error {
	bw := bufio.NewWriter(w)
	for _, e := range events {
		if _, err := fmt.Fprintln(bw, FormatLine(e)); err != nil {
			return err
		}
	}
	return bw.Flush()
}
