package replay

import (
	"bufio"
	"encoding/json"
	"io"
	"strings"
)

// Reader decodes a replay one record at a time. The header is read and
// checked by NewReader.
type Reader struct {
	scanner *bufio.Scanner
	line    int
	header  Header
}

func NewReader(r io.Reader) (*Reader, error) {
	rd := &Reader{scanner: bufio.NewScanner(r)}

	text, err := rd.nextLine()
	if err == io.EOF {
		return nil, &FormatError{Line: rd.line, Reason: "replay is empty (missing header)"}
	}
	if err != nil {
		return nil, err
	}

	var probe struct {
		E *string `json:"e"`
	}
	if err := json.Unmarshal([]byte(text), &probe); err != nil {
		return nil, &FormatError{Line: rd.line, Reason: "malformed header", Err: err}
	}
	if probe.E != nil {
		return nil, &FormatError{Line: rd.line, Reason: "missing header"}
	}
	if err := json.Unmarshal([]byte(text), &rd.header); err != nil {
		return nil, &FormatError{Line: rd.line, Reason: "malformed header", Err: err}
	}
	switch {
	case rd.header.V < 1:
		return nil, &FormatError{Line: rd.line, Reason: "missing format version"}
	case rd.header.V > Version:
		return nil, &FormatError{Line: rd.line, Reason: "replay format is newer than this reader"}
	}
	return rd, nil
}

func (r *Reader) Header() Header { return r.header }

// Line returns the number of the last line read.
func (r *Reader) Line() int { return r.line }

// Next returns the next record, or io.EOF after the last one.
func (r *Reader) Next() (Record, error) {
	text, err := r.nextLine()
	if err != nil {
		return nil, err
	}

	var probe struct {
		E string `json:"e"`
	}
	if err := json.Unmarshal([]byte(text), &probe); err != nil {
		return nil, &FormatError{Line: r.line, Reason: "malformed record", Err: err}
	}

	switch probe.E {
	case rollTag:
		var roll Roll
		if err := json.Unmarshal([]byte(text), &roll); err != nil {
			return nil, &FormatError{Line: r.line, Reason: "malformed roll", Err: err}
		}
		if err := roll.validate(); err != nil {
			return nil, &FormatError{Line: r.line, Reason: "invalid roll", Err: err}
		}
		return roll, nil
	case moveTag:
		var move Move
		if err := json.Unmarshal([]byte(text), &move); err != nil {
			return nil, &FormatError{Line: r.line, Reason: "malformed move", Err: err}
		}
		if err := move.validate(); err != nil {
			return nil, &FormatError{Line: r.line, Reason: "invalid move", Err: err}
		}
		return move, nil
	default:
		return nil, &FormatError{Line: r.line, Reason: "invalid replay event line: " + text}
	}
}

// nextLine skips blank lines.
func (r *Reader) nextLine() (string, error) {
	for r.scanner.Scan() {
		r.line++
		if text := strings.TrimSpace(r.scanner.Text()); text != "" {
			return text, nil
		}
	}
	if err := r.scanner.Err(); err != nil {
		return "", &FormatError{Line: r.line, Reason: "read failed", Err: err}
	}
	return "", io.EOF
}
