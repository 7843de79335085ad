// Package gcode provides the G-code front end for the polar-XZ motion
// core: a line parser and an interpreter that maps commands onto the
// planner and kinematics operations.
package gcode

import (
	"fmt"
	"strconv"
	"strings"
)

// Command is a parsed G-code command.
type Command struct {
	Type    byte // 'G', 'M' or 'T'
	Number  int
	Params  map[byte]float64
	Comment string
}

// Has reports whether a parameter is present.
func (c *Command) Has(param byte) bool {
	_, ok := c.Params[param]
	return ok
}

// Get returns a parameter value, or def when absent.
func (c *Command) Get(param byte, def float64) float64 {
	if v, ok := c.Params[param]; ok {
		return v
	}
	return def
}

// ParseLine parses a single line of G-code. Empty and comment-only lines
// return a nil command.
func ParseLine(line string) (*Command, error) {
	line = strings.TrimSpace(line)
	comment := ""
	if i := strings.IndexByte(line, ';'); i >= 0 {
		comment = strings.TrimSpace(line[i+1:])
		line = strings.TrimSpace(line[:i])
	}
	if line == "" {
		return nil, nil
	}

	words := strings.Fields(line)
	letter, number, err := parseWord(words[0])
	if err != nil {
		return nil, err
	}
	if letter != 'G' && letter != 'M' && letter != 'T' {
		return nil, fmt.Errorf("unknown command word %q", words[0])
	}
	cmd := &Command{
		Type:    letter,
		Number:  int(number),
		Params:  make(map[byte]float64),
		Comment: comment,
	}
	for _, word := range words[1:] {
		letter, value, err := parseWord(word)
		if err != nil {
			return nil, err
		}
		cmd.Params[letter] = value
	}
	return cmd, nil
}

// parseWord splits a G-code word into its uppercase letter and value.
// A bare letter (e.g. "X" in "G28 X") parses as value 0.
func parseWord(word string) (byte, float64, error) {
	letter := word[0]
	if letter >= 'a' && letter <= 'z' {
		letter -= 'a' - 'A'
	}
	if letter < 'A' || letter > 'Z' {
		return 0, 0, fmt.Errorf("malformed word %q", word)
	}
	if len(word) == 1 {
		return letter, 0, nil
	}
	value, err := strconv.ParseFloat(word[1:], 64)
	if err != nil {
		return 0, 0, fmt.Errorf("malformed word %q", word)
	}
	return letter, value, nil
}
