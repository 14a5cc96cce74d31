package gcode

import (
	"strconv"
	"strings"
)

// formatFloat renders v as the shortest decimal that round-trips at
// single precision, never in exponent form: 10 -> "10", 0.17 -> "0.17".
// Downstream tools diff the text, so this must not change.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 32)
}

// line accumulates the fields of one command.
type line struct {
	b strings.Builder
}

func newLine(opcode string) *line {
	l := &line{}
	l.b.WriteString(opcode)
	return l
}

func (l *line) float(letter byte, v float64) *line {
	l.b.WriteByte(' ')
	l.b.WriteByte(letter)
	l.b.WriteString(formatFloat(v))
	return l
}

func (l *line) integer(letter byte, v uint64) *line {
	l.b.WriteByte(' ')
	l.b.WriteByte(letter)
	l.b.WriteString(strconv.FormatUint(v, 10))
	return l
}

func (l *line) optFloat(letter byte, o Opt[float64]) *line {
	if v, ok := o.Get(); ok {
		l.float(letter, v)
	}
	return l
}

func (l *line) optFeed(o Opt[uint32]) *line {
	if v, ok := o.Get(); ok {
		l.integer('F', uint64(v))
	}
	return l
}

func (l *line) optIndex(letter byte, o Opt[uint8]) *line {
	if v, ok := o.Get(); ok {
		l.integer(letter, uint64(v))
	}
	return l
}

func (l *line) String() string {
	l.b.WriteByte('\n')
	return l.b.String()
}
