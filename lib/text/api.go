// Package text formats tabular output for the command line.
package text

import (
	"io"
)

// A ColumnCollector collects lines of fields and writes them with the
// columns aligned. Lines may have different numbers of fields; the last
// field of a line is never padded. The zero value is ready to use.
type ColumnCollector struct {
	currentLine []string
	lines       [][]string
	widths      []int
}

// AddField will add a field to the line being collected.
func (cc *ColumnCollector) AddField(str string) error {
	return cc.addField(str)
}

// AddFields will add the fields as a complete line.
func (cc *ColumnCollector) AddFields(fields ...string) error {
	return cc.addFields(fields)
}

// CompleteLine marks the end of the line being collected. Empty lines are
// ignored.
func (cc *ColumnCollector) CompleteLine() error {
	return cc.completeLine()
}

// WriteLeftAligned will write the collected lines to w with the columns
// aligned on the left, separated by a space. The collected lines are cleared
// on success.
func (cc *ColumnCollector) WriteLeftAligned(w io.Writer) error {
	return cc.writeLeftAligned(w)
}
