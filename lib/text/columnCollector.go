package text

import (
	"bufio"
	"io"
	"strings"
)

func (cc *ColumnCollector) addField(str string) error {
	index := len(cc.currentLine)
	if index >= len(cc.widths) {
		cc.widths = append(cc.widths, 0)
	}
	if len(str) > cc.widths[index] {
		cc.widths[index] = len(str)
	}
	cc.currentLine = append(cc.currentLine, str)
	return nil
}

func (cc *ColumnCollector) addFields(fields []string) error {
	for _, field := range fields {
		if err := cc.addField(field); err != nil {
			return err
		}
	}
	return cc.completeLine()
}

func (cc *ColumnCollector) completeLine() error {
	if len(cc.currentLine) > 0 {
		cc.lines = append(cc.lines, cc.currentLine)
		cc.currentLine = nil
	}
	return nil
}

func (cc *ColumnCollector) writeLeftAligned(w io.Writer) error {
	writer := bufio.NewWriter(w)
	for _, line := range cc.lines {
		last := len(line) - 1
		for index, field := range line[:last] {
			writer.WriteString(field)
			writer.WriteString(
				strings.Repeat(" ", cc.widths[index]-len(field)+1))
		}
		writer.WriteString(line[last])
		writer.WriteByte('\n')
	}
	if err := writer.Flush(); err != nil {
		return err
	}
	*cc = ColumnCollector{}
	return nil
}
