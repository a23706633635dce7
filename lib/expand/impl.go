package expand

import (
	"os"
	"strconv"
	"strings"
)

func expandExpression(expr string, mappingFunc func(string) string) string {
	return os.Expand(expr, func(parameter string) string {
		return expandVariable(parameter, mappingFunc)
	})
}

func expandOpportunisticExpression(expr string,
	mappingFunc func(string) string) string {
	var missing bool
	result := os.Expand(expr, func(parameter string) string {
		value := expandVariable(parameter, mappingFunc)
		if value == "" {
			missing = true
		}
		return value
	})
	if missing {
		return expr
	}
	return result
}

// parseIndex returns the index of a range bound. Negative values count back
// from length.
func parseIndex(bound string, length int) (int, bool) {
	index, err := strconv.Atoi(bound)
	if err != nil {
		return 0, false
	}
	if index < 0 {
		index += length
	}
	if index < 0 || index > length {
		return 0, false
	}
	return index, true
}

func expandVariable(variable string, mappingFunc func(string) string) string {
	open := strings.IndexByte(variable, '[')
	if open < 0 || variable[len(variable)-1] != ']' {
		return mappingFunc(variable)
	}
	if open < 1 || len(variable) < open+4 {
		return ""
	}
	value := mappingFunc(variable[:open])
	if value == "" {
		return ""
	}
	separator := variable[open+1 : open+2]
	components := strings.Split(value, separator)
	bounds := strings.Split(variable[open+2:len(variable)-1], ":")
	if len(bounds) != 2 {
		return ""
	}
	start, end := 0, len(components)
	var ok bool
	if bounds[0] != "" {
		if start, ok = parseIndex(bounds[0], len(components)); !ok {
			return ""
		}
	}
	if bounds[1] != "" {
		if end, ok = parseIndex(bounds[1], len(components)); !ok {
			return ""
		}
	}
	if end < start {
		return ""
	}
	return strings.Join(components[start:end], separator)
}
