package verstr

import (
	"sort"
	"strings"
)

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

// digitRun returns the run of digits at the start of s, without leading zeros,
// and the length of the whole run.
func digitRun(s string) (string, int) {
	length := 0
	for length < len(s) && isDigit(s[length]) {
		length++
	}
	return strings.TrimLeft(s[:length], "0"), length
}

func less(left, right string) bool {
	for len(left) > 0 && len(right) > 0 {
		if isDigit(left[0]) && isDigit(right[0]) {
			leftNumber, leftLength := digitRun(left)
			rightNumber, rightLength := digitRun(right)
			if len(leftNumber) != len(rightNumber) {
				return len(leftNumber) < len(rightNumber)
			}
			if leftNumber != rightNumber {
				return leftNumber < rightNumber
			}
			left = left[leftLength:]
			right = right[rightLength:]
			continue
		}
		if left[0] != right[0] {
			return left[0] < right[0]
		}
		left = left[1:]
		right = right[1:]
	}
	return len(left) < len(right)
}

func doSort(list []string) {
	sort.SliceStable(list, func(i, j int) bool {
		return less(list[i], list[j])
	})
}
