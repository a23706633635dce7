/*
Package verstr compares strings which embed numbers, such as version strings
and device names, so that embedded numbers are ordered by value.
*/
package verstr

// Less returns true if left sorts before right. Runs of digits are compared
// by numeric value, other characters are compared bytewise.
func Less(left, right string) bool {
	return less(left, right)
}

// Sort sorts list in place using Less.
func Sort(list []string) {
	doSort(list)
}
