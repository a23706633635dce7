package stringutil

// Deduplicate returns list without repeated entries, keeping the first
// occurrence of each. A list without repeats is returned as is.
func Deduplicate(list []string) []string {
	return deduplicate(list)
}
