package stringutil

func deduplicate(list []string) []string {
	seen := make(map[string]struct{}, len(list))
	for index, entry := range list {
		if _, ok := seen[entry]; ok {
			return appendUnseen(list[:index:index], list[index+1:], seen)
		}
		seen[entry] = struct{}{}
	}
	return list
}

// appendUnseen appends the entries of tail not in seen to a copy of head.
func appendUnseen(head, tail []string, seen map[string]struct{}) []string {
	output := make([]string, len(head), len(head)+len(tail))
	copy(output, head)
	for _, entry := range tail {
		if _, ok := seen[entry]; !ok {
			output = append(output, entry)
			seen[entry] = struct{}{}
		}
	}
	return output
}
