package flagutil

import (
	"strings"
)

func (sl *StringList) String() string {
	return strings.Join(*sl, ",")
}

func (sl *StringList) Set(value string) error {
	newList := make(StringList, 0)
	if value != "" {
		for _, str := range strings.Split(value, ",") {
			if str = strings.TrimSpace(str); str != "" {
				newList = append(newList, str)
			}
		}
	}
	*sl = newList
	return nil
}
