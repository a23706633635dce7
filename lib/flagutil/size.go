package flagutil

import (
	"errors"
	"strconv"
	"strings"

	"github.com/redox-os-tools/disk-installer/lib/format"
)

func (s Size) String() string {
	return format.FormatBytes(uint64(s))
}

func (s *Size) Set(value string) error {
	value = strings.TrimSpace(value)
	value = strings.TrimSuffix(strings.TrimSuffix(value, "B"), "i")
	if value == "" {
		return errors.New("empty size")
	}
	var shift uint
	switch value[len(value)-1] {
	case 'K', 'k':
		shift = 10
	case 'M', 'm':
		shift = 20
	case 'G', 'g':
		shift = 30
	case 'T', 't':
		shift = 40
	}
	if shift > 0 {
		value = value[:len(value)-1]
	}
	val, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return err
	}
	if val<<shift>>shift != val {
		return errors.New("size overflows: " + value)
	}
	*s = Size(val << shift)
	return nil
}
