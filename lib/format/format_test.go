package format

import (
	"testing"
	"time"
)

func TestDuration(t *testing.T) {
	testcases := []struct {
		duration time.Duration
		expected string
	}{
		{500 * time.Nanosecond, "500ns"},
		{1500 * time.Microsecond, "1.5ms"},
		{2500 * time.Millisecond, "2.5s"},
		{90 * time.Second, "1m30s"},
		{90*time.Second + 300*time.Millisecond, "1m30s"},
		{25 * time.Hour, "1d1h0m0s"},
	}
	for _, testcase := range testcases {
		if result := Duration(testcase.duration); result != testcase.expected {
			t.Errorf("%d: expected: \"%s\" != result: \"%s\"",
				testcase.duration, testcase.expected, result)
		}
	}
}

func TestFormatBytes(t *testing.T) {
	testcases := []struct {
		bytes    uint64
		expected string
	}{
		{512, "512 B"},
		{512 << 20, "512 MiB"},
		{2 << 30, "2 GiB"},
		{500107862016, "465 GiB"},
	}
	for _, testcase := range testcases {
		if result := FormatBytes(testcase.bytes); result != testcase.expected {
			t.Errorf("%d: expected: \"%s\" != result: \"%s\"",
				testcase.bytes, testcase.expected, result)
		}
	}
}

func TestFormatDecimalBytes(t *testing.T) {
	if result := FormatDecimalBytes(500107862016); result != "500.1 GB" {
		t.Errorf("result: %s", result)
	}
	if result := FormatDecimalBytes(999); result != "999 B" {
		t.Errorf("result: %s", result)
	}
}
