// Package format renders durations and byte counts for log lines and
// summaries.
package format
