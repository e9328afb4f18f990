package main

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// formatMillis renders a capture offset as m:ss.mmm.
func formatMillis(ms int64) string {
	sign := ""
	if ms < 0 {
		sign = "-"
		ms = -ms
	}
	minutes := ms / 60000
	seconds := (ms % 60000) / 1000
	return fmt.Sprintf("%s%d:%02d.%03d", sign, minutes, seconds, ms%1000)
}

func formatEnd(ms *int64) string {
	if ms == nil {
		return "-"
	}
	return formatMillis(*ms)
}

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}

func truncate(value string, max int) string {
	value = strings.TrimSpace(value)
	if max <= 1 || utf8.RuneCountInString(value) <= max {
		return value
	}
	runes := []rune(value)
	return string(runes[:max-1]) + "…"
}

func orDash(value string) string {
	if strings.TrimSpace(value) == "" {
		return "-"
	}
	return value
}
