// Copyright (c) 2026 Vizit. All rights reserved.
// Author: dev@vizit.app

package sec_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/vizitapp/vizit/internal/platform/sec"
)

/*
TestParseTTL covers the compact <integer><unit> lifetime format.
*/
func TestParseTTL(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected time.Duration
		ok       bool
	}{
		{"seconds", "30s", 30 * time.Second, true},
		{"minutes", "15m", 15 * time.Minute, true},
		{"hours", "12h", 12 * time.Hour, true},
		{"days", "7d", 7 * 24 * time.Hour, true},
		{"single_digit", "1s", 1 * time.Second, true},
		{"large_value", "3650d", 3650 * 24 * time.Hour, true},
		{"empty", "", 0, false},
		{"missing_unit", "15", 0, false},
		{"missing_value", "m", 0, false},
		{"unknown_unit", "15w", 0, false},
		{"negative", "-15m", 0, false},
		{"decimal", "1.5h", 0, false},
		{"go_duration_style", "1h30m", 0, false},
		{"trailing_junk", "15m ", 0, false},
		{"leading_junk", " 15m", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			duration, ok := sec.ParseTTL(tt.input)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.expected, duration)
			}
		})
	}
}
