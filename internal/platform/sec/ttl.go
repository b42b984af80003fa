// Copyright (c) 2026 Vizit. All rights reserved.
// Author: dev@vizit.app

package sec

import (
	"regexp"
	"strconv"
	"time"
)

// ttlPattern matches the compact lifetime notation used in token
// configuration: an integer followed by a single unit (s, m, h, d).
// time.ParseDuration is not used because it has no day unit and the
// configuration format ("7d") predates this service.
var ttlPattern = regexp.MustCompile(`^(\d+)([smhd])$`)

// ParseTTL converts a compact lifetime string ("15m", "7d") into a duration.
//
// The second return value reports whether the input matched the expected
// pattern. Callers needing graceful degradation (see [TokenService.IssuePair])
// check it instead of treating a malformed TTL as a fatal error.
func ParseTTL(value string) (time.Duration, bool) {
	match := ttlPattern.FindStringSubmatch(value)
	if match == nil {
		return 0, false
	}

	// The regex guarantees digits only, so Atoi cannot fail here.
	amount, err := strconv.Atoi(match[1])
	if err != nil {
		return 0, false
	}

	var unit time.Duration
	switch match[2] {
	case "s":
		unit = time.Second
	case "m":
		unit = time.Minute
	case "h":
		unit = time.Hour
	case "d":
		unit = 24 * time.Hour
	}

	return time.Duration(amount) * unit, true
}
