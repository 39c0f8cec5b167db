package util

import (
	"fmt"
	"strconv"
	"strings"
)

var sizeUnits = []struct {
	suffix string
	bytes  float64
}{
	{"GB", 1 << 30},
	{"MB", 1 << 20},
	{"KB", 1 << 10},
	{"G", 1 << 30},
	{"M", 1 << 20},
	{"K", 1 << 10},
	{"B", 1},
}

// ParseByteSize parses a size such as "25MB", "512k", "1.5GB" or "1048576"
// into bytes. Units are binary.
func ParseByteSize(s string) (int64, error) {
	v := strings.ToUpper(strings.TrimSpace(s))
	if v == "" {
		return 0, fmt.Errorf("empty size")
	}

	multiplier := 1.0
	for _, u := range sizeUnits {
		if strings.HasSuffix(v, u.suffix) {
			multiplier = u.bytes
			v = strings.TrimSpace(strings.TrimSuffix(v, u.suffix))
			break
		}
	}

	n, err := strconv.ParseFloat(v, 64)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid size %q", s)
	}
	return int64(n * multiplier), nil
}

// ParseSize is ParseByteSize with a fallback for blank or malformed input.
func ParseSize(s string, defaultBytes int64) int64 {
	n, err := ParseByteSize(s)
	if err != nil {
		return defaultBytes
	}
	return n
}

// MaskSecret keeps the first visiblePrefix characters of a credential.
// Anything that short is masked entirely.
func MaskSecret(s string, visiblePrefix int) string {
	if len(s) <= visiblePrefix {
		return "***"
	}
	return s[:visiblePrefix] + "***"
}
