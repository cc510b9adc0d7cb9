package cli

import (
	"strconv"
	"strings"

	"github.com/arthur-debert/switchboard/pkg/types"
)

// ParseCall converts command-line words into a call. `key=value` words
// become named arguments; everything else is positional. Values are
// read by parseValue.
func ParseCall(words []string) types.Call {
	var call types.Call
	for _, w := range words {
		if key, value, ok := strings.Cut(w, "="); ok && isIdentifier(key) {
			call = call.With(key, parseValue(value))
			continue
		}
		call.Args = append(call.Args, parseValue(w))
	}
	return call
}

// parseValue reads integers, floats, booleans and "none". Quoted words
// and everything else stay strings.
func parseValue(s string) any {
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1]
	}
	if i, err := strconv.Atoi(s); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	switch s {
	case "true":
		return true
	case "false":
		return false
	case "none":
		return nil
	}
	return s
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}
