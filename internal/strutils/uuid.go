package strutils

import (
	"fmt"
	"strings"
	"unicode"
)

const VALID_HEX_DIGITS = "0123456789abcdefABCDEF"

const STRIPPED_UUID_LENGTH = 32

// Accepts dashed or undashed hex and returns the canonical dashed lowercase form
func NormalizeUUID(uuid string) (string, error) {
	var normalized strings.Builder
	builderCap := normalized.Cap()
	missingCap := STRIPPED_UUID_LENGTH - builderCap
	if missingCap > 0 {
		normalized.Grow(missingCap)
	}

	for _, char := range uuid {
		if char == '-' {
			continue
		} else if strings.ContainsRune(VALID_HEX_DIGITS, char) {
			_, err := normalized.WriteRune(unicode.ToLower(char))
			if err != nil {
				return "", fmt.Errorf("failed writing to stringbuilder: %w", err)
			}
		} else {
			return "", fmt.Errorf("invalid character in UUID. input: '%s'", uuid)
		}
	}
	if normalized.Len() != STRIPPED_UUID_LENGTH {
		return "", fmt.Errorf("normalized UUID has incorrect length. input: '%s'", uuid)
	}
	stripped := normalized.String()
	return fmt.Sprintf(
		"%s-%s-%s-%s-%s",
		stripped[:8], stripped[8:12], stripped[12:16], stripped[16:20], stripped[20:],
	), nil
}

// UUIDIsNormalized reports whether the input is already in canonical form
func UUIDIsNormalized(uuid string) bool {
	normalized, err := NormalizeUUID(uuid)
	if err != nil {
		return false
	}
	return uuid == normalized
}
