package ultra

import (
	"bytes"
	"fmt"
)

// putFixedString copies s into dst as a null-terminated string. dst is
// expected to be freshly zeroed; the terminator and any trailing bytes stay
// zero. The string must leave room for the terminator.
func putFixedString(dst []byte, s string) error {
	if len(s) >= len(dst) {
		return fmt.Errorf("string of %d bytes does not fit in %d-byte field", len(s), len(dst))
	}
	copy(dst, s)
	return nil
}

// fixedString reads a null-terminated string from a fixed-capacity field.
// Bytes after the first terminator are unspecified and ignored; a field with
// no terminator within its capacity is corrupt.
func fixedString(src []byte) (string, error) {
	i := bytes.IndexByte(src, 0)
	if i < 0 {
		return "", fmt.Errorf("%w: no terminator within %d bytes", ErrUnterminatedString, len(src))
	}
	return string(src[:i]), nil
}
