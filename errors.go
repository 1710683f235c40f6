package ultra

import (
	"errors"
	"fmt"
)

// Decode errors. Every one of these is fatal: the decoder latches the error
// and surfaces no partial attribute set. Unknown attribute types are not
// errors; skipping them is the protocol's forward-compatibility mechanism.
var (
	ErrBadMagic                = errors.New("bad boot context magic")
	ErrUnsupportedMajorVersion = errors.New("unsupported protocol major version")
	ErrInvalidAttribute        = errors.New("invalid attribute type")
	ErrTruncatedHeader         = errors.New("truncated attribute header")
	ErrOutOfBounds             = errors.New("attribute extends past end of buffer")
	ErrMalformedRecord         = errors.New("malformed record")
	ErrOverlappingMemoryMap    = errors.New("memory map entries unsorted or overlapping")
	ErrUnterminatedString      = errors.New("unterminated string field")
	ErrOrderingViolation       = errors.New("attribute ordering violation")
	ErrDuplicateAttribute      = errors.New("duplicate singleton attribute")
	ErrAttributeCountMismatch  = errors.New("attribute count does not match stream")
)

// Builder errors, reported synchronously at the offending Append or Finish.
var (
	ErrMissingAttribute = errors.New("missing mandatory attribute")
	ErrBuilderFinished  = errors.New("builder already finished")
)

// Specific malformed-record conditions. Each wraps ErrMalformedRecord so
// errors.Is matches either the general or the specific error.
var (
	ErrMisalignedMemoryMap      = fmt.Errorf("%w: memory map size not a multiple of entry size", ErrMalformedRecord)
	ErrInvalidFramebufferFormat = fmt.Errorf("%w: invalid framebuffer format", ErrMalformedRecord)
	ErrFormatBppMismatch        = fmt.Errorf("%w: framebuffer bpp does not match format", ErrMalformedRecord)
)
