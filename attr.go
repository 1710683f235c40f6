package ultra

import "fmt"

// AttributeType tags each record in the boot context stream.
type AttributeType uint32

const (
	AttributeInvalid AttributeType = iota
	AttributePlatformInfo
	AttributeKernelInfo
	AttributeMemoryMap
	AttributeModuleInfo
	AttributeCommandLine
	AttributeFramebuffer
	AttributeApmInfo
)

func (t AttributeType) String() string {
	switch t {
	case AttributeInvalid:
		return "invalid"
	case AttributePlatformInfo:
		return "platform-info"
	case AttributeKernelInfo:
		return "kernel-info"
	case AttributeMemoryMap:
		return "memory-map"
	case AttributeModuleInfo:
		return "module-info"
	case AttributeCommandLine:
		return "command-line"
	case AttributeFramebuffer:
		return "framebuffer-info"
	case AttributeApmInfo:
		return "apm-info"
	default:
		return fmt.Sprintf("unknown(%d)", uint32(t))
	}
}

// singleton reports whether the protocol allows at most one attribute of
// this type per stream. Module-info repeats once per module; types this
// package does not know carry no uniqueness guarantee.
func (t AttributeType) singleton() bool {
	switch t {
	case AttributePlatformInfo, AttributeKernelInfo, AttributeMemoryMap,
		AttributeCommandLine, AttributeFramebuffer, AttributeApmInfo:
		return true
	default:
		return false
	}
}

// Attribute is one record in the boot context stream. Implementations are
// the typed records of this package plus Unknown for unrecognized types.
type Attribute interface {
	Kind() AttributeType

	// encodePayload serializes the record payload, header and padding
	// excluded. Encoding validates the same structural rules decoding does.
	encodePayload() ([]byte, error)
}

// checkPlacement enforces the stream-wide ordering and uniqueness rules in
// one place for both builder and decoder: platform-info first, kernel-info
// second and neither anywhere else, singleton types at most once, and all
// module-info attributes contiguous.
func checkPlacement(index uint32, t AttributeType, seen map[AttributeType]bool, last AttributeType) error {
	switch index {
	case 0:
		if t != AttributePlatformInfo {
			return fmt.Errorf("%w: first attribute is %s, want platform-info", ErrOrderingViolation, t)
		}
	case 1:
		if t != AttributeKernelInfo {
			return fmt.Errorf("%w: second attribute is %s, want kernel-info", ErrOrderingViolation, t)
		}
	default:
		if t == AttributePlatformInfo || t == AttributeKernelInfo {
			return fmt.Errorf("%w: %s at position %d", ErrOrderingViolation, t, index)
		}
	}
	if t.singleton() && seen[t] {
		return fmt.Errorf("%w: %s", ErrDuplicateAttribute, t)
	}
	if t == AttributeModuleInfo && seen[t] && last != AttributeModuleInfo {
		return fmt.Errorf("%w: module-info attributes must be contiguous", ErrOrderingViolation)
	}
	return nil
}

// Unknown preserves an attribute whose type this package does not recognize.
// The decoder skips over such records and hands them through opaquely;
// consumers must tolerate and ignore them. Payload holds a copy of the bytes
// after the header, padding included, so it stays valid after the backing
// buffer is reclaimed.
type Unknown struct {
	Type    AttributeType
	Payload []byte
}

func (u *Unknown) Kind() AttributeType { return u.Type }

func (u *Unknown) encodePayload() ([]byte, error) {
	return u.Payload, nil
}
