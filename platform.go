package ultra

import (
	"encoding/binary"
	"fmt"
)

// PlatformType identifies the firmware environment the loader ran under.
type PlatformType uint32

const (
	PlatformInvalid PlatformType = iota
	PlatformBIOS
	PlatformUEFI
)

func (p PlatformType) String() string {
	switch p {
	case PlatformBIOS:
		return "BIOS"
	case PlatformUEFI:
		return "UEFI"
	default:
		return fmt.Sprintf("platform(%d)", uint32(p))
	}
}

const (
	loaderNameSize   = 32
	platformInfoSize = 48
)

// PlatformInfo describes the loader and the firmware platform it ran under.
// It must be the first attribute of every boot context.
type PlatformInfo struct {
	Platform    PlatformType
	LoaderMajor uint16
	LoaderMinor uint16
	LoaderName  string // null-terminated on the wire, at most 31 bytes

	// ACPIRSDPAddress is the physical address of the ACPI RSDP, or zero if
	// the platform did not provide one.
	ACPIRSDPAddress uint64
}

func (p *PlatformInfo) Kind() AttributeType { return AttributePlatformInfo }

func (p *PlatformInfo) encodePayload() ([]byte, error) {
	if p.Platform == PlatformInvalid {
		return nil, fmt.Errorf("platform type is unset")
	}
	out := make([]byte, platformInfoSize)
	binary.LittleEndian.PutUint32(out[0:4], uint32(p.Platform))
	binary.LittleEndian.PutUint16(out[4:6], p.LoaderMajor)
	binary.LittleEndian.PutUint16(out[6:8], p.LoaderMinor)
	if err := putFixedString(out[8:8+loaderNameSize], p.LoaderName); err != nil {
		return nil, fmt.Errorf("loader name: %w", err)
	}
	binary.LittleEndian.PutUint64(out[40:48], p.ACPIRSDPAddress)
	return out, nil
}

func decodePlatformInfo(payload []byte) (*PlatformInfo, error) {
	if len(payload) < platformInfoSize {
		return nil, fmt.Errorf("%w: platform-info payload is %d bytes, want at least %d",
			ErrMalformedRecord, len(payload), platformInfoSize)
	}
	name, err := fixedString(payload[8 : 8+loaderNameSize])
	if err != nil {
		return nil, fmt.Errorf("loader name: %w", err)
	}
	return &PlatformInfo{
		Platform:        PlatformType(binary.LittleEndian.Uint32(payload[0:4])),
		LoaderMajor:     binary.LittleEndian.Uint16(payload[4:6]),
		LoaderMinor:     binary.LittleEndian.Uint16(payload[6:8]),
		LoaderName:      name,
		ACPIRSDPAddress: binary.LittleEndian.Uint64(payload[40:48]),
	}, nil
}
