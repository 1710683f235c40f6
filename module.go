package ultra

import (
	"encoding/binary"
	"fmt"
)

// ModuleType distinguishes modules backed by a file from pre-allocated
// memory regions.
type ModuleType uint32

const (
	ModuleInvalid ModuleType = iota
	ModuleFile
	ModuleMemory
)

func (t ModuleType) String() string {
	switch t {
	case ModuleFile:
		return "file"
	case ModuleMemory:
		return "memory"
	default:
		return fmt.Sprintf("module(%d)", uint32(t))
	}
}

const (
	moduleNameSize = 64
	moduleInfoSize = 88
)

// ModuleInfo describes one file or memory region the loader placed for the
// kernel. Unlike every other attribute type it may appear multiple times,
// once per module, with all instances contiguous in the stream.
type ModuleInfo struct {
	Type    ModuleType
	Name    string // null-terminated on the wire, at most 63 bytes
	Address uint64
	Size    uint64
}

func (m *ModuleInfo) Kind() AttributeType { return AttributeModuleInfo }

func (m *ModuleInfo) encodePayload() ([]byte, error) {
	if m.Type == ModuleInvalid {
		return nil, fmt.Errorf("module type is unset")
	}
	out := make([]byte, moduleInfoSize)
	// out[0:4] reserved, zero
	binary.LittleEndian.PutUint32(out[4:8], uint32(m.Type))
	if err := putFixedString(out[8:8+moduleNameSize], m.Name); err != nil {
		return nil, fmt.Errorf("module name: %w", err)
	}
	binary.LittleEndian.PutUint64(out[72:80], m.Address)
	binary.LittleEndian.PutUint64(out[80:88], m.Size)
	return out, nil
}

func decodeModuleInfo(payload []byte) (*ModuleInfo, error) {
	if len(payload) < moduleInfoSize {
		return nil, fmt.Errorf("%w: module-info payload is %d bytes, want at least %d",
			ErrMalformedRecord, len(payload), moduleInfoSize)
	}
	name, err := fixedString(payload[8 : 8+moduleNameSize])
	if err != nil {
		return nil, fmt.Errorf("module name: %w", err)
	}
	return &ModuleInfo{
		Type:    ModuleType(binary.LittleEndian.Uint32(payload[4:8])),
		Name:    name,
		Address: binary.LittleEndian.Uint64(payload[72:80]),
		Size:    binary.LittleEndian.Uint64(payload[80:88]),
	}, nil
}
