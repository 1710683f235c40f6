package ultra

import (
	"encoding/binary"
	"fmt"
)

// MemoryType classifies a memory map entry. The decoder passes values
// outside the known set through unchanged; consumers apply the protocol's
// lenient policy of treating them as reserved (see Effective).
type MemoryType uint64

const (
	MemoryInvalid     MemoryType = 0
	MemoryFree        MemoryType = 1
	MemoryReserved    MemoryType = 2
	MemoryReclaimable MemoryType = 3
	MemoryNVS         MemoryType = 4

	// Loader-defined ranges. LoaderReclaimable covers the boot context
	// itself: the kernel may free it, but only after decoding everything.
	MemoryLoaderReclaimable MemoryType = 0xFFFF0001
	MemoryModule            MemoryType = 0xFFFF0002
	MemoryKernelStack       MemoryType = 0xFFFF0003
	MemoryKernelBinary      MemoryType = 0xFFFF0004
)

// Known reports whether t is one of the types this protocol revision
// defines.
func (t MemoryType) Known() bool {
	switch t {
	case MemoryFree, MemoryReserved, MemoryReclaimable, MemoryNVS,
		MemoryLoaderReclaimable, MemoryModule, MemoryKernelStack, MemoryKernelBinary:
		return true
	default:
		return false
	}
}

// Effective normalizes unknown types to MemoryReserved, the consumer-side
// interpretation the protocol mandates for future type values.
func (t MemoryType) Effective() MemoryType {
	if t.Known() {
		return t
	}
	return MemoryReserved
}

func (t MemoryType) String() string {
	switch t {
	case MemoryFree:
		return "free"
	case MemoryReserved:
		return "reserved"
	case MemoryReclaimable:
		return "reclaimable"
	case MemoryNVS:
		return "nvs"
	case MemoryLoaderReclaimable:
		return "loader-reclaimable"
	case MemoryModule:
		return "module"
	case MemoryKernelStack:
		return "kernel-stack"
	case MemoryKernelBinary:
		return "kernel-binary"
	default:
		return fmt.Sprintf("reserved(%#x)", uint64(t))
	}
}

const memoryMapEntrySize = 24

// MemoryMapEntry is one physical memory range.
type MemoryMapEntry struct {
	PhysicalAddress uint64
	Size            uint64
	Type            MemoryType
}

// MemoryMap holds the loader's physical memory map. Entries must be sorted
// by strictly ascending physical address and must not overlap; both encode
// and decode enforce this.
type MemoryMap struct {
	Entries []MemoryMapEntry
}

func (m *MemoryMap) Kind() AttributeType { return AttributeMemoryMap }

func (m *MemoryMap) encodePayload() ([]byte, error) {
	if err := validateMemoryMap(m.Entries); err != nil {
		return nil, err
	}
	out := make([]byte, len(m.Entries)*memoryMapEntrySize)
	for i, e := range m.Entries {
		off := i * memoryMapEntrySize
		binary.LittleEndian.PutUint64(out[off:], e.PhysicalAddress)
		binary.LittleEndian.PutUint64(out[off+8:], e.Size)
		binary.LittleEndian.PutUint64(out[off+16:], uint64(e.Type))
	}
	return out, nil
}

func decodeMemoryMap(payload []byte) (*MemoryMap, error) {
	if len(payload)%memoryMapEntrySize != 0 {
		return nil, fmt.Errorf("%w: %d payload bytes", ErrMisalignedMemoryMap, len(payload))
	}
	entries := make([]MemoryMapEntry, len(payload)/memoryMapEntrySize)
	for i := range entries {
		off := i * memoryMapEntrySize
		entries[i] = MemoryMapEntry{
			PhysicalAddress: binary.LittleEndian.Uint64(payload[off:]),
			Size:            binary.LittleEndian.Uint64(payload[off+8:]),
			Type:            MemoryType(binary.LittleEndian.Uint64(payload[off+16:])),
		}
	}
	if err := validateMemoryMap(entries); err != nil {
		return nil, err
	}
	return &MemoryMap{Entries: entries}, nil
}

// validateMemoryMap checks, in one linear pass, that entries are strictly
// ascending by address and that entries[i] ends at or before entries[i+1]
// begins. The gap arithmetic avoids address+size overflow at the top of the
// physical address space.
func validateMemoryMap(entries []MemoryMapEntry) error {
	for i := 0; i+1 < len(entries); i++ {
		cur, next := entries[i], entries[i+1]
		if next.PhysicalAddress <= cur.PhysicalAddress {
			return fmt.Errorf("%w: entry %d at %#x not above entry %d at %#x",
				ErrOverlappingMemoryMap, i+1, next.PhysicalAddress, i, cur.PhysicalAddress)
		}
		if gap := next.PhysicalAddress - cur.PhysicalAddress; cur.Size > gap {
			return fmt.Errorf("%w: entry %d (%#x+%#x) overlaps entry %d at %#x",
				ErrOverlappingMemoryMap, i, cur.PhysicalAddress, cur.Size, i+1, next.PhysicalAddress)
		}
	}
	return nil
}
