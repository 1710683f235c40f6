package ultra

import (
	"encoding/binary"
	"testing"
)

// scenarioAttrs is a representative valid attribute set: a UEFI loader
// handing off a raw-partition kernel with a two-entry memory map and a
// command line.
func scenarioAttrs() []Attribute {
	return []Attribute{
		&PlatformInfo{
			Platform:        PlatformUEFI,
			LoaderMajor:     1,
			LoaderMinor:     2,
			LoaderName:      "ref",
			ACPIRSDPAddress: 0x7FE00000,
		},
		&KernelInfo{
			PhysicalBase: 0x100000,
			VirtualBase:  0xFFFFFFFF80000000,
			Size:         0x4000,
			Partition:    PartitionRaw,
			FSPath:       "/boot/kernel",
		},
		&MemoryMap{Entries: []MemoryMapEntry{
			{PhysicalAddress: 0x0, Size: 0x1000, Type: MemoryFree},
			{PhysicalAddress: 0x1000, Size: 0x2000, Type: MemoryReserved},
		}},
		&CommandLine{Text: "root=/dev/sda1"},
	}
}

func buildContext(t *testing.T, attrs ...Attribute) []byte {
	t.Helper()
	b := NewBuilder(ProtocolMajor, ProtocolMinor)
	for i, a := range attrs {
		if err := b.Append(a); err != nil {
			t.Fatalf("append attribute %d (%s): %v", i, a.Kind(), err)
		}
	}
	buf, err := b.Finish()
	if err != nil {
		t.Fatalf("finish: %v", err)
	}
	return buf
}

// rawAttr serializes a single attribute without any builder-side policy so
// tests can assemble deliberately invalid streams.
func rawAttr(t *testing.T, a Attribute) []byte {
	t.Helper()
	payload, err := a.encodePayload()
	if err != nil {
		t.Fatalf("encode %s: %v", a.Kind(), err)
	}
	total, _ := paddedSize(len(payload))
	out := make([]byte, total)
	putHeader(out, a.Kind(), total)
	copy(out[headerSize:], payload)
	return out
}

// rawContext assembles a boot context with an arbitrary declared count.
func rawContext(major, minor uint8, count uint32, attrs ...[]byte) []byte {
	out := make([]byte, preambleSize)
	out[0] = major
	out[1] = minor
	binary.LittleEndian.PutUint32(out[4:8], count)
	for _, a := range attrs {
		out = append(out, a...)
	}
	return out
}
