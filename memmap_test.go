package ultra

import (
	"encoding/binary"
	"errors"
	"testing"
)

func TestMemoryMapEntryCount(t *testing.T) {
	// size = 8 header + 2*24 entries = 56 decodes to exactly two entries.
	mm := &MemoryMap{Entries: []MemoryMapEntry{
		{PhysicalAddress: 0x0, Size: 0x1000, Type: MemoryFree},
		{PhysicalAddress: 0x1000, Size: 0x2000, Type: MemoryReserved},
	}}
	raw := rawAttr(t, mm)
	if len(raw) != 56 {
		t.Fatalf("attribute is %d bytes, want 56", len(raw))
	}
	decoded, err := decodeMemoryMap(raw[headerSize:])
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(decoded.Entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(decoded.Entries))
	}
}

func TestMemoryMapMisalignedSize(t *testing.T) {
	// A declared size of 70 is rejected as a malformed record before the
	// entry formula even runs (it is not an 8-byte multiple).
	attrs := scenarioAttrs()
	buf := rawContext(ProtocolMajor, ProtocolMinor, 3,
		rawAttr(t, attrs[0]), rawAttr(t, attrs[1]), rawAttr(t, attrs[2]))
	mmOff := preambleSize + 56 + 336
	binary.LittleEndian.PutUint32(buf[mmOff+4:], 70)
	if _, err := Decode(buf, Magic); !errors.Is(err, ErrMalformedRecord) {
		t.Fatalf("size 70: got %v, want ErrMalformedRecord", err)
	}

	// An aligned size whose payload is not a whole number of entries fails
	// the entry-count division.
	if _, err := decodeMemoryMap(make([]byte, 32)); !errors.Is(err, ErrMisalignedMemoryMap) {
		t.Fatalf("32-byte payload: got %v, want ErrMisalignedMemoryMap", err)
	}
}

func TestMemoryMapOverlap(t *testing.T) {
	cases := []struct {
		name    string
		entries []MemoryMapEntry
		ok      bool
	}{
		{
			"adjacent ranges",
			[]MemoryMapEntry{
				{PhysicalAddress: 0x0, Size: 0x1000, Type: MemoryFree},
				{PhysicalAddress: 0x1000, Size: 0x1000, Type: MemoryFree},
			},
			true,
		},
		{
			"gap between ranges",
			[]MemoryMapEntry{
				{PhysicalAddress: 0x0, Size: 0x1000, Type: MemoryFree},
				{PhysicalAddress: 0x100000, Size: 0x1000, Type: MemoryFree},
			},
			true,
		},
		{
			"overlapping ranges",
			[]MemoryMapEntry{
				{PhysicalAddress: 0x0, Size: 0x2000, Type: MemoryFree},
				{PhysicalAddress: 0x1000, Size: 0x1000, Type: MemoryFree},
			},
			false,
		},
		{
			"unsorted ranges",
			[]MemoryMapEntry{
				{PhysicalAddress: 0x2000, Size: 0x1000, Type: MemoryFree},
				{PhysicalAddress: 0x0, Size: 0x1000, Type: MemoryFree},
			},
			false,
		},
		{
			"duplicate address",
			[]MemoryMapEntry{
				{PhysicalAddress: 0x1000, Size: 0, Type: MemoryFree},
				{PhysicalAddress: 0x1000, Size: 0x1000, Type: MemoryFree},
			},
			false,
		},
		{
			"top of address space",
			[]MemoryMapEntry{
				{PhysicalAddress: 0x1000, Size: 0x1000, Type: MemoryFree},
				{PhysicalAddress: 0xFFFFFFFFFFFFF000, Size: 0x1000, Type: MemoryReserved},
			},
			true,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := validateMemoryMap(tc.entries)
			if tc.ok && err != nil {
				t.Fatalf("valid map rejected: %v", err)
			}
			if !tc.ok && !errors.Is(err, ErrOverlappingMemoryMap) {
				t.Fatalf("got %v, want ErrOverlappingMemoryMap", err)
			}
		})
	}
}

func TestMemoryMapEncodeRejectsOverlap(t *testing.T) {
	b := NewBuilder(ProtocolMajor, ProtocolMinor)
	attrs := scenarioAttrs()
	for _, a := range attrs[:2] {
		if err := b.Append(a); err != nil {
			t.Fatalf("append %s: %v", a.Kind(), err)
		}
	}
	err := b.Append(&MemoryMap{Entries: []MemoryMapEntry{
		{PhysicalAddress: 0x0, Size: 0x2000, Type: MemoryFree},
		{PhysicalAddress: 0x1000, Size: 0x1000, Type: MemoryFree},
	}})
	if !errors.Is(err, ErrOverlappingMemoryMap) {
		t.Fatalf("got %v, want ErrOverlappingMemoryMap", err)
	}
}

func TestMemoryTypePassThrough(t *testing.T) {
	// The decoder hands unknown memory types through untouched; Effective
	// applies the consumer-side reserved policy.
	mm := &MemoryMap{Entries: []MemoryMapEntry{
		{PhysicalAddress: 0x0, Size: 0x1000, Type: MemoryType(0xABCD)},
	}}
	raw := rawAttr(t, mm)
	decoded, err := decodeMemoryMap(raw[headerSize:])
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	got := decoded.Entries[0].Type
	if got != MemoryType(0xABCD) {
		t.Fatalf("decoder rewrote memory type to %v", got)
	}
	if got.Known() {
		t.Fatalf("%v reported as known", got)
	}
	if got.Effective() != MemoryReserved {
		t.Fatalf("Effective() = %v, want reserved", got.Effective())
	}
	if MemoryFree.Effective() != MemoryFree {
		t.Fatal("Effective() rewrote a known type")
	}
}
