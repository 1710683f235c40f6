package ultra

import (
	"encoding/binary"
	"fmt"
)

const apmInfoSize = 24

// APMInfo carries the legacy Advanced Power Management BIOS descriptor, a
// protocol extension present only when the kernel requested it from the
// loader. BIOS platforms only.
type APMInfo struct {
	Version uint16
	Flags   uint16

	CodeSegment         uint16 // 32-bit protected mode code segment
	CodeSegment16       uint16 // 16-bit code segment
	DataSegment         uint16
	CodeSegmentLength   uint16
	CodeSegment16Length uint16
	DataSegmentLength   uint16

	EntryOffset uint32 // entry point offset into CodeSegment
}

func (a *APMInfo) Kind() AttributeType { return AttributeApmInfo }

func (a *APMInfo) encodePayload() ([]byte, error) {
	out := make([]byte, apmInfoSize)
	binary.LittleEndian.PutUint16(out[0:2], a.Version)
	binary.LittleEndian.PutUint16(out[2:4], a.Flags)
	binary.LittleEndian.PutUint16(out[4:6], a.CodeSegment)
	binary.LittleEndian.PutUint16(out[6:8], a.CodeSegment16)
	binary.LittleEndian.PutUint16(out[8:10], a.DataSegment)
	binary.LittleEndian.PutUint16(out[10:12], a.CodeSegmentLength)
	binary.LittleEndian.PutUint16(out[12:14], a.CodeSegment16Length)
	binary.LittleEndian.PutUint16(out[14:16], a.DataSegmentLength)
	binary.LittleEndian.PutUint32(out[16:20], a.EntryOffset)
	// out[20:24] reserved, zero
	return out, nil
}

func decodeAPMInfo(payload []byte) (*APMInfo, error) {
	if len(payload) < apmInfoSize {
		return nil, fmt.Errorf("%w: apm-info payload is %d bytes, want at least %d",
			ErrMalformedRecord, len(payload), apmInfoSize)
	}
	return &APMInfo{
		Version:             binary.LittleEndian.Uint16(payload[0:2]),
		Flags:               binary.LittleEndian.Uint16(payload[2:4]),
		CodeSegment:         binary.LittleEndian.Uint16(payload[4:6]),
		CodeSegment16:       binary.LittleEndian.Uint16(payload[6:8]),
		DataSegment:         binary.LittleEndian.Uint16(payload[8:10]),
		CodeSegmentLength:   binary.LittleEndian.Uint16(payload[10:12]),
		CodeSegment16Length: binary.LittleEndian.Uint16(payload[12:14]),
		DataSegmentLength:   binary.LittleEndian.Uint16(payload[14:16]),
		EntryOffset:         binary.LittleEndian.Uint32(payload[16:20]),
	}, nil
}
