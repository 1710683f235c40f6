package ultra

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"strings"
)

const guidSize = 16

// GUID is the 16-byte mixed-endian identifier GPT uses for disks and
// partitions: the first three fields are little-endian on the wire, the
// trailing eight bytes are raw.
type GUID struct {
	Data1 uint32
	Data2 uint16
	Data3 uint16
	Data4 [8]byte
}

func (g GUID) IsZero() bool { return g == GUID{} }

// String formats the GUID in the conventional 8-4-4-4-12 form.
func (g GUID) String() string {
	return fmt.Sprintf("%08x-%04x-%04x-%02x%02x-%02x%02x%02x%02x%02x%02x",
		g.Data1, g.Data2, g.Data3,
		g.Data4[0], g.Data4[1],
		g.Data4[2], g.Data4[3], g.Data4[4], g.Data4[5], g.Data4[6], g.Data4[7])
}

// ParseGUID parses the conventional 8-4-4-4-12 text form.
func ParseGUID(s string) (GUID, error) {
	parts := strings.Split(s, "-")
	if len(parts) != 5 ||
		len(parts[0]) != 8 || len(parts[1]) != 4 || len(parts[2]) != 4 ||
		len(parts[3]) != 4 || len(parts[4]) != 12 {
		return GUID{}, fmt.Errorf("malformed GUID %q", s)
	}
	raw, err := hex.DecodeString(strings.Join(parts, ""))
	if err != nil {
		return GUID{}, fmt.Errorf("malformed GUID %q: %v", s, err)
	}
	var g GUID
	g.Data1 = binary.BigEndian.Uint32(raw[0:4])
	g.Data2 = binary.BigEndian.Uint16(raw[4:6])
	g.Data3 = binary.BigEndian.Uint16(raw[6:8])
	copy(g.Data4[:], raw[8:16])
	return g, nil
}

func putGUID(dst []byte, g GUID) {
	binary.LittleEndian.PutUint32(dst[0:4], g.Data1)
	binary.LittleEndian.PutUint16(dst[4:6], g.Data2)
	binary.LittleEndian.PutUint16(dst[6:8], g.Data3)
	copy(dst[8:guidSize], g.Data4[:])
}

func getGUID(src []byte) GUID {
	var g GUID
	g.Data1 = binary.LittleEndian.Uint32(src[0:4])
	g.Data2 = binary.LittleEndian.Uint16(src[4:6])
	g.Data3 = binary.LittleEndian.Uint16(src[6:8])
	copy(g.Data4[:], src[8:guidSize])
	return g
}
