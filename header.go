package ultra

import (
	"encoding/binary"
	"fmt"
)

const (
	// preambleSize is the fixed boot context preamble: u8 major, u8 minor,
	// u16 reserved, u32 attribute count.
	preambleSize = 8

	// headerSize is the fixed per-attribute header: u32 type, u32 size.
	// The size field counts the whole attribute, header included.
	headerSize = 8

	// attributeAlign is the alignment every attribute starts at. Sizes are
	// always a multiple of it; the builder zero-fills the padding.
	attributeAlign = 8
)

// paddedSize returns the total on-wire size of an attribute with the given
// payload length, plus how many padding bytes the builder must zero-fill to
// reach the next 8-byte boundary.
func paddedSize(payloadLen int) (total, pad int) {
	total = headerSize + payloadLen
	if rem := total % attributeAlign; rem != 0 {
		pad = attributeAlign - rem
		total += pad
	}
	return total, pad
}

func putHeader(dst []byte, t AttributeType, size int) {
	binary.LittleEndian.PutUint32(dst[0:4], uint32(t))
	binary.LittleEndian.PutUint32(dst[4:8], uint32(size))
}

// cursor walks a buffer one attribute at a time. It never advances past the
// end of the buffer: any declared size that would do so surfaces an error
// instead of an out-of-range offset.
type cursor struct {
	buf []byte
	off int
}

func (c *cursor) remaining() int { return len(c.buf) - c.off }

// next reads one attribute header and returns the attribute type along with
// the payload span (declared size minus the header, padding included). The
// cursor advances past the whole attribute.
func (c *cursor) next() (AttributeType, []byte, error) {
	if c.remaining() < headerSize {
		return AttributeInvalid, nil, fmt.Errorf("%w: %d bytes left at offset %#x",
			ErrTruncatedHeader, c.remaining(), c.off)
	}
	t := AttributeType(binary.LittleEndian.Uint32(c.buf[c.off:]))
	size := int(binary.LittleEndian.Uint32(c.buf[c.off+4:]))
	if size < headerSize || size%attributeAlign != 0 {
		return t, nil, fmt.Errorf("%w: %s declares size %d", ErrMalformedRecord, t, size)
	}
	if size > c.remaining() {
		return t, nil, fmt.Errorf("%w: %s declares size %d with %d bytes remaining",
			ErrOutOfBounds, t, size, c.remaining())
	}
	payload := c.buf[c.off+headerSize : c.off+size]
	c.off += size
	return t, payload, nil
}
