package ultra

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// Builder accumulates attributes into a boot context buffer. Attributes must
// be appended in the protocol's mandated order: platform-info first,
// kernel-info second, everything else after that, with all module-info
// attributes contiguous. Each Append serializes immediately, so errors
// surface at the offending call.
//
// The builder is the buffer's sole writer. Finish freezes it: the returned
// buffer must not be mutated again, since ownership passes to the kernel at
// the handoff.
type Builder struct {
	buf      bytes.Buffer
	major    uint8
	minor    uint8
	count    uint32
	seen     map[AttributeType]bool
	last     AttributeType
	finished bool
}

// NewBuilder starts a boot context for the given protocol version. Space for
// the preamble is reserved up front and patched at Finish, the same way the
// attribute count only becomes known at the end.
func NewBuilder(major, minor uint8) *Builder {
	b := &Builder{
		major: major,
		minor: minor,
		seen:  make(map[AttributeType]bool),
	}
	b.buf.Write(make([]byte, preambleSize))
	return b
}

// Append serializes one attribute: header, payload, then zero-filled padding
// up to the next 8-byte boundary. Padding must be well-defined zeros rather
// than garbage because future protocol revisions may assign it meaning.
func (b *Builder) Append(a Attribute) error {
	if b.finished {
		return ErrBuilderFinished
	}
	t := a.Kind()
	if t == AttributeInvalid {
		return fmt.Errorf("%w: cannot append attribute type 0", ErrInvalidAttribute)
	}
	if err := checkPlacement(b.count, t, b.seen, b.last); err != nil {
		return err
	}
	payload, err := a.encodePayload()
	if err != nil {
		return fmt.Errorf("encode %s: %w", t, err)
	}

	total, pad := paddedSize(len(payload))
	var hdr [headerSize]byte
	putHeader(hdr[:], t, total)
	b.buf.Write(hdr[:])
	b.buf.Write(payload)
	if pad > 0 {
		b.buf.Write(make([]byte, pad))
	}

	b.seen[t] = true
	b.last = t
	b.count++
	return nil
}

// Finish writes the preamble and returns the completed buffer. The builder
// is frozen afterwards: further Append or Finish calls fail. The mandatory
// platform-info and kernel-info attributes must both have been appended.
func (b *Builder) Finish() ([]byte, error) {
	if b.finished {
		return nil, ErrBuilderFinished
	}
	if !b.seen[AttributePlatformInfo] {
		return nil, fmt.Errorf("%w: platform-info", ErrMissingAttribute)
	}
	if !b.seen[AttributeKernelInfo] {
		return nil, fmt.Errorf("%w: kernel-info", ErrMissingAttribute)
	}
	b.finished = true

	out := b.buf.Bytes()
	out[0] = b.major
	out[1] = b.minor
	// out[2:4] reserved, zero
	binary.LittleEndian.PutUint32(out[4:8], b.count)
	return out, nil
}
