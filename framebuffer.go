package ultra

import (
	"encoding/binary"
	"fmt"
)

// FramebufferFormat enumerates the pixel byte layouts the protocol defines.
// Format values above the known set are reserved for future revisions and
// pass through decoding opaquely; format zero is always invalid.
type FramebufferFormat uint16

const (
	FramebufferInvalid  FramebufferFormat = iota
	FramebufferRGB888                     // blue, green, red bytes
	FramebufferBGR888                     // red, green, blue bytes
	FramebufferRGBX8888                   // unused, blue, green, red bytes
	FramebufferXRGB8888                   // blue, green, red, unused bytes
)

func (f FramebufferFormat) String() string {
	switch f {
	case FramebufferRGB888:
		return "rgb888"
	case FramebufferBGR888:
		return "bgr888"
	case FramebufferRGBX8888:
		return "rgbx8888"
	case FramebufferXRGB8888:
		return "xrgb8888"
	default:
		return fmt.Sprintf("format(%d)", uint16(f))
	}
}

// BitsPerPixel returns the pixel depth the format mandates, or false for
// formats this package does not know.
func (f FramebufferFormat) BitsPerPixel() (uint16, bool) {
	switch f {
	case FramebufferRGB888, FramebufferBGR888:
		return 24, true
	case FramebufferRGBX8888, FramebufferXRGB8888:
		return 32, true
	default:
		return 0, false
	}
}

const framebufferSize = 24

// Framebuffer describes the display the loader set up for the kernel.
type Framebuffer struct {
	Width           uint32 // pixels
	Height          uint32 // pixels
	Pitch           uint32 // bytes per row
	BPP             uint16
	Format          FramebufferFormat
	PhysicalAddress uint64
}

func (f *Framebuffer) Kind() AttributeType { return AttributeFramebuffer }

// validate applies the format rules shared by encode and decode: format
// zero is invalid, and known formats mandate their pixel depth. Reserved
// future formats carry no depth constraint.
func (f *Framebuffer) validate() error {
	if f.Format == FramebufferInvalid {
		return ErrInvalidFramebufferFormat
	}
	if want, ok := f.Format.BitsPerPixel(); ok && want != f.BPP {
		return fmt.Errorf("%w: %s mandates %d bpp, have %d", ErrFormatBppMismatch, f.Format, want, f.BPP)
	}
	return nil
}

func (f *Framebuffer) encodePayload() ([]byte, error) {
	if err := f.validate(); err != nil {
		return nil, err
	}
	out := make([]byte, framebufferSize)
	binary.LittleEndian.PutUint32(out[0:4], f.Width)
	binary.LittleEndian.PutUint32(out[4:8], f.Height)
	binary.LittleEndian.PutUint32(out[8:12], f.Pitch)
	binary.LittleEndian.PutUint16(out[12:14], f.BPP)
	binary.LittleEndian.PutUint16(out[14:16], uint16(f.Format))
	binary.LittleEndian.PutUint64(out[16:24], f.PhysicalAddress)
	return out, nil
}

func decodeFramebuffer(payload []byte) (*Framebuffer, error) {
	if len(payload) < framebufferSize {
		return nil, fmt.Errorf("%w: framebuffer payload is %d bytes, want at least %d",
			ErrMalformedRecord, len(payload), framebufferSize)
	}
	fb := &Framebuffer{
		Width:           binary.LittleEndian.Uint32(payload[0:4]),
		Height:          binary.LittleEndian.Uint32(payload[4:8]),
		Pitch:           binary.LittleEndian.Uint32(payload[8:12]),
		BPP:             binary.LittleEndian.Uint16(payload[12:14]),
		Format:          FramebufferFormat(binary.LittleEndian.Uint16(payload[14:16])),
		PhysicalAddress: binary.LittleEndian.Uint64(payload[16:24]),
	}
	if err := fb.validate(); err != nil {
		return nil, err
	}
	return fb, nil
}
