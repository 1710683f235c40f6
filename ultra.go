// Package ultra implements the Ultra boot protocol attribute stream, the
// binary handoff contract between a bootloader and the kernel it loads.
//
// A boot context is a small version-tagged preamble followed by a contiguous
// sequence of self-describing attribute records. The loader side uses a
// Builder to serialize attributes in the mandated order; the kernel side uses
// a Decoder (or the Decode convenience function) to walk and validate the
// buffer. Unknown attribute types are skipped and surfaced as Unknown values
// so that consumers stay compatible with future protocol revisions.
package ultra

// Magic identifies a valid boot context. It is delivered to the kernel
// out-of-band (by an architecture-specific register convention) alongside the
// pointer to the boot context; a mismatch means the pointer is unusable.
const Magic uint32 = 0x554c5442 // "ULTB"

// Protocol version implemented by this package. Minor revisions only append
// trailing fields to existing records, so the decoder accepts any minor
// version; a different major version is rejected outright.
const (
	ProtocolMajor uint8 = 1
	ProtocolMinor uint8 = 0
)

// BootContext is a fully decoded boot context: the protocol version from the
// preamble plus every attribute in stream order.
type BootContext struct {
	ProtocolMajor uint8
	ProtocolMinor uint8
	Attributes    []Attribute
}

// Platform returns the platform-info attribute. It is always the first
// attribute of a decoded context.
func (c *BootContext) Platform() *PlatformInfo {
	if len(c.Attributes) > 0 {
		if p, ok := c.Attributes[0].(*PlatformInfo); ok {
			return p
		}
	}
	return nil
}

// Kernel returns the kernel-info attribute. It is always the second
// attribute of a decoded context.
func (c *BootContext) Kernel() *KernelInfo {
	if len(c.Attributes) > 1 {
		if k, ok := c.Attributes[1].(*KernelInfo); ok {
			return k
		}
	}
	return nil
}

// Modules returns every module-info attribute in stream order.
func (c *BootContext) Modules() []*ModuleInfo {
	var mods []*ModuleInfo
	for _, a := range c.Attributes {
		if m, ok := a.(*ModuleInfo); ok {
			mods = append(mods, m)
		}
	}
	return mods
}

// Decode validates magic and preamble and decodes every attribute in one
// pass. On any error no attributes are returned: a boot context is either
// fully valid or unusable.
func Decode(buf []byte, magic uint32) (*BootContext, error) {
	d, err := Open(buf, magic)
	if err != nil {
		return nil, err
	}
	attrs, err := d.ReadAll()
	if err != nil {
		return nil, err
	}
	major, minor := d.Version()
	return &BootContext{
		ProtocolMajor: major,
		ProtocolMinor: minor,
		Attributes:    attrs,
	}, nil
}
