package main

import (
	"fmt"
	"os"

	"github.com/tinyrange/ultra"
	"gopkg.in/yaml.v3"
)

// Manifest is a YAML description of a boot context, used to generate test
// images and fixtures. It mirrors the attribute payloads directly; it is not
// a loader configuration format.
type Manifest struct {
	Protocol    ProtocolConfig     `yaml:"protocol"`
	Platform    PlatformConfig     `yaml:"platform"`
	Kernel      KernelConfig       `yaml:"kernel"`
	MemoryMap   []MemoryRegion     `yaml:"memoryMap,omitempty"`
	Modules     []ModuleConfig     `yaml:"modules,omitempty"`
	CommandLine *string            `yaml:"commandLine,omitempty"`
	Framebuffer *FramebufferConfig `yaml:"framebuffer,omitempty"`
	APM         *APMConfig         `yaml:"apm,omitempty"`
}

type ProtocolConfig struct {
	Major uint8 `yaml:"major,omitempty"`
	Minor uint8 `yaml:"minor,omitempty"`
}

type PlatformConfig struct {
	Type        string `yaml:"type"` // bios or uefi
	LoaderName  string `yaml:"loaderName"`
	LoaderMajor uint16 `yaml:"loaderMajor,omitempty"`
	LoaderMinor uint16 `yaml:"loaderMinor,omitempty"`
	ACPIRSDP    uint64 `yaml:"acpiRsdp,omitempty"`
}

type KernelConfig struct {
	PhysicalBase   uint64 `yaml:"physicalBase"`
	VirtualBase    uint64 `yaml:"virtualBase"`
	Size           uint64 `yaml:"size"`
	Partition      string `yaml:"partition"` // raw, mbr or gpt
	DiskGUID       string `yaml:"diskGuid,omitempty"`
	PartitionGUID  string `yaml:"partitionGuid,omitempty"`
	DiskIndex      uint32 `yaml:"diskIndex,omitempty"`
	PartitionIndex uint32 `yaml:"partitionIndex,omitempty"`
	FSPath         string `yaml:"fsPath"`
}

type MemoryRegion struct {
	Address uint64 `yaml:"address"`
	Size    uint64 `yaml:"size"`
	Type    string `yaml:"type"`
}

type ModuleConfig struct {
	Type    string `yaml:"type"` // file or memory
	Name    string `yaml:"name"`
	Address uint64 `yaml:"address"`
	Size    uint64 `yaml:"size"`
}

type FramebufferConfig struct {
	Width   uint32 `yaml:"width"`
	Height  uint32 `yaml:"height"`
	Pitch   uint32 `yaml:"pitch"`
	BPP     uint16 `yaml:"bpp"`
	Format  string `yaml:"format"` // rgb888, bgr888, rgbx8888 or xrgb8888
	Address uint64 `yaml:"address"`
}

type APMConfig struct {
	Version             uint16 `yaml:"version"`
	Flags               uint16 `yaml:"flags,omitempty"`
	CodeSegment         uint16 `yaml:"codeSegment"`
	CodeSegment16       uint16 `yaml:"codeSegment16,omitempty"`
	DataSegment         uint16 `yaml:"dataSegment,omitempty"`
	CodeSegmentLength   uint16 `yaml:"codeSegmentLength,omitempty"`
	CodeSegment16Length uint16 `yaml:"codeSegment16Length,omitempty"`
	DataSegmentLength   uint16 `yaml:"dataSegmentLength,omitempty"`
	EntryOffset         uint32 `yaml:"entryOffset,omitempty"`
}

func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	m.normalize()
	return &m, nil
}

func (m *Manifest) normalize() {
	if m.Protocol.Major == 0 {
		m.Protocol.Major = ultra.ProtocolMajor
		m.Protocol.Minor = ultra.ProtocolMinor
	}
	if m.Platform.LoaderName == "" {
		m.Platform.LoaderName = "ultragen"
	}
}

var platformTypes = map[string]ultra.PlatformType{
	"bios": ultra.PlatformBIOS,
	"uefi": ultra.PlatformUEFI,
}

var partitionTypes = map[string]ultra.PartitionType{
	"raw": ultra.PartitionRaw,
	"mbr": ultra.PartitionMBR,
	"gpt": ultra.PartitionGPT,
}

var memoryTypes = map[string]ultra.MemoryType{
	"free":               ultra.MemoryFree,
	"reserved":           ultra.MemoryReserved,
	"reclaimable":        ultra.MemoryReclaimable,
	"nvs":                ultra.MemoryNVS,
	"loader-reclaimable": ultra.MemoryLoaderReclaimable,
	"module":             ultra.MemoryModule,
	"kernel-stack":       ultra.MemoryKernelStack,
	"kernel-binary":      ultra.MemoryKernelBinary,
}

var moduleTypes = map[string]ultra.ModuleType{
	"file":   ultra.ModuleFile,
	"memory": ultra.ModuleMemory,
}

var framebufferFormats = map[string]ultra.FramebufferFormat{
	"rgb888":   ultra.FramebufferRGB888,
	"bgr888":   ultra.FramebufferBGR888,
	"rgbx8888": ultra.FramebufferRGBX8888,
	"xrgb8888": ultra.FramebufferXRGB8888,
}

// Build serializes the manifest into a boot context buffer.
func (m *Manifest) Build() ([]byte, error) {
	platform, ok := platformTypes[m.Platform.Type]
	if !ok {
		return nil, fmt.Errorf("unknown platform type %q", m.Platform.Type)
	}
	partition, ok := partitionTypes[m.Kernel.Partition]
	if !ok {
		return nil, fmt.Errorf("unknown partition type %q", m.Kernel.Partition)
	}

	b := ultra.NewBuilder(m.Protocol.Major, m.Protocol.Minor)
	if err := b.Append(&ultra.PlatformInfo{
		Platform:        platform,
		LoaderMajor:     m.Platform.LoaderMajor,
		LoaderMinor:     m.Platform.LoaderMinor,
		LoaderName:      m.Platform.LoaderName,
		ACPIRSDPAddress: m.Platform.ACPIRSDP,
	}); err != nil {
		return nil, err
	}

	kernel := &ultra.KernelInfo{
		PhysicalBase:   m.Kernel.PhysicalBase,
		VirtualBase:    m.Kernel.VirtualBase,
		Size:           m.Kernel.Size,
		Partition:      partition,
		DiskIndex:      m.Kernel.DiskIndex,
		PartitionIndex: m.Kernel.PartitionIndex,
		FSPath:         m.Kernel.FSPath,
	}
	if m.Kernel.DiskGUID != "" {
		g, err := ultra.ParseGUID(m.Kernel.DiskGUID)
		if err != nil {
			return nil, fmt.Errorf("disk GUID: %w", err)
		}
		kernel.DiskGUID = g
	}
	if m.Kernel.PartitionGUID != "" {
		g, err := ultra.ParseGUID(m.Kernel.PartitionGUID)
		if err != nil {
			return nil, fmt.Errorf("partition GUID: %w", err)
		}
		kernel.PartitionGUID = g
	}
	if err := b.Append(kernel); err != nil {
		return nil, err
	}

	if len(m.MemoryMap) > 0 {
		entries := make([]ultra.MemoryMapEntry, len(m.MemoryMap))
		for i, r := range m.MemoryMap {
			mt, ok := memoryTypes[r.Type]
			if !ok {
				return nil, fmt.Errorf("memory map entry %d: unknown type %q", i, r.Type)
			}
			entries[i] = ultra.MemoryMapEntry{
				PhysicalAddress: r.Address,
				Size:            r.Size,
				Type:            mt,
			}
		}
		if err := b.Append(&ultra.MemoryMap{Entries: entries}); err != nil {
			return nil, err
		}
	}

	for i, mod := range m.Modules {
		mt, ok := moduleTypes[mod.Type]
		if !ok {
			return nil, fmt.Errorf("module %d: unknown type %q", i, mod.Type)
		}
		if err := b.Append(&ultra.ModuleInfo{
			Type:    mt,
			Name:    mod.Name,
			Address: mod.Address,
			Size:    mod.Size,
		}); err != nil {
			return nil, err
		}
	}

	// nil means "no command line configured": the attribute is omitted,
	// not encoded as empty.
	if m.CommandLine != nil {
		if err := b.Append(&ultra.CommandLine{Text: *m.CommandLine}); err != nil {
			return nil, err
		}
	}

	if fb := m.Framebuffer; fb != nil {
		format, ok := framebufferFormats[fb.Format]
		if !ok {
			return nil, fmt.Errorf("unknown framebuffer format %q", fb.Format)
		}
		if err := b.Append(&ultra.Framebuffer{
			Width:           fb.Width,
			Height:          fb.Height,
			Pitch:           fb.Pitch,
			BPP:             fb.BPP,
			Format:          format,
			PhysicalAddress: fb.Address,
		}); err != nil {
			return nil, err
		}
	}

	if apm := m.APM; apm != nil {
		if err := b.Append(&ultra.APMInfo{
			Version:             apm.Version,
			Flags:               apm.Flags,
			CodeSegment:         apm.CodeSegment,
			CodeSegment16:       apm.CodeSegment16,
			DataSegment:         apm.DataSegment,
			CodeSegmentLength:   apm.CodeSegmentLength,
			CodeSegment16Length: apm.CodeSegment16Length,
			DataSegmentLength:   apm.DataSegmentLength,
			EntryOffset:         apm.EntryOffset,
		}); err != nil {
			return nil, err
		}
	}

	return b.Finish()
}
