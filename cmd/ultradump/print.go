package main

import (
	"encoding/hex"
	"fmt"

	"github.com/charmbracelet/x/ansi"
	"github.com/tinyrange/ultra"
)

type styler struct {
	enabled bool
}

func (s styler) bold(text string) string {
	if !s.enabled {
		return text
	}
	return ansi.Style{}.Bold().Styled(text)
}

func (s styler) accent(text string) string {
	if !s.enabled {
		return text
	}
	return ansi.Style{}.ForegroundColor(ansi.Cyan).Styled(text)
}

func printAttribute(attr ultra.Attribute, st styler) {
	switch a := attr.(type) {
	case *ultra.PlatformInfo:
		fmt.Printf("    platform: %s\n", a.Platform)
		fmt.Printf("    loader:   %s %d.%d\n", a.LoaderName, a.LoaderMajor, a.LoaderMinor)
		if a.ACPIRSDPAddress != 0 {
			fmt.Printf("    acpi rsdp: %#x\n", a.ACPIRSDPAddress)
		}
	case *ultra.KernelInfo:
		fmt.Printf("    physical: %#x  virtual: %#x  size: %#x\n",
			a.PhysicalBase, a.VirtualBase, a.Size)
		fmt.Printf("    source: %s disk %d partition %d, path %s\n",
			a.Partition, a.DiskIndex, a.PartitionIndex, a.FSPath)
		if disk, part, ok := a.GPT(); ok {
			fmt.Printf("    disk guid:      %s\n", disk)
			fmt.Printf("    partition guid: %s\n", part)
		}
		if idx, ok := a.ExtendedPartition(); ok {
			fmt.Printf("    extended partition: %d\n", idx)
		}
	case *ultra.MemoryMap:
		for _, e := range a.Entries {
			fmt.Printf("    %#016x - %#016x  %s\n",
				e.PhysicalAddress, e.PhysicalAddress+e.Size, e.Type)
		}
	case *ultra.ModuleInfo:
		fmt.Printf("    %s %q at %#x, %d bytes\n", a.Type, a.Name, a.Address, a.Size)
	case *ultra.CommandLine:
		fmt.Printf("    %q\n", a.Text)
	case *ultra.Framebuffer:
		fmt.Printf("    %dx%d %s, %d bpp, pitch %d, at %#x\n",
			a.Width, a.Height, a.Format, a.BPP, a.Pitch, a.PhysicalAddress)
	case *ultra.APMInfo:
		fmt.Printf("    version %d.%d flags %#x\n", a.Version>>8, a.Version&0xff, a.Flags)
		fmt.Printf("    entry %04x:%08x\n", a.CodeSegment, a.EntryOffset)
	case *ultra.Unknown:
		fmt.Printf("    %d payload bytes (skipped)\n", len(a.Payload))
		fmt.Print(indent(hex.Dump(a.Payload)))
	}
}

func indent(s string) string {
	out := make([]byte, 0, len(s)+64)
	atStart := true
	for i := 0; i < len(s); i++ {
		if atStart {
			out = append(out, ' ', ' ', ' ', ' ')
			atStart = false
		}
		out = append(out, s[i])
		if s[i] == '\n' {
			atStart = true
		}
	}
	return string(out)
}
