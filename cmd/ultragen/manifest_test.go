package main

import (
	"testing"

	"github.com/tinyrange/ultra"
	"gopkg.in/yaml.v3"
)

const sampleManifest = `
platform:
  type: uefi
  loaderName: ref
  loaderMajor: 1
  acpiRsdp: 0x7FE00000
kernel:
  physicalBase: 0x100000
  virtualBase: 0xFFFFFFFF80000000
  size: 0x4000
  partition: gpt
  diskGuid: 12345678-9abc-def0-1122-334455667788
  partitionGuid: 87654321-cba9-0fed-8877-665544332211
  partitionIndex: 2
  fsPath: /boot/kernel
memoryMap:
  - { address: 0x0, size: 0x1000, type: free }
  - { address: 0x1000, size: 0x2000, type: reserved }
modules:
  - { type: file, name: initrd, address: 0x800000, size: 0x10000 }
commandLine: root=/dev/sda1
framebuffer:
  width: 1024
  height: 768
  pitch: 4096
  bpp: 32
  format: xrgb8888
  address: 0xFD000000
`

func parseManifest(t *testing.T, text string) *Manifest {
	t.Helper()
	var m Manifest
	if err := yaml.Unmarshal([]byte(text), &m); err != nil {
		t.Fatalf("parse manifest: %v", err)
	}
	m.normalize()
	return &m
}

func TestManifestBuild(t *testing.T) {
	m := parseManifest(t, sampleManifest)
	buf, err := m.Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	ctx, err := ultra.Decode(buf, ultra.Magic)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(ctx.Attributes) != 6 {
		t.Fatalf("got %d attributes, want 6", len(ctx.Attributes))
	}

	p := ctx.Platform()
	if p.Platform != ultra.PlatformUEFI || p.LoaderName != "ref" || p.ACPIRSDPAddress != 0x7FE00000 {
		t.Fatalf("platform-info wrong: %#v", p)
	}

	k := ctx.Kernel()
	disk, part, ok := k.GPT()
	if !ok {
		t.Fatal("GPT GUIDs not valid on a gpt manifest")
	}
	if disk.String() != "12345678-9abc-def0-1122-334455667788" {
		t.Fatalf("disk GUID %s", disk)
	}
	if part.String() != "87654321-cba9-0fed-8877-665544332211" {
		t.Fatalf("partition GUID %s", part)
	}

	mods := ctx.Modules()
	if len(mods) != 1 || mods[0].Name != "initrd" {
		t.Fatalf("modules wrong: %#v", mods)
	}
}

func TestManifestCommandLineOmission(t *testing.T) {
	const minimal = `
platform: { type: bios, loaderName: x }
kernel: { physicalBase: 0x100000, virtualBase: 0xFFFFFFFF80000000, size: 0x1000, partition: raw, fsPath: /k }
`
	m := parseManifest(t, minimal)
	if m.CommandLine != nil {
		t.Fatal("absent commandLine parsed as present")
	}
	buf, err := m.Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	ctx, err := ultra.Decode(buf, ultra.Magic)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	for _, a := range ctx.Attributes {
		if a.Kind() == ultra.AttributeCommandLine {
			t.Fatal("command-line attribute present without manifest entry")
		}
	}

	// An explicitly empty command line is still a present attribute.
	m = parseManifest(t, minimal+`commandLine: ""`+"\n")
	if m.CommandLine == nil {
		t.Fatal("empty commandLine parsed as absent")
	}
	buf, err = m.Build()
	if err != nil {
		t.Fatalf("build with empty command line: %v", err)
	}
	ctx, err = ultra.Decode(buf, ultra.Magic)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(ctx.Attributes) != 3 {
		t.Fatalf("got %d attributes, want 3", len(ctx.Attributes))
	}
}

func TestManifestRejectsBadEnums(t *testing.T) {
	cases := []struct{ name, text string }{
		{"platform", `
platform: { type: coreboot, loaderName: x }
kernel: { partition: raw, fsPath: /k }
`},
		{"partition", `
platform: { type: bios, loaderName: x }
kernel: { partition: apfs, fsPath: /k }
`},
		{"memory type", `
platform: { type: bios, loaderName: x }
kernel: { partition: raw, fsPath: /k }
memoryMap: [ { address: 0, size: 4096, type: weird } ]
`},
		{"framebuffer format", `
platform: { type: bios, loaderName: x }
kernel: { partition: raw, fsPath: /k }
framebuffer: { width: 1, height: 1, pitch: 4, bpp: 32, format: cmyk }
`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := parseManifest(t, tc.text).Build(); err == nil {
				t.Fatal("bad enum accepted")
			}
		})
	}
}
