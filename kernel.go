package ultra

import (
	"encoding/binary"
	"fmt"
)

// PartitionType tags the source partition the kernel binary was read from.
type PartitionType uint64

const (
	PartitionInvalid PartitionType = iota
	PartitionRaw
	PartitionMBR
	PartitionGPT
)

func (p PartitionType) String() string {
	switch p {
	case PartitionRaw:
		return "raw"
	case PartitionMBR:
		return "MBR"
	case PartitionGPT:
		return "GPT"
	default:
		return fmt.Sprintf("partition(%d)", uint64(p))
	}
}

const (
	fsPathSize     = 256
	kernelInfoSize = 328
)

// KernelInfo describes where the kernel binary was loaded and where it came
// from. It must be the second attribute of every boot context.
type KernelInfo struct {
	PhysicalBase uint64 // page-aligned
	VirtualBase  uint64 // page-aligned, typically higher half
	Size         uint64 // page-aligned

	Partition PartitionType

	// DiskGUID and PartitionGUID are always present on the wire but only
	// meaningful when Partition is PartitionGPT; use GPT to read them.
	DiskGUID      GUID
	PartitionGUID GUID

	DiskIndex      uint32
	PartitionIndex uint32

	FSPath string // null-terminated on the wire, at most 255 bytes
}

func (k *KernelInfo) Kind() AttributeType { return AttributeKernelInfo }

// GPT returns the disk and partition GUIDs. ok is false unless the source
// partition is GPT; the GUID fields carry no meaning otherwise, whatever
// their content.
func (k *KernelInfo) GPT() (disk, partition GUID, ok bool) {
	if k.Partition != PartitionGPT {
		return GUID{}, GUID{}, false
	}
	return k.DiskGUID, k.PartitionGUID, true
}

// ExtendedPartition interprets the partition index for MBR disks: an index
// of 4 or above denotes extended partition index-4 inside the EBR chain.
func (k *KernelInfo) ExtendedPartition() (uint32, bool) {
	if k.Partition != PartitionMBR || k.PartitionIndex < 4 {
		return 0, false
	}
	return k.PartitionIndex - 4, true
}

func (k *KernelInfo) encodePayload() ([]byte, error) {
	switch k.Partition {
	case PartitionRaw, PartitionMBR, PartitionGPT:
	default:
		return nil, fmt.Errorf("partition type %d is not encodable", uint64(k.Partition))
	}
	out := make([]byte, kernelInfoSize)
	binary.LittleEndian.PutUint64(out[0:8], k.PhysicalBase)
	binary.LittleEndian.PutUint64(out[8:16], k.VirtualBase)
	binary.LittleEndian.PutUint64(out[16:24], k.Size)
	binary.LittleEndian.PutUint64(out[24:32], uint64(k.Partition))
	putGUID(out[32:48], k.DiskGUID)
	putGUID(out[48:64], k.PartitionGUID)
	binary.LittleEndian.PutUint32(out[64:68], k.DiskIndex)
	binary.LittleEndian.PutUint32(out[68:72], k.PartitionIndex)
	if err := putFixedString(out[72:72+fsPathSize], k.FSPath); err != nil {
		return nil, fmt.Errorf("fs path: %w", err)
	}
	return out, nil
}

func decodeKernelInfo(payload []byte) (*KernelInfo, error) {
	if len(payload) < kernelInfoSize {
		return nil, fmt.Errorf("%w: kernel-info payload is %d bytes, want at least %d",
			ErrMalformedRecord, len(payload), kernelInfoSize)
	}
	path, err := fixedString(payload[72 : 72+fsPathSize])
	if err != nil {
		return nil, fmt.Errorf("fs path: %w", err)
	}
	return &KernelInfo{
		PhysicalBase:   binary.LittleEndian.Uint64(payload[0:8]),
		VirtualBase:    binary.LittleEndian.Uint64(payload[8:16]),
		Size:           binary.LittleEndian.Uint64(payload[16:24]),
		Partition:      PartitionType(binary.LittleEndian.Uint64(payload[24:32])),
		DiskGUID:       getGUID(payload[32:48]),
		PartitionGUID:  getGUID(payload[48:64]),
		DiskIndex:      binary.LittleEndian.Uint32(payload[64:68]),
		PartitionIndex: binary.LittleEndian.Uint32(payload[68:72]),
		FSPath:         path,
	}, nil
}
