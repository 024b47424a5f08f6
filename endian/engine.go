// Package endian provides byte order utilities for binary encoding and decoding.
//
// It combines encoding/binary's ByteOrder and AppendByteOrder interfaces into
// a single EndianEngine interface. The compressed container declares its byte
// order in the header flag word; every fixed-width field in the format is
// read and written through an engine so both orders are supported by the same
// code paths.
//
// Most callers want GetLittleEndianEngine, the format default:
//
//	engine := endian.GetLittleEndianEngine()
//	engine.PutUint64(buf, checksum)
//
// All functions and returned engines are immutable, stateless and safe for
// concurrent use.
package endian

import (
	"encoding/binary"
	"unsafe"
)

// EndianEngine combines ByteOrder and AppendByteOrder from encoding/binary
// into a single interface for byte order operations.
//
// binary.LittleEndian and binary.BigEndian both satisfy it, so the append
// fast paths of the standard library stay available.
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// GetLittleEndianEngine returns the little-endian engine, the wire default.
func GetLittleEndianEngine() EndianEngine {
	return binary.LittleEndian
}

// GetBigEndianEngine returns the big-endian engine.
func GetBigEndianEngine() EndianEngine {
	return binary.BigEndian
}

// Native returns the host byte order, determined by probing a fixed
// integer value.
func Native() EndianEngine {
	var i uint16 = 0x0100
	b := (*[2]byte)(unsafe.Pointer(&i))
	if b[0] == 0x01 {
		return binary.BigEndian
	}

	return binary.LittleEndian
}

// IsNativeLittleEndian reports whether the host is little-endian.
func IsNativeLittleEndian() bool {
	return Native() == GetLittleEndianEngine()
}
