// Package section defines the wire sections of the compressed container:
// the fixed-size format header and the per-chunk metadata block. Each
// section provides a Parse / AppendTo pair that reads and writes its exact
// byte layout through an endian engine.
package section

import (
	"fmt"

	"github.com/arloliu/numpack/endian"
	"github.com/arloliu/numpack/errs"
)

// Header is the fixed-size container header.
//
// Layout (4 bytes):
//
//	bytes 0-1: Options word, always little-endian: bit 0 endianness of all
//	           other fixed-width fields, bits 1-3 reserved, bits 4-15 magic
//	bytes 2:   format version
//	bytes 3:   reserved, zero
type Header struct {
	Options uint16
	Version uint8
}

// NewHeader creates a v1 header with the default little-endian byte order.
func NewHeader() Header {
	return Header{
		Options: MagicNumericV1Opt,
		Version: FormatVersion,
	}
}

// IsBigEndian reports whether fixed-width fields use big-endian order.
func (h Header) IsBigEndian() bool {
	return (h.Options & EndiannessMask) != 0
}

// WithBigEndian sets big-endian byte order.
func (h *Header) WithBigEndian() {
	h.Options |= EndiannessMask
}

// WithLittleEndian sets little-endian byte order.
func (h *Header) WithLittleEndian() {
	h.Options &^= EndiannessMask
}

// Engine returns the endian engine implied by the endianness flag.
func (h Header) Engine() endian.EndianEngine {
	if h.IsBigEndian() {
		return endian.GetBigEndianEngine()
	}

	return endian.GetLittleEndianEngine()
}

// AppendTo appends the serialized header to dst.
func (h Header) AppendTo(dst []byte) []byte {
	// The Options word itself is always little-endian so a reader can
	// discover the endianness of everything else.
	dst = append(dst, byte(h.Options), byte(h.Options>>8))
	dst = append(dst, h.Version, 0)

	return dst
}

// ParseHeader parses and validates a container header from the prefix of
// data.
func ParseHeader(data []byte) (Header, error) {
	if len(data) < HeaderSize {
		return Header{}, fmt.Errorf("%w: need %d bytes, have %d", errs.ErrInvalidHeader, HeaderSize, len(data))
	}

	h := Header{
		Options: uint16(data[0]) | uint16(data[1])<<8,
		Version: data[2],
	}

	if h.Options&MagicNumberMask != MagicNumericV1Opt&MagicNumberMask {
		return Header{}, fmt.Errorf("%w: 0x%04x", errs.ErrInvalidMagic, h.Options&MagicNumberMask)
	}
	if h.Version != FormatVersion {
		return Header{}, fmt.Errorf("%w: version %d", errs.ErrUnsupportedVersion, h.Version)
	}

	return h, nil
}
