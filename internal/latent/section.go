// Package latent serializes streams of latent values, the integer sequences
// produced by the mode and delta transforms.
//
// A section is the unit of entropy coding: one latent stream of one page.
// Each section is self-describing via a leading encoding byte:
//
//	[encoding 1B][payload length uvarint][payload]
//
// Encodings:
//   - constant: every latent equals one value; payload is that single
//     zigzag varint. This keeps constant runs at a few bytes no matter the
//     page size or compression level.
//   - plain: one zigzag varint per latent.
//   - compressed: the plain payload passed through the chunk's byte codec,
//     chosen only when it is strictly smaller.
package latent

import (
	"fmt"

	"github.com/arloliu/numpack/compress"
	"github.com/arloliu/numpack/errs"
	"github.com/arloliu/numpack/internal/bits"
	"github.com/arloliu/numpack/internal/pool"
)

const (
	// EncodingConstant marks a section holding one repeated latent.
	EncodingConstant byte = 0x0
	// EncodingPlain marks a zigzag varint payload.
	EncodingPlain byte = 0x1
	// EncodingCompressed marks a codec-compressed zigzag varint payload.
	EncodingCompressed byte = 0x2
)

// AppendSection appends one latent section to dst and returns the extended
// slice.
//
// codec is the chunk's byte codec, or nil when the chunk uses
// format.CompressionNone. Latents are in the wrapping-signed domain; the
// section applies the zigzag mapping itself.
func AppendSection(dst []byte, latents []uint64, codec compress.Codec) ([]byte, error) {
	if v, ok := constantValue(latents); ok {
		dst = append(dst, EncodingConstant)
		payload := bits.AppendUvarint(nil, bits.ZigZag(v))
		dst = bits.AppendUvarint(dst, uint64(len(payload)))
		dst = append(dst, payload...)

		return dst, nil
	}

	plain := pool.GetPageBuffer()
	defer pool.PutPageBuffer(plain)
	for _, u := range latents {
		plain.B = bits.AppendUvarint(plain.B, bits.ZigZag(u))
	}

	if codec != nil {
		compressed, err := codec.Compress(plain.B)
		if err != nil {
			return nil, fmt.Errorf("failed to compress latent section: %w", err)
		}
		// LZ4 signals "incompressible" with zero output bytes; treat any
		// empty result as no gain.
		if len(compressed) > 0 && len(compressed) < plain.Len() {
			dst = append(dst, EncodingCompressed)
			dst = bits.AppendUvarint(dst, uint64(len(compressed)))
			dst = append(dst, compressed...)

			return dst, nil
		}
	}

	dst = append(dst, EncodingPlain)
	dst = bits.AppendUvarint(dst, uint64(plain.Len()))
	dst = append(dst, plain.B...)

	return dst, nil
}

// ReadSection parses one section from src and decodes exactly count latents
// into dst (len(dst) must be count). It returns the number of bytes of src
// consumed by the section.
func ReadSection(src []byte, count int, codec compress.Codec, dst []uint64) (int, error) {
	if len(src) < 1 {
		return 0, fmt.Errorf("%w: missing section encoding byte", errs.ErrTruncatedInput)
	}
	encoding := src[0]

	payloadLen, n := bits.Uvarint(src[1:])
	if n <= 0 {
		return 0, fmt.Errorf("%w: bad section payload length", errs.ErrMalformedInput)
	}
	headerLen := 1 + n
	if uint64(len(src)-headerLen) < payloadLen {
		return 0, fmt.Errorf("%w: section payload", errs.ErrTruncatedInput)
	}
	payload := src[headerLen : headerLen+int(payloadLen)]
	consumed := headerLen + int(payloadLen)

	switch encoding {
	case EncodingConstant:
		z, vn := bits.Uvarint(payload)
		if vn <= 0 || vn != len(payload) {
			return 0, fmt.Errorf("%w: bad constant section", errs.ErrMalformedInput)
		}
		v := bits.UnZigZag(z)
		for i := range dst[:count] {
			dst[i] = v
		}

	case EncodingPlain:
		if err := decodePlain(payload, count, dst); err != nil {
			return 0, err
		}

	case EncodingCompressed:
		if codec == nil {
			return 0, fmt.Errorf("%w: compressed section in uncompressed chunk", errs.ErrMalformedInput)
		}
		plain, err := codec.Decompress(payload)
		if err != nil {
			return 0, fmt.Errorf("%w: %v", errs.ErrMalformedInput, err)
		}
		if err := decodePlain(plain, count, dst); err != nil {
			return 0, err
		}

	default:
		return 0, fmt.Errorf("%w: unknown section encoding 0x%02x", errs.ErrMalformedInput, encoding)
	}

	return consumed, nil
}

func decodePlain(payload []byte, count int, dst []uint64) error {
	pos := 0
	for i := 0; i < count; i++ {
		z, n := bits.Uvarint(payload[pos:])
		if n <= 0 {
			return fmt.Errorf("%w: latent %d of %d", errs.ErrTruncatedInput, i, count)
		}
		dst[i] = bits.UnZigZag(z)
		pos += n
	}
	if pos != len(payload) {
		return fmt.Errorf("%w: %d trailing bytes in latent section", errs.ErrMalformedInput, len(payload)-pos)
	}

	return nil
}

func constantValue(latents []uint64) (uint64, bool) {
	if len(latents) == 0 {
		return 0, false
	}
	v := latents[0]
	for _, u := range latents[1:] {
		if u != v {
			return 0, false
		}
	}

	return v, true
}
