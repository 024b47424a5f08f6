package section

const (
	// HeaderSize is the fixed byte size of the container header.
	HeaderSize = 4

	// MagicNumericV1Opt is the Options-word magic for format v1. The magic
	// occupies bits 4-15 of the Options field; low bits carry flags.
	MagicNumericV1Opt uint16 = 0xCA10

	// MagicNumberMask masks the magic number bits of the Options field.
	MagicNumberMask uint16 = 0xFFF0

	// EndiannessMask masks the endianness bit (0 = little, 1 = big).
	EndiannessMask uint16 = 0x0001

	// FormatVersion is the current container format version.
	FormatVersion uint8 = 1

	// TerminatorTag ends the sequence of chunk groups in a container. It
	// shares the type-tag byte position and no valid logical type is zero.
	TerminatorTag byte = 0x00

	// ChecksumSize is the byte size of an xxhash64 checksum field.
	ChecksumSize = 8

	// MaxChunkN is the largest element count a single chunk may declare.
	// Metadata claiming more is rejected as malformed, which bounds the
	// allocations a forged block can trigger before any page is read.
	MaxChunkN = 1 << 30

	// ChunkFlagChecksum marks a chunk whose metadata and page bodies carry
	// xxhash64 checksums.
	ChunkFlagChecksum byte = 0x01
)
