package section

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/numpack/endian"
	"github.com/arloliu/numpack/errs"
)

func TestHeader_RoundTrip(t *testing.T) {
	h := NewHeader()
	buf := h.AppendTo(nil)
	require.Len(t, buf, HeaderSize)

	parsed, err := ParseHeader(buf)
	require.NoError(t, err)
	require.Equal(t, h, parsed)
	require.False(t, parsed.IsBigEndian())
	require.Equal(t, endian.GetLittleEndianEngine(), parsed.Engine())
}

func TestHeader_BigEndianFlag(t *testing.T) {
	h := NewHeader()
	h.WithBigEndian()

	parsed, err := ParseHeader(h.AppendTo(nil))
	require.NoError(t, err)
	require.True(t, parsed.IsBigEndian())
	require.Equal(t, endian.GetBigEndianEngine(), parsed.Engine())

	h.WithLittleEndian()
	parsed, err = ParseHeader(h.AppendTo(nil))
	require.NoError(t, err)
	require.False(t, parsed.IsBigEndian())
}

func TestParseHeader_Truncated(t *testing.T) {
	buf := NewHeader().AppendTo(nil)
	for i := 0; i < HeaderSize; i++ {
		_, err := ParseHeader(buf[:i])
		require.ErrorIs(t, err, errs.ErrInvalidHeader, "length %d", i)
		require.ErrorIs(t, err, errs.ErrMalformedInput)
	}
}

func TestParseHeader_BadMagic(t *testing.T) {
	buf := NewHeader().AppendTo(nil)
	buf[1] ^= 0xF0

	_, err := ParseHeader(buf)
	require.ErrorIs(t, err, errs.ErrInvalidMagic)
}

func TestParseHeader_UnsupportedVersion(t *testing.T) {
	buf := NewHeader().AppendTo(nil)
	buf[2] = FormatVersion + 1

	_, err := ParseHeader(buf)
	require.ErrorIs(t, err, errs.ErrUnsupportedVersion)
}
