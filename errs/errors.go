// Package errs defines the sentinel errors returned by numpack.
//
// Errors come in two granularities: family sentinels that mirror the
// caller-facing taxonomy (invalid configuration, dtype mismatch, malformed
// input, ...) and specific sentinels that wrap a family. errors.Is matches
// at either level:
//
//	errors.Is(err, errs.ErrChecksumMismatch) // the exact failure
//	errors.Is(err, errs.ErrMalformedInput)   // the family
package errs

import (
	"errors"
	"fmt"
)

// Family sentinels.
var (
	// ErrInvalidConfig indicates chunk configuration parameters that are
	// inconsistent with each other or with the data. Detected eagerly when
	// the configuration is resolved, never deferred to a partial failure.
	ErrInvalidConfig = errors.New("invalid config")

	// ErrDtypeMismatch indicates the encoded element type tag disagrees
	// with the element type the caller asked to decode.
	ErrDtypeMismatch = errors.New("dtype mismatch")

	// ErrMalformedInput indicates truncated or corrupt compressed bytes,
	// including unrecognized tag values.
	ErrMalformedInput = errors.New("malformed input")

	// ErrPageIndexOutOfRange indicates a page index at or beyond the number
	// of planned pages.
	ErrPageIndexOutOfRange = errors.New("page index out of range")

	// ErrBufferTooSmall indicates a whole-chunk convenience decode into a
	// destination smaller than the chunk. Page-level reads never return
	// this; they truncate and report unfinished progress instead.
	ErrBufferTooSmall = errors.New("destination buffer too small")

	// ErrEmptyInput indicates a decode call with zero input bytes.
	ErrEmptyInput = errors.New("empty input")
)

// Specific sentinels. Each wraps its family so both match with errors.Is.
var (
	ErrInvalidCompressionLevel = fmt.Errorf("%w: compression level out of range", ErrInvalidConfig)
	ErrInvalidDeltaOrder       = fmt.Errorf("%w: delta order out of range", ErrInvalidConfig)
	ErrInvalidLookback         = fmt.Errorf("%w: lookback distance out of range", ErrInvalidConfig)
	ErrInvalidModeSpec         = fmt.Errorf("%w: mode spec not applicable", ErrInvalidConfig)
	ErrInvalidPagingSpec       = fmt.Errorf("%w: invalid paging spec", ErrInvalidConfig)

	ErrInvalidHeader      = fmt.Errorf("%w: invalid container header", ErrMalformedInput)
	ErrInvalidMagic       = fmt.Errorf("%w: bad magic number", ErrMalformedInput)
	ErrUnsupportedVersion = fmt.Errorf("%w: unsupported format version", ErrMalformedInput)
	ErrUnrecognizedType   = fmt.Errorf("%w: unrecognized type tag", ErrMalformedInput)
	ErrTruncatedInput     = fmt.Errorf("%w: truncated input", ErrMalformedInput)
	ErrChecksumMismatch   = fmt.Errorf("%w: checksum mismatch", ErrMalformedInput)
)
