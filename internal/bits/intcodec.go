// Package bits provides big-endian, arbitrary-width integer and BCD codecs
// for the WIN frame format: unsigned/signed values at widths of 4, 8, 12,
// 16, 24 and 32 bits, plus the packed-decimal bytes used by the second-frame
// timestamp.
package bits

import (
	"fmt"

	"github.com/icza/bitio"
	"github.com/mewkiz/pkg/errutil"
)

// IntN returns the signed two's complement of x with the specified integer
// bit width.
//
// Examples of unsigned (n-bit width) x values on the left and decoded values
// on the right:
//
//	0b011 -> 3
//	0b010 -> 2
//	0b001 -> 1
//	0b000 -> 0
//	0b111 -> -1
//	0b110 -> -2
//	0b101 -> -3
//	0b100 -> -4
func IntN(x uint64, n uint) int64 {
	signBitMask := uint64(1) << (n - 1)
	if x&signBitMask == 0 {
		return int64(x)
	}
	v := int64(x ^ signBitMask)
	v -= int64(signBitMask)
	return v
}

// EncodeUint writes v as an nbits-wide big-endian unsigned field. It fails
// with an out-of-range error when v does not fit in nbits.
func EncodeUint(bw *bitio.Writer, v uint64, nbits uint) error {
	if nbits == 0 || nbits > 64 {
		return errutil.Newf("bits.EncodeUint: invalid width %d", nbits)
	}
	max := uint64(1)<<nbits - 1
	if v > max {
		return fmt.Errorf("%w: value %d exceeds %d-bit unsigned range", ErrOutOfRange, v, nbits)
	}
	if err := bw.WriteBits(v, uint8(nbits)); err != nil {
		return errutil.Err(err)
	}
	return nil
}

// DecodeUint reads an nbits-wide big-endian unsigned field.
func DecodeUint(br *bitio.Reader, nbits uint) (uint64, error) {
	if nbits == 0 || nbits > 64 {
		return 0, errutil.Newf("bits.DecodeUint: invalid width %d", nbits)
	}
	v, err := br.ReadBits(uint8(nbits))
	if err != nil {
		return 0, errutil.Err(err)
	}
	return v, nil
}

// EncodeInt writes v as an nbits-wide big-endian two's complement field. It
// fails with an out-of-range error when v does not fit in nbits.
func EncodeInt(bw *bitio.Writer, v int64, nbits uint) error {
	if nbits == 0 || nbits > 64 {
		return errutil.Newf("bits.EncodeInt: invalid width %d", nbits)
	}
	lo := -(int64(1) << (nbits - 1))
	hi := int64(1)<<(nbits-1) - 1
	if v < lo || v > hi {
		return fmt.Errorf("%w: value %d exceeds %d-bit signed range [%d,%d]", ErrOutOfRange, v, nbits, lo, hi)
	}
	mask := uint64(1)<<nbits - 1
	u := uint64(v) & mask
	if err := bw.WriteBits(u, uint8(nbits)); err != nil {
		return errutil.Err(err)
	}
	return nil
}

// DecodeInt reads an nbits-wide big-endian two's complement field.
func DecodeInt(br *bitio.Reader, nbits uint) (int64, error) {
	u, err := br.ReadBits(uint8(nbits))
	if err != nil {
		return 0, errutil.Err(err)
	}
	return IntN(u, nbits), nil
}
