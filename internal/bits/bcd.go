package bits

import "fmt"

// EncodeBCD packs a two-digit decimal value (0..99) into a single byte: the
// high nibble holds the tens digit, the low nibble the units digit.
func EncodeBCD(d uint8) (byte, error) {
	if d > 99 {
		return 0, fmt.Errorf("%w: BCD value %d exceeds 99", ErrOutOfRange, d)
	}
	tens := d / 10
	units := d % 10
	return tens<<4 | units, nil
}

// DecodeBCD unpacks a byte into a two-digit decimal value, failing if either
// nibble is not a decimal digit (0..9).
func DecodeBCD(b byte) (uint8, error) {
	tens := b >> 4
	units := b & 0x0F
	if tens > 9 || units > 9 {
		return 0, fmt.Errorf("%w: byte 0x%02X is not valid BCD", ErrOutOfRange, b)
	}
	return tens*10 + units, nil
}
