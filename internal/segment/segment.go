// Package segment maps decimal digits to 7-segment activation patterns.
package segment

// Count is the number of segment lines per digit.
const Count = 7

// patterns holds the active-low segment bits for 0-9.
// Bit 6 drives segment a, bit 0 drives segment g. A set bit switches the segment off.
var patterns = [10]byte{
	0b0000001, // 0
	0b1001111, // 1
	0b0010010, // 2
	0b0000110, // 3
	0b1001100, // 4
	0b0100100, // 5
	0b0100000, // 6
	0b0001111, // 7
	0b0000000, // 8
	0b0000100, // 9
}

// Encode returns the 7-bit pattern for digit. The digit must be in 0..9.
func Encode(digit int) byte {
	return patterns[digit]
}

// Off reports whether segment bit i of pattern p switches the segment off.
func Off(p byte, i int) bool {
	return p&(1<<i) != 0
}
