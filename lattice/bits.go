package lattice

const bitsPerSymbol = 2

// Expand each byte into eight bits, most significant bit first
func toBits(b []byte) []byte {
	bits := make([]byte, 0, len(b)<<3)
	for _, c := range b {
		for i := 7; i >= 0; i-- {
			bits = append(bits, c>>uint(i)&1)
		}
	}
	return bits
}

// Append eccBytes worth of zero bits and then one more if needed so that the
// result is a whole number of symbols
func padBits(bits []byte, eccBytes int) []byte {
	bits = append(bits, make([]byte, eccBytes<<3)...)
	if len(bits)%bitsPerSymbol != 0 {
		bits = append(bits, 0)
	}
	return bits
}

// Consume bits in pairs, the first bit of each pair is the high bit of the
// symbol
func toSymbols(bits []byte) []Symbol {
	symbols := make([]Symbol, 0, len(bits)/bitsPerSymbol)
	for i := 0; i+1 < len(bits); i += bitsPerSymbol {
		symbols = append(symbols, Symbol(bits[i]<<1|bits[i+1]))
	}
	return symbols
}
