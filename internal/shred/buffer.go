package shred

import (
	crand "crypto/rand"
	mrand "math/rand/v2"
)

// DefaultBufferSize is the size of the block written repeatedly across a file.
const DefaultBufferSize = 4096

// newPassBuffer returns a buffer for a single pass. Random buffers are filled
// once here and then written unchanged to every chunk of the pass.
func newPassBuffer(size int, mode FillMode) []byte {
	buf := make([]byte, size)
	if mode == FillRandom {
		fillRandom(buf)
	}
	return buf
}

// fillRandom fills buf with uniformly distributed bytes.
func fillRandom(buf []byte) {
	if len(buf) == 0 {
		return
	}

	if _, err := crand.Read(buf); err != nil {
		// Fallback to the non-cryptographic generator
		for i := range buf {
			buf[i] = byte(mrand.IntN(256))
		}
	}
}
