package shred

import (
	"bytes"
	"io"

	"github.com/cockroachdb/errors"
)

// VerifyZero reads back the first size bytes of r and checks that every byte
// is zero. It is used after a terminal zero pass.
func VerifyZero(r io.ReaderAt, name string, size int64) error {
	buf := make([]byte, DefaultBufferSize)
	zero := make([]byte, DefaultBufferSize)

	var off int64
	for off < size {
		n := int64(len(buf))
		if size-off < n {
			n = size - off
		}
		read, err := r.ReadAt(buf[:n], off)
		if int64(read) < n {
			if err == nil {
				err = io.ErrUnexpectedEOF
			}
			return ioError(OpVerify, name, err)
		}
		if !bytes.Equal(buf[:n], zero[:n]) {
			for i, b := range buf[:n] {
				if b != 0 {
					return ioError(OpVerify, name, errors.Newf("non-zero byte at offset %d", off+int64(i)))
				}
			}
		}
		off += n
	}
	return nil
}
