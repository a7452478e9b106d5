package arith

import "encoding/binary"

const IDByteSize = 4

// IDToBytes returns a 4 byte big-endian representation of id
func IDToBytes(id uint32) []byte {
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, id)
	return b
}
