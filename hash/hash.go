// Package hash computes structural hashes of AST nodes and related compiler
// values. A Hash is a fixed 32-byte value built from murmur3; it supports
// ordered (Merge) and unordered (Add) combination.
package hash

import (
	"encoding/binary"

	"github.com/spaolacci/murmur3"
)

// Size is the byte length of a Hash.
const Size = 32

// Hash is a 32-byte hash value. The zero Hash is the identity for Add and is
// never produced for actual data.
type Hash [Size]byte

// Zero is the zero hash value.
var Zero = Hash{}

// Bytes hashes a byte slice.
func Bytes(data []byte) Hash {
	var h Hash
	a, b := murmur3.Sum128WithSeed(data, 0)
	c, d := murmur3.Sum128WithSeed(data, 0x9e3779b9)
	binary.LittleEndian.PutUint64(h[0:], a)
	binary.LittleEndian.PutUint64(h[8:], b)
	binary.LittleEndian.PutUint64(h[16:], c)
	binary.LittleEndian.PutUint64(h[24:], d)
	return h
}

// String hashes a string.
func String(s string) Hash {
	return Bytes([]byte(s))
}

// Int hashes an integer.
func Int(v int64) Hash {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(v))
	return Bytes(buf[:])
}

// Bool hashes a boolean.
func Bool(v bool) Hash {
	if v {
		return Bytes([]byte{1})
	}
	return Bytes([]byte{0})
}

// Merge combines two hashes in an order-dependent way: h.Merge(x) != x.Merge(h)
// in general. Use it to fold children into a parent hash.
func (h Hash) Merge(other Hash) Hash {
	var buf [2 * Size]byte
	copy(buf[:], h[:])
	copy(buf[Size:], other[:])
	return Bytes(buf[:])
}

// Add combines two hashes commutatively: h.Add(x) == x.Add(h), and the zero
// hash is the identity. Use it for unordered collections.
func (h Hash) Add(other Hash) Hash {
	var r Hash
	for i := 0; i < Size; i += 8 {
		a := binary.LittleEndian.Uint64(h[i:])
		b := binary.LittleEndian.Uint64(other[i:])
		binary.LittleEndian.PutUint64(r[i:], a+b)
	}
	return r
}
