package rendertree

import (
	"encoding/binary"
	"math"

	"github.com/zeebo/blake3"
)

// Fingerprint returns a BLAKE3 digest of t's traversal sequence. Two trees
// with the same nodes in the same order have the same fingerprint.
func Fingerprint(t *RenderTree) ([32]byte, error) {
	var sum [32]byte

	it, err := Open(t)
	if err != nil {
		return sum, err
	}
	defer it.Close()

	h := blake3.New()
	var (
		n   Node
		buf []byte
	)
	for {
		ok, err := it.Next(&n)
		if err != nil {
			return sum, err
		}
		if !ok {
			break
		}
		buf = appendNode(buf[:0], n)
		_, _ = h.Write(buf) // hash writes never fail
	}
	copy(sum[:], h.Sum(nil))
	return sum, nil
}

// appendNode encodes n as: kind byte, then for text nodes the length-prefixed
// value and font, the size bits and a bold byte.
func appendNode(b []byte, n Node) []byte {
	b = append(b, byte(n.kind))
	if n.kind != KindText {
		return b
	}
	b = appendString(b, n.text.Value)
	b = appendString(b, n.text.Font)
	b = binary.LittleEndian.AppendUint32(b, math.Float32bits(n.text.FontSize))
	if n.text.Bold {
		return append(b, 1)
	}
	return append(b, 0)
}

func appendString(b []byte, s string) []byte {
	b = binary.AppendUvarint(b, uint64(len(s)))
	return append(b, s...)
}
