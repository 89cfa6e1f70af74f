// (c) 2022-2022, LDC Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cborpath

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"math/big"
)

// Encode serializes v back to CBOR bytes, preserving map insertion order
// (it never sorts keys the way a canonicalizing encoder would — spec §1
// explicitly says this engine "does not canonicalize CBOR"). Any Tags
// recorded on v are re-wrapped outermost-first.
func (v *Value) Encode() ([]byte, error) {
	var buf bytes.Buffer
	if err := v.encodeInto(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// MustMarshal is Encode, panicking on error. Mirrors the teacher's
// MustMarshal.
func MustMarshal(v *Value) []byte {
	data, err := v.Encode()
	if err != nil {
		panic(err)
	}
	return data
}

// MarshalCBOR implements cbor.Marshaler, so a Value composes inside
// structs that use github.com/fxamacker/cbor struct tags, the same way
// the teacher's Node implements cbor.Marshaler.
func (v *Value) MarshalCBOR() ([]byte, error) {
	return v.Encode()
}

// UnmarshalCBOR implements cbor.Unmarshaler.
func (v *Value) UnmarshalCBOR(data []byte) error {
	parsed, err := Decode(data)
	if err != nil {
		return err
	}
	*v = *parsed
	return nil
}

func (v *Value) encodeInto(buf *bytes.Buffer) error {
	for _, tag := range v.Tags {
		writeHead(buf, cborTypeTag, tag)
	}

	switch v.Kind {
	case KindNull:
		buf.WriteByte(0xf6)
	case KindBool:
		if v.Bool {
			buf.WriteByte(0xf5)
		} else {
			buf.WriteByte(0xf4)
		}
	case KindInt:
		if v.BigInt != nil {
			return encodeBigInt(buf, v.BigInt)
		}
		if v.Int >= 0 {
			writeHead(buf, cborTypePositiveInt, uint64(v.Int))
		} else {
			writeHead(buf, cborTypeNegativeInt, uint64(-1-v.Int))
		}
	case KindFloat:
		var b8 [8]byte
		binary.BigEndian.PutUint64(b8[:], math.Float64bits(v.Float))
		buf.WriteByte(0xfb)
		buf.Write(b8[:])
	case KindText:
		writeHead(buf, cborTypeTextString, uint64(len(v.Text)))
		buf.WriteString(v.Text)
	case KindBytes:
		writeHead(buf, cborTypeByteString, uint64(len(v.Bytes)))
		buf.Write(v.Bytes)
	case KindArray:
		writeHead(buf, cborTypeArray, uint64(len(v.Array)))
		for _, e := range v.Array {
			if err := e.encodeInto(buf); err != nil {
				return err
			}
		}
	case KindMap:
		entries := v.Map.Entries()
		writeHead(buf, cborTypeMap, uint64(len(entries)))
		for _, e := range entries {
			if err := e.Key.encodeInto(buf); err != nil {
				return err
			}
			if err := e.Value.encodeInto(buf); err != nil {
				return err
			}
		}
	default:
		return fmt.Errorf("cborpath: cannot encode value of kind %s", v.Kind)
	}
	return nil
}

func encodeBigInt(buf *bytes.Buffer, n *big.Int) error {
	if n.Sign() >= 0 {
		if n.IsUint64() {
			writeHead(buf, cborTypePositiveInt, n.Uint64())
			return nil
		}
		return fmt.Errorf("cborpath: integer %s exceeds supported range", n.String())
	}
	// Negative: encoded as -1-n, i.e. magnitude = -n - 1.
	mag := new(big.Int).Neg(n)
	mag.Sub(mag, big.NewInt(1))
	if mag.IsUint64() {
		writeHead(buf, cborTypeNegativeInt, mag.Uint64())
		return nil
	}
	return fmt.Errorf("cborpath: integer %s exceeds supported range", n.String())
}

// writeHead writes a CBOR item head (major type + argument) using the
// shortest definite-length encoding for n, per RFC 8949 §3.
func writeHead(buf *bytes.Buffer, major CBORType, n uint64) {
	switch {
	case n < 24:
		buf.WriteByte(byte(major) | byte(n))
	case n <= 0xff:
		buf.WriteByte(byte(major) | 24)
		buf.WriteByte(byte(n))
	case n <= 0xffff:
		buf.WriteByte(byte(major) | 25)
		var b2 [2]byte
		binary.BigEndian.PutUint16(b2[:], uint16(n))
		buf.Write(b2[:])
	case n <= 0xffffffff:
		buf.WriteByte(byte(major) | 26)
		var b4 [4]byte
		binary.BigEndian.PutUint32(b4[:], uint32(n))
		buf.Write(b4[:])
	default:
		buf.WriteByte(byte(major) | 27)
		var b8 [8]byte
		binary.BigEndian.PutUint64(b8[:], n)
		buf.Write(b8[:])
	}
}
