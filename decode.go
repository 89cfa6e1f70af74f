// (c) 2022-2022, LDC Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
//
// This file is a derived work, based on the github.com/fxamacker/cbor whose
// original notices appear below.
//
// It is distributed under a license compatible with the licensing terms of
// the original code from which it is derived.
//
// Much love to the original authors for their work.
// **********
// MIT License
//
// Copyright (c) 2019-present Faye Amacker
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package cborpath

import (
	"encoding/binary"
	"fmt"
	"math"
	"math/big"

	"github.com/fxamacker/cbor/v2"
)

// CBORType is the CBOR major type of a raw encoded item, read from its
// first byte. Mirrors the teacher's cbor.go CBORType.
type CBORType uint8

const (
	cborTypePositiveInt CBORType = 0x00
	cborTypeNegativeInt CBORType = 0x20
	cborTypeByteString  CBORType = 0x40
	cborTypeTextString  CBORType = 0x60
	cborTypeArray       CBORType = 0x80
	cborTypeMap         CBORType = 0xa0
	cborTypeTag         CBORType = 0xc0
	cborTypePrimitives  CBORType = 0xe0
)

// decMode is used only to pre-validate well-formedness before cborpath's
// own item walker runs; it never produces the decoded tree itself (see
// DESIGN.md, "Decoder / Encoder").
var decMode, _ = cbor.DecOptions{
	DupMapKey:   cbor.DupMapKeyEnforcedAPF,
	IndefLength: cbor.IndefLengthForbidden,
}.DecMode()

// wellformednessChecker validates raw CBOR bytes before decoding. It is
// swappable via SetWellformednessChecker, mirroring the teacher's SetCBOR
// codec override.
var wellformednessChecker = decMode.Valid

// SetWellformednessChecker overrides the well-formedness pre-check used by
// Decode. Most callers never need this; it exists for the same reason the
// teacher's SetCBOR exists — to let an embedder swap codec behavior
// globally without forking the package.
func SetWellformednessChecker(valid func(data []byte) error) {
	wellformednessChecker = valid
}

// Decode parses a CBOR-encoded document into a Value tree, preserving map
// insertion order (spec §3, §4.2, §9). It rejects indefinite-length items,
// matching the teacher's IndefLength: cbor.IndefLengthForbidden DecMode.
func Decode(data []byte) (*Value, error) {
	if err := wellformednessChecker(data); err != nil {
		return nil, fmt.Errorf("cborpath: malformed CBOR: %w", err)
	}
	v, n, err := decodeItem(data)
	if err != nil {
		return nil, err
	}
	if n != len(data) {
		return nil, fmt.Errorf("cborpath: %d trailing byte(s) after top-level value", len(data)-n)
	}
	return v, nil
}

// MustDecode is Decode, panicking on error. Mirrors the teacher's
// MustFromJSON/MustMarshal panic-wrapping convenience functions.
func MustDecode(data []byte) *Value {
	v, err := Decode(data)
	if err != nil {
		panic(err)
	}
	return v
}

// decodeItem reads exactly one well-formed CBOR item starting at data[0]
// and returns it along with the number of bytes it consumed.
func decodeItem(data []byte) (*Value, int, error) {
	if len(data) == 0 {
		return nil, 0, fmt.Errorf("cborpath: unexpected end of CBOR data")
	}

	first := data[0]
	major := CBORType(first & 0xe0)
	ai := first & 0x1f

	arg, headLen, err := decodeArgument(data, ai)
	if err != nil {
		return nil, 0, err
	}

	switch major {
	case cborTypePositiveInt:
		return bigUintValue(arg), headLen, nil

	case cborTypeNegativeInt:
		// CBOR negative integers encode -1-n.
		one := new(big.Int).SetUint64(1)
		n := new(big.Int).Add(arg.bigInt(), one)
		n.Neg(n)
		return NewBigInt(n), headLen, nil

	case cborTypeByteString:
		length := arg.uint64Value()
		if headLen+int(length) > len(data) {
			return nil, 0, fmt.Errorf("cborpath: truncated byte string")
		}
		b := make([]byte, length)
		copy(b, data[headLen:headLen+int(length)])
		return NewBytes(b), headLen + int(length), nil

	case cborTypeTextString:
		length := arg.uint64Value()
		if headLen+int(length) > len(data) {
			return nil, 0, fmt.Errorf("cborpath: truncated text string")
		}
		s := string(data[headLen : headLen+int(length)])
		return NewText(s), headLen + int(length), nil

	case cborTypeArray:
		count := arg.uint64Value()
		elems := make([]*Value, 0, count)
		off := headLen
		for i := uint64(0); i < count; i++ {
			v, n, err := decodeItem(data[off:])
			if err != nil {
				return nil, 0, err
			}
			elems = append(elems, v)
			off += n
		}
		return NewArray(elems...), off, nil

	case cborTypeMap:
		count := arg.uint64Value()
		entries := make([]MapEntry, 0, count)
		off := headLen
		for i := uint64(0); i < count; i++ {
			k, n, err := decodeItem(data[off:])
			if err != nil {
				return nil, 0, err
			}
			off += n
			for _, e := range entries {
				if Equal(e.Key, k) {
					return nil, 0, fmt.Errorf("cborpath: duplicate map key %s", k.String())
				}
			}
			val, n, err := decodeItem(data[off:])
			if err != nil {
				return nil, 0, err
			}
			off += n
			entries = append(entries, MapEntry{Key: k, Value: val})
		}
		return &Value{Kind: KindMap, Map: &OrderedMap{entries: entries}}, off, nil

	case cborTypeTag:
		tagNum := arg.uint64Value()
		inner, n, err := decodeItem(data[headLen:])
		if err != nil {
			return nil, 0, err
		}
		tagged := *inner
		tagged.Tags = append([]uint64{tagNum}, inner.Tags...)
		return &tagged, headLen + n, nil

	case cborTypePrimitives:
		return decodePrimitive(first, ai, arg, headLen, data)

	default:
		return nil, 0, fmt.Errorf("cborpath: invalid CBOR major type byte 0x%02x", first)
	}
}

func decodePrimitive(first, ai byte, arg cborArgument, headLen int, data []byte) (*Value, int, error) {
	switch ai {
	case 20:
		return NewBool(false), headLen, nil
	case 21:
		return NewBool(true), headLen, nil
	case 22:
		return NewNull(), headLen, nil
	case 23:
		return NewNull(), headLen, nil // undefined, treated as null
	case 25:
		return NewFloat(float64(halfToFloat32(uint16(arg.raw)))), headLen, nil
	case 26:
		return NewFloat(float64(math.Float32frombits(uint32(arg.raw)))), headLen, nil
	case 27:
		return NewFloat(math.Float64frombits(arg.raw)), headLen, nil
	default:
		return nil, 0, fmt.Errorf("cborpath: unsupported simple value 0x%02x", first)
	}
}

// cborArgument is the decoded "additional information" argument of a CBOR
// item head: either a small literal (ai < 24) or a following 1/2/4/8-byte
// big-endian integer.
type cborArgument struct {
	raw uint64
}

func (a cborArgument) uint64Value() uint64 { return a.raw }

func (a cborArgument) bigInt() *big.Int {
	return new(big.Int).SetUint64(a.raw)
}

// decodeArgument reads the argument encoded by the low 5 bits (ai) of a
// CBOR item's first byte, returning it and the total header length
// (1 + however many follow-on bytes were consumed). Indefinite-length
// (ai == 31) is rejected — cborpath only supports definite-length items,
// matching the teacher's DecOptions.
func decodeArgument(data []byte, ai byte) (cborArgument, int, error) {
	switch {
	case ai < 24:
		return cborArgument{raw: uint64(ai)}, 1, nil
	case ai == 24:
		if len(data) < 2 {
			return cborArgument{}, 0, fmt.Errorf("cborpath: truncated 1-byte argument")
		}
		return cborArgument{raw: uint64(data[1])}, 2, nil
	case ai == 25:
		if len(data) < 3 {
			return cborArgument{}, 0, fmt.Errorf("cborpath: truncated 2-byte argument")
		}
		return cborArgument{raw: uint64(binary.BigEndian.Uint16(data[1:3]))}, 3, nil
	case ai == 26:
		if len(data) < 5 {
			return cborArgument{}, 0, fmt.Errorf("cborpath: truncated 4-byte argument")
		}
		return cborArgument{raw: uint64(binary.BigEndian.Uint32(data[1:5]))}, 5, nil
	case ai == 27:
		if len(data) < 9 {
			return cborArgument{}, 0, fmt.Errorf("cborpath: truncated 8-byte argument")
		}
		return cborArgument{raw: binary.BigEndian.Uint64(data[1:9])}, 9, nil
	default:
		return cborArgument{}, 0, fmt.Errorf("cborpath: indefinite-length items are not supported")
	}
}

// bigUintValue turns a decoded unsigned argument into an Int Value,
// promoting to big.Int only when it overflows int64 — the same overflow
// discipline the teacher's json.go:convertNumber uses for JSON numbers.
func bigUintValue(arg cborArgument) *Value {
	if arg.raw <= math.MaxInt64 {
		return NewInt(int64(arg.raw))
	}
	return NewBigInt(new(big.Int).SetUint64(arg.raw))
}

// halfToFloat32 converts an IEEE 754 half-precision float to float32.
func halfToFloat32(h uint16) float32 {
	sign := uint32(h>>15) & 0x1
	exp := uint32(h>>10) & 0x1f
	frac := uint32(h) & 0x3ff

	var bits uint32
	switch {
	case exp == 0:
		if frac == 0 {
			bits = sign << 31
		} else {
			// subnormal
			e := -1
			for frac&0x400 == 0 {
				frac <<= 1
				e++
			}
			frac &= 0x3ff
			exp32 := uint32(127 - 15 - e)
			bits = (sign << 31) | (exp32 << 23) | (frac << 13)
		}
	case exp == 0x1f:
		bits = (sign << 31) | (0xff << 23) | (frac << 13)
	default:
		exp32 := exp - 15 + 127
		bits = (sign << 31) | (exp32 << 23) | (frac << 13)
	}
	return math.Float32frombits(bits)
}
