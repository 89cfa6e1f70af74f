// (c) 2022-2022, LDC Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package cborpath implements CBORPath, a JSONPath-style query language
// whose queries and documents are both RFC 8949 CBOR values instead of
// JSON text.
//
// A query is compiled from a CBOR Array with Compile or CompileValue into
// a *Path, then run against a decoded argument with Evaluate to produce an
// ordered, duplicate-preserving Nodelist. Decode/Encode convert between
// raw CBOR bytes and the package's own Value tree, which — unlike a
// generic map[interface{}]interface{} decode — preserves CBOR map
// insertion order, a requirement for CBORPath's wildcard and descendant
// traversal semantics.
//
// Apart from decoding and encoding CBOR bytes, compiling is the only step
// that can fail; Evaluate always succeeds, returning an empty Nodelist
// when nothing matches.
package cborpath
