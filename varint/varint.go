// Package varint implements NDN's TLV-VAR variable-length unsigned integer
// encoding, used for both TLV type and TLV length fields, plus the shortest
// fixed-width encoding NDN uses for non-negative integer TLV values.
//
// A TLV-VAR value encodes as:
//   - 1 byte,                     if v < 253
//   - lead 0xFD + 2 big-endian bytes, if v < 2^16
//   - lead 0xFE + 4 big-endian bytes, if v < 2^32
//   - lead 0xFF + 8 big-endian bytes, otherwise
//
// probe and append must agree byte-for-byte: the TLV framing layer probes a
// varint's size before it has anywhere to write it (to size an outer L
// field), then appends the same value later.
package varint

import (
	"encoding/binary"

	"ndnlite.dev/lite/tlverr"
)

const (
	lead16 = 0xFD
	lead32 = 0xFE
	lead64 = 0xFF
)

// ProbeVarSize returns the number of bytes AppendVar would write for v,
// without writing anything: 1, 3, 5, or 9.
func ProbeVarSize(v uint64) int {
	switch {
	case v < lead16:
		return 1
	case v <= 0xFFFF:
		return 3
	case v <= 0xFFFFFFFF:
		return 5
	default:
		return 9
	}
}

// ProbeUintLength returns the shortest big-endian width in {1, 2, 4, 8}
// bytes that can hold v, used for non-negative-integer TLV values (distinct
// from the TLV-VAR encoding above: no lead byte, fixed power-of-two widths).
func ProbeUintLength(v uint64) int {
	switch {
	case v <= 0xFF:
		return 1
	case v <= 0xFFFF:
		return 2
	case v <= 0xFFFFFFFF:
		return 4
	default:
		return 8
	}
}

// varWriter is the minimal destination surface AppendVar needs. *tlv.Encoder
// satisfies it; kept as a local interface to avoid an import cycle with the
// tlv package (which itself calls AppendVar).
type varWriter interface {
	AppendRaw(b []byte) error
}

// AppendVar writes v's TLV-VAR encoding to enc. Fails with OVERSIZE if enc
// would be written past its capacity.
func AppendVar(enc varWriter, v uint64) error {
	switch {
	case v < lead16:
		return enc.AppendRaw([]byte{byte(v)})
	case v <= 0xFFFF:
		var b [3]byte
		b[0] = lead16
		binary.BigEndian.PutUint16(b[1:], uint16(v))
		return enc.AppendRaw(b[:])
	case v <= 0xFFFFFFFF:
		var b [5]byte
		b[0] = lead32
		binary.BigEndian.PutUint32(b[1:], uint32(v))
		return enc.AppendRaw(b[:])
	default:
		var b [9]byte
		b[0] = lead64
		binary.BigEndian.PutUint64(b[1:], v)
		return enc.AppendRaw(b[:])
	}
}

// AppendUintTLVValue writes v using ProbeUintLength's shortest fixed big-endian
// width (1, 2, 4, or 8 bytes, no lead byte). Used for TLV element values that
// carry a plain non-negative integer (e.g. signature-type, timestamp).
func AppendUintTLVValue(enc varWriter, v uint64) error {
	n := ProbeUintLength(v)
	b := make([]byte, n)
	switch n {
	case 1:
		b[0] = byte(v)
	case 2:
		binary.BigEndian.PutUint16(b, uint16(v))
	case 4:
		binary.BigEndian.PutUint32(b, uint32(v))
	case 8:
		binary.BigEndian.PutUint64(b, v)
	}
	return enc.AppendRaw(b)
}

// varReader is the minimal source surface ReadVar needs.
type varReader interface {
	GetRaw(dst []byte, n int) error
}

// ReadVar reads one TLV-VAR value from dec. Fails with BUFFER_UNDERFLOW if
// the buffer is truncated mid-varint.
func ReadVar(dec varReader) (uint64, error) {
	var lead [1]byte
	if err := dec.GetRaw(lead[:], 1); err != nil {
		return 0, err
	}
	switch lead[0] {
	case lead16:
		var b [2]byte
		if err := dec.GetRaw(b[:], 2); err != nil {
			return 0, tlverr.New(tlverr.BUFFER_UNDERFLOW, "truncated 2-byte varint")
		}
		return uint64(binary.BigEndian.Uint16(b[:])), nil
	case lead32:
		var b [4]byte
		if err := dec.GetRaw(b[:], 4); err != nil {
			return 0, tlverr.New(tlverr.BUFFER_UNDERFLOW, "truncated 4-byte varint")
		}
		return uint64(binary.BigEndian.Uint32(b[:])), nil
	case lead64:
		var b [8]byte
		if err := dec.GetRaw(b[:], 8); err != nil {
			return 0, tlverr.New(tlverr.BUFFER_UNDERFLOW, "truncated 8-byte varint")
		}
		return binary.BigEndian.Uint64(b[:]), nil
	default:
		return uint64(lead[0]), nil
	}
}

// DecodeUintTLVValue parses b as a shortest-fixed-width non-negative integer
// (1, 2, 4, or 8 bytes, as written by AppendUintTLVValue).
func DecodeUintTLVValue(b []byte) (uint64, error) {
	switch len(b) {
	case 1:
		return uint64(b[0]), nil
	case 2:
		return uint64(binary.BigEndian.Uint16(b)), nil
	case 4:
		return uint64(binary.BigEndian.Uint32(b)), nil
	case 8:
		return binary.BigEndian.Uint64(b), nil
	default:
		return 0, tlverr.Newf(tlverr.INVALID_FORMAT, "uint TLV value has non-canonical length %d", len(b))
	}
}
