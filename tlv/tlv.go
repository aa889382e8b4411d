// Package tlv implements the paired TLV encoder/decoder the rest of the NDN
// core is built on: a fixed-capacity destination buffer for encoding, and a
// borrowed source buffer for decoding, both tracked by a byte cursor.
//
// Grounded on the teacher's consensus.cursor (a borrowed-slice reader with a
// pos field and readExact/readU8/... helpers that fail closed on
// truncation); generalized here with a type/length-aware walk since the
// teacher's cursor only ever reads fixed-layout fields, never a nested TLV
// tree.
package tlv

import (
	"ndnlite.dev/lite/tlverr"
	"ndnlite.dev/lite/varint"
)

// Encoder appends type/length/value bytes into a caller-owned, fixed-size
// destination buffer. The encoder never allocates and never reallocates the
// buffer; Offset never exceeds Cap.
type Encoder struct {
	buf    []byte
	cap    int
	offset int
}

// NewEncoder wraps dst for encoding. dst's full length is the encoder's
// capacity.
func NewEncoder(dst []byte) *Encoder {
	return &Encoder{buf: dst, cap: len(dst)}
}

// Offset returns the current write cursor.
func (e *Encoder) Offset() int { return e.offset }

// Bytes returns the portion of the destination buffer written so far.
func (e *Encoder) Bytes() []byte { return e.buf[:e.offset] }

// Cap returns the encoder's destination capacity.
func (e *Encoder) Cap() int { return e.cap }

// MoveForward advances the cursor by n bytes without writing, used by the
// ECDSA encode path to skip over a reserved prefix gap. Fails OVERSIZE if it
// would pass capacity.
func (e *Encoder) MoveForward(n int) error {
	if e.offset+n > e.cap {
		return tlverr.New(tlverr.OVERSIZE, "move_forward past encoder capacity")
	}
	e.offset += n
	return nil
}

// Reset rewinds the cursor to off, used by the ECDSA path once the final
// outer length is known. Callers must not rewind past a position already
// read back out via Bytes.
func (e *Encoder) Reset(off int) { e.offset = off }

// AppendRaw appends b verbatim. Fails OVERSIZE if it would pass capacity; on
// failure the offset is left unchanged (nothing partial is written).
func (e *Encoder) AppendRaw(b []byte) error {
	if e.offset+len(b) > e.cap {
		return tlverr.New(tlverr.OVERSIZE, "append_raw past encoder capacity")
	}
	copy(e.buf[e.offset:], b)
	e.offset += len(b)
	return nil
}

// AppendType appends a TLV type field (TLV-VAR encoded).
func (e *Encoder) AppendType(t uint64) error {
	return varint.AppendVar(e, t)
}

// AppendLength appends a TLV length field (TLV-VAR encoded).
func (e *Encoder) AppendLength(l uint64) error {
	return varint.AppendVar(e, l)
}

// AppendUintTLV appends a full TLV element {t, shortest-width(v), v}, the
// encoding used for e.g. TLV_SignatureType and TLV_SignedInterestTimestamp.
func (e *Encoder) AppendUintTLV(t uint64, v uint64) error {
	n := varint.ProbeUintLength(v)
	if err := e.AppendType(t); err != nil {
		return err
	}
	if err := e.AppendLength(uint64(n)); err != nil {
		return err
	}
	return varint.AppendUintTLVValue(e, v)
}

// GetVarSize returns the number of bytes a TLV-VAR encoding of v occupies;
// a thin alias over varint.ProbeVarSize kept on Encoder for call-site
// symmetry with the append methods.
func (e *Encoder) GetVarSize(v uint64) int {
	return varint.ProbeVarSize(v)
}

// ProbeBlockSize returns the total number of bytes append_type(t) +
// append_length(innerLen) + append_raw(innerLen bytes) would write, without
// writing anything: the size the caller must reserve/account for before
// emitting an outer TLV whose length depends on it.
func (e *Encoder) ProbeBlockSize(t uint64, innerLen uint64) uint64 {
	return uint64(varint.ProbeVarSize(t)) + uint64(varint.ProbeVarSize(innerLen)) + innerLen
}

// Decoder walks a borrowed, read-only source buffer with a byte cursor.
type Decoder struct {
	buf    []byte
	length int
	offset int
}

// NewDecoder wraps src for decoding. src is borrowed for the duration of the
// decode; the Decoder never retains it past the caller's use.
func NewDecoder(src []byte) *Decoder {
	return &Decoder{buf: src, length: len(src)}
}

// Offset returns the current read cursor.
func (d *Decoder) Offset() int { return d.offset }

// Remaining returns the number of unread bytes.
func (d *Decoder) Remaining() int { return d.length - d.offset }

// MoveBackward rewinds the cursor by n bytes, the one concession to
// lookahead: used to "unread" a type byte when an optional TLV section
// (e.g. TLV_Content) is absent.
func (d *Decoder) MoveBackward(n int) error {
	if d.offset-n < 0 {
		return tlverr.New(tlverr.BUFFER_UNDERFLOW, "move_backward before start of buffer")
	}
	d.offset -= n
	return nil
}

// GetRaw copies exactly n bytes into dst (which must have length >= n) and
// advances the cursor. Fails BUFFER_UNDERFLOW on truncation.
func (d *Decoder) GetRaw(dst []byte, n int) error {
	if d.Remaining() < n {
		return tlverr.New(tlverr.BUFFER_UNDERFLOW, "truncated read")
	}
	copy(dst, d.buf[d.offset:d.offset+n])
	d.offset += n
	return nil
}

// PeekByte returns the next byte without advancing the cursor. (The packet
// decoder does its content/signature-info lookahead with GetType and
// MoveBackward instead.)
func (d *Decoder) PeekByte() (byte, error) {
	if d.Remaining() < 1 {
		return 0, tlverr.New(tlverr.BUFFER_UNDERFLOW, "truncated read")
	}
	return d.buf[d.offset], nil
}

// GetType reads a TLV type field.
func (d *Decoder) GetType() (uint64, error) {
	return varint.ReadVar(d)
}

// GetLength reads a TLV length field.
func (d *Decoder) GetLength() (uint64, error) {
	return varint.ReadVar(d)
}

// ExpectType reads a TLV type field and fails WRONG_TLV_TYPE if it doesn't
// equal want.
func (d *Decoder) ExpectType(want uint64) error {
	got, err := d.GetType()
	if err != nil {
		return err
	}
	if got != want {
		return tlverr.Newf(tlverr.WRONG_TLV_TYPE, "expected TLV type %d, got %d", want, got)
	}
	return nil
}

// checkDeclaredLength rejects a just-read length field before anything
// allocates on the strength of it: a crafted/truncated packet can declare an
// arbitrarily large length, and must fail BUFFER_UNDERFLOW rather than drive
// a multi-gigabyte allocation or a makeslice panic.
func (d *Decoder) checkDeclaredLength(l uint64) error {
	if l > uint64(d.Remaining()) {
		return tlverr.New(tlverr.BUFFER_UNDERFLOW, "declared length exceeds remaining buffer")
	}
	return nil
}

// GetUintTLV reads a full TLV element and decodes its value as a shortest-
// fixed-width non-negative integer. Fails WRONG_TLV_TYPE if the type field
// doesn't match want.
func (d *Decoder) GetUintTLV(want uint64) (uint64, error) {
	if err := d.ExpectType(want); err != nil {
		return 0, err
	}
	l, err := d.GetLength()
	if err != nil {
		return 0, err
	}
	if err := d.checkDeclaredLength(l); err != nil {
		return 0, err
	}
	b := make([]byte, l)
	if err := d.GetRaw(b, int(l)); err != nil {
		return 0, err
	}
	return varint.DecodeUintTLVValue(b)
}

// GetBlock reads a full TLV element of the given type and returns its raw
// value bytes, without interpreting them. Fails WRONG_TLV_TYPE on a type
// mismatch and BUFFER_UNDERFLOW if the declared length exceeds what remains.
func (d *Decoder) GetBlock(want uint64) ([]byte, error) {
	if err := d.ExpectType(want); err != nil {
		return nil, err
	}
	l, err := d.GetLength()
	if err != nil {
		return nil, err
	}
	if err := d.checkDeclaredLength(l); err != nil {
		return nil, err
	}
	b := make([]byte, l)
	if err := d.GetRaw(b, int(l)); err != nil {
		return nil, err
	}
	return b, nil
}
