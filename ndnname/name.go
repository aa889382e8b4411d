// Package ndnname implements NDN hierarchical names: ordered sequences of
// typed components, encoded/decoded as nested TLV elements, parsed from
// URI-style strings, and compared for equality/prefix.
//
// Grounded on the teacher's fixed-field encode/decode pairs
// (node/store/utxo_encoding.go's encodeOutpointKey/decodeOutpointKey) for the
// encode-then-decode shape, and original_source/ndn-lite/encode/name.c's
// decode loop (a length-bounded repeat-until-consumed walk with a hard
// component-count ceiling) for TLVDecode.
package ndnname

import (
	"strings"

	"ndnlite.dev/lite/tlv"
	"ndnlite.dev/lite/tlverr"
	"ndnlite.dev/lite/varint"
)

// Wire-format type codes (spec.md §6 and the NDN packet format).
const (
	TLVName = 7

	// Name component type codes. GenericNameComponent is the default kind
	// produced by FromString; the others are kept as-is when TLVDecode reads
	// them from the wire, and callers may build such components directly.
	TLVImplicitSha256DigestComponent   = 1
	TLVParametersSha256DigestComponent = 2
	TLVGenericNameComponent            = 8
	TLVTimestampNameComponent          = 56
	TLVSequenceNumNameComponent        = 58
)

// NameComponentsMax bounds the number of components a Name may hold
// (spec.md §6, NDN_NAME_COMPONENTS_SIZE, default 10).
const NameComponentsMax = 10

// Component is a single typed, bounded-length name element.
type Component struct {
	Type    uint64
	Payload []byte
}

// Name is an ordered sequence of components.
type Name struct {
	Components []Component
}

// NewGeneric builds a single generic-type component from a byte payload.
func NewGeneric(payload []byte) Component {
	return Component{Type: TLVGenericNameComponent, Payload: append([]byte(nil), payload...)}
}

// FromString parses a URI-style name: s must begin with "/"; every "/"
// delimits a component (no escape sequences are recognised, so a component
// cannot contain "/"); every component becomes a generic component.
// Fails INVALID_FORMAT if s doesn't start with "/" or holds an empty
// component, OVERSIZE if the component count would exceed NameComponentsMax.
func FromString(s string) (Name, error) {
	if !strings.HasPrefix(s, "/") {
		return Name{}, tlverr.New(tlverr.INVALID_FORMAT, "name must begin with '/'")
	}
	trimmed := strings.TrimPrefix(s, "/")
	if trimmed == "" {
		return Name{Components: nil}, nil
	}
	parts := strings.Split(trimmed, "/")
	if len(parts) > NameComponentsMax {
		return Name{}, tlverr.Newf(tlverr.OVERSIZE, "name has %d components, max is %d", len(parts), NameComponentsMax)
	}
	comps := make([]Component, len(parts))
	for i, p := range parts {
		if p == "" {
			return Name{}, tlverr.New(tlverr.INVALID_FORMAT, "empty name component")
		}
		comps[i] = NewGeneric([]byte(p))
	}
	return Name{Components: comps}, nil
}

// String renders n back into URI form (generic components only; callers
// holding specialised components should not rely on this for wire-accurate
// round-tripping).
func (n Name) String() string {
	var b strings.Builder
	for _, c := range n.Components {
		b.WriteByte('/')
		b.Write(c.Payload)
	}
	if len(n.Components) == 0 {
		return "/"
	}
	return b.String()
}

// componentProbeSize returns the wire size of a single component TLV.
func componentProbeSize(c Component) uint64 {
	return uint64(varint.ProbeVarSize(c.Type)) + uint64(varint.ProbeVarSize(uint64(len(c.Payload)))) + uint64(len(c.Payload))
}

// ProbeBlockSize returns the total wire size of n's TLV_Name element,
// without encoding anything.
func ProbeBlockSize(n Name) uint64 {
	var inner uint64
	for _, c := range n.Components {
		inner += componentProbeSize(c)
	}
	return uint64(varint.ProbeVarSize(TLVName)) + uint64(varint.ProbeVarSize(inner)) + inner
}

// TLVEncode emits TLV_Name{T,L,concat(components)} to enc.
func TLVEncode(enc *tlv.Encoder, n Name) error {
	var inner uint64
	for _, c := range n.Components {
		inner += componentProbeSize(c)
	}
	if err := enc.AppendType(TLVName); err != nil {
		return err
	}
	if err := enc.AppendLength(inner); err != nil {
		return err
	}
	for _, c := range n.Components {
		if err := enc.AppendType(c.Type); err != nil {
			return err
		}
		if err := enc.AppendLength(uint64(len(c.Payload))); err != nil {
			return err
		}
		if err := enc.AppendRaw(c.Payload); err != nil {
			return err
		}
	}
	return nil
}

// TLVDecode reads a TLV_Name element from dec: the outer type/length, then
// components until the declared length is consumed. Fails OVERSIZE if more
// components exist than NameComponentsMax.
func TLVDecode(dec *tlv.Decoder) (Name, error) {
	if err := dec.ExpectType(TLVName); err != nil {
		return Name{}, err
	}
	length, err := dec.GetLength()
	if err != nil {
		return Name{}, err
	}
	if length > uint64(dec.Remaining()) {
		return Name{}, tlverr.New(tlverr.BUFFER_UNDERFLOW, "name length exceeds remaining buffer")
	}
	start := dec.Offset()
	var comps []Component
	for dec.Offset() < start+int(length) {
		if len(comps) >= NameComponentsMax {
			return Name{}, tlverr.Newf(tlverr.OVERSIZE, "name has more than %d components", NameComponentsMax)
		}
		typ, err := dec.GetType()
		if err != nil {
			return Name{}, err
		}
		l, err := dec.GetLength()
		if err != nil {
			return Name{}, err
		}
		if l > uint64(dec.Remaining()) {
			return Name{}, tlverr.New(tlverr.BUFFER_UNDERFLOW, "name component length exceeds remaining buffer")
		}
		payload := make([]byte, l)
		if err := dec.GetRaw(payload, int(l)); err != nil {
			return Name{}, err
		}
		comps = append(comps, Component{Type: typ, Payload: payload})
	}
	if dec.Offset() != start+int(length) {
		return Name{}, tlverr.New(tlverr.INVALID_FORMAT, "name component boundaries did not align with declared length")
	}
	return Name{Components: comps}, nil
}

// Compare returns 0 iff a and b are equal (same component count, pairwise-
// equal components comparing type first then payload bytes), non-zero
// otherwise. The sign of a non-zero result follows the first differing
// component's lexicographic order, with type as the primary key.
func Compare(a, b Name) int {
	n := len(a.Components)
	if len(b.Components) < n {
		n = len(b.Components)
	}
	for i := 0; i < n; i++ {
		if d := compareComponent(a.Components[i], b.Components[i]); d != 0 {
			return d
		}
	}
	return len(a.Components) - len(b.Components)
}

func compareComponent(a, b Component) int {
	if a.Type != b.Type {
		if a.Type < b.Type {
			return -1
		}
		return 1
	}
	return strings.Compare(string(a.Payload), string(b.Payload))
}

// IsPrefixOf returns 0 iff a is a prefix of b (including a == b): a.len <=
// b.len and the first a.len components match pairwise.
func IsPrefixOf(a, b Name) int {
	if len(a.Components) > len(b.Components) {
		return 1
	}
	for i := range a.Components {
		if compareComponent(a.Components[i], b.Components[i]) != 0 {
			return 1
		}
	}
	return 0
}
