// Package face implements the boundary-only callback table a thin
// application face holds between raw packet bytes and the packet layer
// (spec.md §4.8). The packet layer never imports this package; dispatch is
// entirely the collaborator's concern.
//
// Grounded on node/p2p/envelope.go's Message/ReadError shape (a policy
// surface sitting just outside the wire codec) and on
// original_source/ndn-lite/face/direct-face.c's table walk: a fixed-size
// slab of entries, first match wins, exact-match for data and
// prefix-match for interests. Design Note §9 asks for this to be modeled
// as a bounded vector of sum-type entries instead of the source's flat
// (name, callback) array plus an is_prefix runtime tag, so the "is this
// slot a data callback or an interest callback" confusion the source
// checks at runtime is instead enforced by the type system.
package face

import (
	"ndnlite.dev/lite/ndnname"
	"ndnlite.dev/lite/packet"
	"ndnlite.dev/lite/tlv"
	"ndnlite.dev/lite/tlverr"
)

// DefaultCBEntrySize mirrors NDN_DIRECT_FACE_CB_ENTRY_SIZE, the table's
// fixed capacity in the original.
const DefaultCBEntrySize = 8

// InterestEntry dispatches on a name prefix.
type InterestEntry struct {
	Prefix     ndnname.Name
	OnInterest func(pkt []byte)
}

// DataEntry dispatches on an exact name and may additionally time out.
type DataEntry struct {
	Name      ndnname.Name
	OnData    func(pkt []byte)
	OnTimeout func()
}

// entry is the sum type a slot holds: exactly one of the two pointers is
// non-nil, or both are nil for a free slot.
type entry struct {
	interest *InterestEntry
	data     *DataEntry
}

// Table is a bounded, insertion-ordered slab of interest/data callback
// entries (spec.md §4.8, §6).
type Table struct {
	entries []entry
	cap     int
}

// NewTable builds a Table with the given fixed capacity.
func NewTable(capacity int) *Table {
	return &Table{cap: capacity}
}

func (t *Table) insert(e entry) error {
	if len(t.entries) >= t.cap {
		return tlverr.New(tlverr.FWD_APP_FACE_CB_TABLE_FULL, "face callback table is full")
	}
	t.entries = append(t.entries, e)
	return nil
}

// RegisterPrefix adds an interest entry matched by prefix.
func (t *Table) RegisterPrefix(prefix ndnname.Name, onInterest func(pkt []byte)) error {
	return t.insert(entry{interest: &InterestEntry{Prefix: prefix, OnInterest: onInterest}})
}

// ExpressInterest adds a data entry matched by exact name, as the consumer
// side of an outstanding interest.
func (t *Table) ExpressInterest(name ndnname.Name, onData func(pkt []byte), onTimeout func()) error {
	return t.insert(entry{data: &DataEntry{Name: name, OnData: onData, OnTimeout: onTimeout}})
}

// peekNameAndKind reads a raw packet's outer TLV type and the name nested
// immediately inside it, without decoding metainfo/content/signature.
// isInterest reports whether the outer type was TLV_Interest rather than
// TLV_Data.
func peekNameAndKind(pkt []byte) (name ndnname.Name, isInterest bool, err error) {
	dec := tlv.NewDecoder(pkt)
	typ, err := dec.GetType()
	if err != nil {
		return ndnname.Name{}, false, err
	}
	switch typ {
	case packet.TLVInterest:
		isInterest = true
	case packet.TLVData:
		isInterest = false
	default:
		return ndnname.Name{}, false, tlverr.Newf(tlverr.WRONG_TLV_TYPE, "expected TLV_Interest or TLV_Data, got %d", typ)
	}
	if _, err := dec.GetLength(); err != nil {
		return ndnname.Name{}, false, err
	}
	name, err = ndnname.TLVDecode(dec)
	if err != nil {
		return ndnname.Name{}, false, err
	}
	return name, isInterest, nil
}

// Dispatch peeks pkt's outer type and name, then walks the table in
// insertion order: the first data entry whose name exactly matches (for a
// Data packet) or the first interest entry whose prefix matches (for an
// Interest packet) wins. Fails FWD_NO_MATCHED_CALLBACK if nothing matches.
func (t *Table) Dispatch(pkt []byte) error {
	name, isInterest, err := peekNameAndKind(pkt)
	if err != nil {
		return err
	}
	for _, e := range t.entries {
		if !isInterest && e.data != nil && ndnname.Compare(e.data.Name, name) == 0 {
			e.data.OnData(pkt)
			return nil
		}
		if isInterest && e.interest != nil && ndnname.IsPrefixOf(e.interest.Prefix, name) == 0 {
			e.interest.OnInterest(pkt)
			return nil
		}
	}
	return tlverr.New(tlverr.FWD_NO_MATCHED_CALLBACK, "no registered callback matched")
}
