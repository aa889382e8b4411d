package packet

import (
	"ndnlite.dev/lite/tlv"
	"ndnlite.dev/lite/tlverr"
	"ndnlite.dev/lite/varint"
)

// MetaInfo is the optional bag of sub-TLVs carried between a Data packet's
// name and its content (spec.md §3). Any subset of fields may be absent;
// their wire order is fixed regardless of which are present.
type MetaInfo struct {
	ContentType       uint64
	EnableContentType bool

	FreshnessPeriod       uint64
	EnableFreshnessPeriod bool

	// FinalBlockID is carried as a raw name-component payload (its type
	// code is fixed by the wire format, not chosen by the caller).
	FinalBlockID       []byte
	EnableFinalBlockID bool
}

func probeMetaInfoInnerSize(m *MetaInfo) uint64 {
	var inner uint64
	if m.EnableContentType {
		l := uint64(varint.ProbeUintLength(m.ContentType))
		inner += uint64(varint.ProbeVarSize(TLVContentType)) + uint64(varint.ProbeVarSize(l)) + l
	}
	if m.EnableFreshnessPeriod {
		l := uint64(varint.ProbeUintLength(m.FreshnessPeriod))
		inner += uint64(varint.ProbeVarSize(TLVFreshnessPeriod)) + uint64(varint.ProbeVarSize(l)) + l
	}
	if m.EnableFinalBlockID {
		compSize := uint64(varint.ProbeVarSize(finalBlockIDComponentType)) +
			uint64(varint.ProbeVarSize(uint64(len(m.FinalBlockID)))) + uint64(len(m.FinalBlockID))
		inner += uint64(varint.ProbeVarSize(TLVFinalBlockID)) + uint64(varint.ProbeVarSize(compSize)) + compSize
	}
	return inner
}

// finalBlockIDComponentType is the name-component type code nested inside
// TLV_FinalBlockId, matching TLV_GenericNameComponent (NDN packet format).
const finalBlockIDComponentType = 8

// ProbeMetaInfoBlockSize returns the total wire size of m's TLV_MetaInfo
// element, without encoding anything.
func ProbeMetaInfoBlockSize(m *MetaInfo) uint64 {
	inner := probeMetaInfoInnerSize(m)
	return uint64(varint.ProbeVarSize(TLVMetaInfo)) + uint64(varint.ProbeVarSize(inner)) + inner
}

// encodeMetaInfo emits TLV_MetaInfo in fixed field order: content-type,
// freshness-period, final-block-id.
func encodeMetaInfo(enc *tlv.Encoder, m *MetaInfo) error {
	inner := probeMetaInfoInnerSize(m)
	if err := enc.AppendType(TLVMetaInfo); err != nil {
		return err
	}
	if err := enc.AppendLength(inner); err != nil {
		return err
	}
	if m.EnableContentType {
		if err := enc.AppendUintTLV(TLVContentType, m.ContentType); err != nil {
			return err
		}
	}
	if m.EnableFreshnessPeriod {
		if err := enc.AppendUintTLV(TLVFreshnessPeriod, m.FreshnessPeriod); err != nil {
			return err
		}
	}
	if m.EnableFinalBlockID {
		compSize := uint64(varint.ProbeVarSize(finalBlockIDComponentType)) +
			uint64(varint.ProbeVarSize(uint64(len(m.FinalBlockID)))) + uint64(len(m.FinalBlockID))
		if err := enc.AppendType(TLVFinalBlockID); err != nil {
			return err
		}
		if err := enc.AppendLength(compSize); err != nil {
			return err
		}
		if err := enc.AppendType(finalBlockIDComponentType); err != nil {
			return err
		}
		if err := enc.AppendLength(uint64(len(m.FinalBlockID))); err != nil {
			return err
		}
		if err := enc.AppendRaw(m.FinalBlockID); err != nil {
			return err
		}
	}
	return nil
}

// decodeMetaInfo mirrors encodeMetaInfo's order, tolerating any subset of
// fields being absent.
func decodeMetaInfo(dec *tlv.Decoder) (*MetaInfo, error) {
	if err := dec.ExpectType(TLVMetaInfo); err != nil {
		return nil, err
	}
	length, err := dec.GetLength()
	if err != nil {
		return nil, err
	}
	if length > uint64(dec.Remaining()) {
		return nil, tlverr.New(tlverr.BUFFER_UNDERFLOW, "metainfo length exceeds remaining buffer")
	}
	end := dec.Offset() + int(length)

	m := &MetaInfo{}
	for dec.Offset() < end {
		typ, err := dec.GetType()
		if err != nil {
			return nil, err
		}
		if err := dec.MoveBackward(varint.ProbeVarSize(typ)); err != nil {
			return nil, err
		}
		switch typ {
		case TLVContentType:
			v, err := dec.GetUintTLV(TLVContentType)
			if err != nil {
				return nil, err
			}
			m.ContentType = v
			m.EnableContentType = true
		case TLVFreshnessPeriod:
			v, err := dec.GetUintTLV(TLVFreshnessPeriod)
			if err != nil {
				return nil, err
			}
			m.FreshnessPeriod = v
			m.EnableFreshnessPeriod = true
		case TLVFinalBlockID:
			if err := dec.ExpectType(TLVFinalBlockID); err != nil {
				return nil, err
			}
			if _, err := dec.GetLength(); err != nil {
				return nil, err
			}
			if err := dec.ExpectType(finalBlockIDComponentType); err != nil {
				return nil, err
			}
			l, err := dec.GetLength()
			if err != nil {
				return nil, err
			}
			if l > uint64(dec.Remaining()) {
				return nil, tlverr.New(tlverr.BUFFER_UNDERFLOW, "final-block-id length exceeds remaining buffer")
			}
			payload := make([]byte, l)
			if err := dec.GetRaw(payload, int(l)); err != nil {
				return nil, err
			}
			m.FinalBlockID = payload
			m.EnableFinalBlockID = true
		default:
			if _, err := dec.GetBlock(typ); err != nil {
				return nil, err
			}
		}
	}
	if dec.Offset() != end {
		return nil, tlverr.New(tlverr.INVALID_FORMAT, "metainfo sub-TLVs did not align with declared length")
	}
	return m, nil
}
