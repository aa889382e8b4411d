package packet

import (
	"testing"

	"ndnlite.dev/lite/tlv"
)

func TestMetaInfoRoundTripAllFields(t *testing.T) {
	m := &MetaInfo{
		ContentType:           0,
		EnableContentType:     true,
		FreshnessPeriod:       4000,
		EnableFreshnessPeriod: true,
		FinalBlockID:          []byte{0x09},
		EnableFinalBlockID:    true,
	}

	buf := make([]byte, 64)
	enc := tlv.NewEncoder(buf)
	if err := encodeMetaInfo(enc, m); err != nil {
		t.Fatalf("encode: %v", err)
	}

	dec := tlv.NewDecoder(enc.Bytes())
	got, err := decodeMetaInfo(dec)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.ContentType != m.ContentType || !got.EnableContentType {
		t.Errorf("content-type mismatch: %+v", got)
	}
	if got.FreshnessPeriod != m.FreshnessPeriod || !got.EnableFreshnessPeriod {
		t.Errorf("freshness-period mismatch: %+v", got)
	}
	if string(got.FinalBlockID) != string(m.FinalBlockID) || !got.EnableFinalBlockID {
		t.Errorf("final-block-id mismatch: %+v", got)
	}
}

func TestMetaInfoRoundTripEmpty(t *testing.T) {
	m := &MetaInfo{}
	buf := make([]byte, 16)
	enc := tlv.NewEncoder(buf)
	if err := encodeMetaInfo(enc, m); err != nil {
		t.Fatalf("encode: %v", err)
	}
	// TLV_MetaInfo{T,L=0}: exactly 2 bytes.
	if len(enc.Bytes()) != 2 {
		t.Errorf("empty metainfo should encode to 2 bytes, got %d", len(enc.Bytes()))
	}

	dec := tlv.NewDecoder(enc.Bytes())
	got, err := decodeMetaInfo(dec)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.EnableContentType || got.EnableFreshnessPeriod || got.EnableFinalBlockID {
		t.Errorf("expected no fields enabled, got %+v", got)
	}
}

func TestProbeMetaInfoBlockSizeMatchesEncode(t *testing.T) {
	m := &MetaInfo{FreshnessPeriod: 10, EnableFreshnessPeriod: true}
	want := ProbeMetaInfoBlockSize(m)

	buf := make([]byte, 64)
	enc := tlv.NewEncoder(buf)
	if err := encodeMetaInfo(enc, m); err != nil {
		t.Fatalf("encode: %v", err)
	}
	if uint64(len(enc.Bytes())) != want {
		t.Errorf("probe %d != actual %d", want, len(enc.Bytes()))
	}
}
