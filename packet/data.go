package packet

import (
	"ndnlite.dev/lite/cryptobackend"
	"ndnlite.dev/lite/ndnname"
	"ndnlite.dev/lite/tlv"
	"ndnlite.dev/lite/tlverr"
	"ndnlite.dev/lite/varint"
)

// Data is a named, signed piece of content (spec.md §3). It is mutable only
// until a suite's Encode function has finalised its signature; the caller
// is responsible for not mutating it afterward.
type Data struct {
	Name     ndnname.Name
	MetaInfo MetaInfo

	Content     [ContentBufferSize]byte
	ContentSize int

	Signature Signature
}

// NewData builds an empty, unsigned Data packet under name.
func NewData(name ndnname.Name) *Data {
	return &Data{Name: name}
}

// SetContent copies content into d's fixed content buffer. Fails OVERSIZE
// if content exceeds ContentBufferSize; nothing is written on failure
// (spec.md scenario S6).
func (d *Data) SetContent(content []byte) error {
	if len(content) > ContentBufferSize {
		return tlverr.Newf(tlverr.OVERSIZE, "content is %d bytes, buffer holds %d", len(content), ContentBufferSize)
	}
	d.ContentSize = copy(d.Content[:], content)
	return nil
}

func (d *Data) content() []byte { return d.Content[:d.ContentSize] }

func probeContentBlockSize(content []byte) uint64 {
	return uint64(varint.ProbeVarSize(TLVContent)) + uint64(varint.ProbeVarSize(uint64(len(content)))) + uint64(len(content))
}

func encodeContent(enc *tlv.Encoder, content []byte) error {
	if err := enc.AppendType(TLVContent); err != nil {
		return err
	}
	if err := enc.AppendLength(uint64(len(content))); err != nil {
		return err
	}
	return enc.AppendRaw(content)
}

// encodeUnsignedBlock emits name | metainfo | content | sig-info, the
// region the signature is computed over (spec.md §3, §4.5).
func encodeUnsignedBlock(enc *tlv.Encoder, d *Data) error {
	if err := ndnname.TLVEncode(enc, d.Name); err != nil {
		return err
	}
	if err := encodeMetaInfo(enc, &d.MetaInfo); err != nil {
		return err
	}
	if err := encodeContent(enc, d.content()); err != nil {
		return err
	}
	return encodeSignatureInfo(enc, &d.Signature)
}

func probeUnsignedBlockSize(d *Data) uint64 {
	return ndnname.ProbeBlockSize(d.Name) + ProbeMetaInfoBlockSize(&d.MetaInfo) +
		probeContentBlockSize(d.content()) + ProbeSignatureInfoBlockSize(&d.Signature)
}

// EncodeDigest signs d with DIGEST_SHA256 and writes the full TLV_Data
// element into buf, returning the written slice (spec.md §4.5, fixed-length
// path shared with HMAC).
func EncodeDigest(buf []byte, d *Data, suite cryptobackend.DigestSuite) ([]byte, error) {
	d.Signature.Type = SigTypeDigestSHA256
	d.Signature.EnableKeyLocator = false
	return encodeFixedLength(buf, d, 32, func(msg []byte) ([]byte, error) {
		digest, err := suite.SHA256Sign(msg)
		if err != nil {
			return nil, err
		}
		return digest[:], nil
	})
}

// EncodeHMAC signs d with HMAC_SHA256. d.Signature.KeyLocator must already
// be set (spec.md §3: HMAC requires a key locator).
func EncodeHMAC(buf []byte, d *Data, suite cryptobackend.HMACSuite, key []byte) ([]byte, error) {
	d.Signature.Type = SigTypeHMACSHA256
	d.Signature.EnableKeyLocator = true
	return encodeFixedLength(buf, d, 32, func(msg []byte) ([]byte, error) {
		tag, err := suite.HMACSign(msg, key)
		if err != nil {
			return nil, err
		}
		return tag[:], nil
	})
}

// encodeFixedLength implements the DIGEST_SHA256/HMAC_SHA256 path of
// spec.md §4.5: the signature length is known up front, so the outer TLV
// length can be computed before anything is written.
func encodeFixedLength(buf []byte, d *Data, sigSize int, sign func(msg []byte) ([]byte, error)) ([]byte, error) {
	sigValueSize := uint64(varint.ProbeVarSize(TLVSignatureValue)) + uint64(varint.ProbeVarSize(uint64(sigSize))) + uint64(sigSize)
	outerLen := probeUnsignedBlockSize(d) + sigValueSize

	enc := tlv.NewEncoder(buf)
	if err := enc.AppendType(TLVData); err != nil {
		return nil, err
	}
	if err := enc.AppendLength(outerLen); err != nil {
		return nil, err
	}
	s := enc.Offset()
	if err := encodeUnsignedBlock(enc, d); err != nil {
		return nil, err
	}
	e := enc.Offset()

	sig, err := sign(enc.Bytes()[s:e])
	if err != nil {
		return nil, err
	}
	if err := d.Signature.SetSignature(sig); err != nil {
		return nil, err
	}
	if err := encodeSignatureValue(enc, &d.Signature); err != nil {
		return nil, err
	}
	return enc.Bytes(), nil
}

// ecdsaReservedGap is the conservative prefix reservation for the ECDSA
// path (spec.md Design Notes: var_size(TLV_Data) + var_size(max packet
// length), bounded above by 9 + 9).
const ecdsaReservedGap = 9 + 9

// EncodeECDSA signs d with ECDSA_SHA256 (spec.md §4.5's length-after-signing
// path). d.Signature.KeyLocator must already be set. buf must have at least
// ecdsaReservedGap bytes of headroom beyond the final packet size.
func EncodeECDSA(buf []byte, d *Data, suite cryptobackend.ECDSASuite, privKey any) ([]byte, error) {
	d.Signature.Type = SigTypeECDSASHA256
	d.Signature.EnableKeyLocator = true

	enc := tlv.NewEncoder(buf)
	if err := enc.MoveForward(ecdsaReservedGap); err != nil {
		return nil, err
	}
	s := enc.Offset()
	if err := encodeUnsignedBlock(enc, d); err != nil {
		return nil, err
	}
	e := enc.Offset()

	der, err := suite.ECDSASign(enc.Bytes()[s:e], privKey)
	if err != nil {
		return nil, err
	}
	if err := d.Signature.SetSignature(der); err != nil {
		return nil, err
	}

	unsignedLen := e - s
	sigValueSize := ProbeSignatureValueBlockSize(&d.Signature)
	outerLen := uint64(unsignedLen) + sigValueSize

	headerLen := varint.ProbeVarSize(TLVData) + varint.ProbeVarSize(outerLen)
	if headerLen > ecdsaReservedGap {
		return nil, tlverr.New(tlverr.OVERSIZE, "ecdsa outer header exceeds reserved gap")
	}

	// The unsigned block already sits at [s, e); only the TLV_Data header
	// needs to move into the tail of the reserved gap, immediately before it.
	headerStart := s - headerLen

	headerEnc := tlv.NewEncoder(buf[:headerStart+headerLen])
	headerEnc.Reset(headerStart)
	if err := headerEnc.AppendType(TLVData); err != nil {
		return nil, err
	}
	if err := headerEnc.AppendLength(outerLen); err != nil {
		return nil, err
	}

	tail := headerStart + headerLen + unsignedLen
	tailEnc := tlv.NewEncoder(buf[:tail+int(sigValueSize)])
	tailEnc.Reset(tail)
	if err := encodeSignatureValue(tailEnc, &d.Signature); err != nil {
		return nil, err
	}

	// Close the reserved gap: shift the finished packet left to offset 0.
	n := copy(buf, tailEnc.Bytes()[headerStart:])
	return buf[:n], nil
}
