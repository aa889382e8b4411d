package packet

import (
	"ndnlite.dev/lite/cryptobackend"
	"ndnlite.dev/lite/ndnname"
	"ndnlite.dev/lite/tlv"
	"ndnlite.dev/lite/tlverr"
	"ndnlite.dev/lite/varint"
)

// Decode walks a TLV_Data element out of buf, following the shared pipeline
// from spec.md §4.6: name, metainfo, optional content, signature-info,
// signature-value. It returns the decoded packet along with the signed
// byte range [signedStart, signedEnd) a suite-specific Verify* function
// must be called against. Decoding success is independent of signature
// validity (spec.md §7).
func Decode(buf []byte) (d *Data, signedStart, signedEnd int, err error) {
	dec := tlv.NewDecoder(buf)
	if err := dec.ExpectType(TLVData); err != nil {
		return nil, 0, 0, err
	}
	if _, err := dec.GetLength(); err != nil {
		return nil, 0, 0, err
	}

	s := dec.Offset()

	name, err := ndnname.TLVDecode(dec)
	if err != nil {
		return nil, 0, 0, err
	}
	meta, err := decodeMetaInfo(dec)
	if err != nil {
		return nil, 0, 0, err
	}

	d = &Data{Name: name, MetaInfo: *meta}

	typ, err := dec.GetType()
	if err != nil {
		return nil, 0, 0, err
	}
	if err := dec.MoveBackward(varint.ProbeVarSize(typ)); err != nil {
		return nil, 0, 0, err
	}

	switch typ {
	case TLVContent:
		raw, err := dec.GetBlock(TLVContent)
		if err != nil {
			return nil, 0, 0, err
		}
		if len(raw) > ContentBufferSize {
			return nil, 0, 0, tlverr.Newf(tlverr.OVERSIZE, "content is %d bytes, buffer holds %d", len(raw), ContentBufferSize)
		}
		d.ContentSize = copy(d.Content[:], raw)
	case TLVSignatureInfo:
		// No content present (spec.md scenario S4): the byte we peeked
		// and rewound past was already TLV_SignatureInfo's own type.
	default:
		return nil, 0, 0, tlverr.Newf(tlverr.WRONG_TLV_TYPE, "expected TLV_Content or TLV_SignatureInfo, got %d", typ)
	}

	sig, err := decodeSignatureInfo(dec)
	if err != nil {
		return nil, 0, 0, err
	}
	e := dec.Offset()
	d.Signature = *sig

	if err := decodeSignatureValue(dec, &d.Signature); err != nil {
		return nil, 0, 0, err
	}

	return d, s, e, nil
}

// VerifyDigest verifies d's DIGEST_SHA256 signature over buf[s:e].
func VerifyDigest(buf []byte, d *Data, s, e int, suite cryptobackend.DigestSuite) error {
	if d.Signature.Type != SigTypeDigestSHA256 {
		return tlverr.Newf(tlverr.SEC_UNSUPPORT_SIGN_TYPE, "expected DIGEST_SHA256, got type %d", d.Signature.Type)
	}
	ok, err := suite.SHA256Verify(buf[s:e], d.Signature.SigBytes())
	if err != nil {
		return err
	}
	if !ok {
		return tlverr.New(tlverr.SEC_FAIL_VERIFY, "digest mismatch")
	}
	return nil
}

// VerifyHMAC verifies d's HMAC_SHA256 signature over buf[s:e] using key.
func VerifyHMAC(buf []byte, d *Data, s, e int, suite cryptobackend.HMACSuite, key []byte) error {
	if d.Signature.Type != SigTypeHMACSHA256 {
		return tlverr.Newf(tlverr.SEC_UNSUPPORT_SIGN_TYPE, "expected HMAC_SHA256, got type %d", d.Signature.Type)
	}
	ok, err := suite.HMACVerify(buf[s:e], d.Signature.SigBytes(), key)
	if err != nil {
		return err
	}
	if !ok {
		return tlverr.New(tlverr.SEC_FAIL_VERIFY, "hmac mismatch")
	}
	return nil
}

// VerifyECDSA verifies d's ECDSA_SHA256 signature over buf[s:e] using pubKey.
func VerifyECDSA(buf []byte, d *Data, s, e int, suite cryptobackend.ECDSASuite, pubKey any) error {
	if d.Signature.Type != SigTypeECDSASHA256 {
		return tlverr.Newf(tlverr.SEC_UNSUPPORT_SIGN_TYPE, "expected ECDSA_SHA256, got type %d", d.Signature.Type)
	}
	ok, err := suite.ECDSAVerify(buf[s:e], d.Signature.SigBytes(), pubKey)
	if err != nil {
		return err
	}
	if !ok {
		return tlverr.New(tlverr.SEC_FAIL_VERIFY, "ecdsa verification failed")
	}
	return nil
}
