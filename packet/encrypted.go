package packet

import (
	"ndnlite.dev/lite/cryptobackend"
	"ndnlite.dev/lite/ndnname"
	"ndnlite.dev/lite/tlv"
	"ndnlite.dev/lite/tlverr"
	"ndnlite.dev/lite/varint"
)

// SetEncryptedContent builds the TLV_AC_ENCRYPTED_CONTENT envelope from
// spec.md §3 (key-id name, 16-byte IV, ciphertext) directly into d.Content,
// encrypting plaintext with suite under key and iv. The core never
// generates IVs; the caller supplies one.
//
// Grounded on an Open Question in spec.md §9: the source increments its
// offset by "content_size + block_size" using content_size *before* it has
// been assigned the new value. This implementation uses len(plaintext) —
// the only value that can be correct — to size the envelope and never
// touches a stale field.
func SetEncryptedContent(d *Data, plaintext []byte, keyID ndnname.Name, iv []byte, key []byte, suite cryptobackend.AESSuite) error {
	if len(iv) != AESBlockSize {
		return tlverr.Newf(tlverr.INVALID_FORMAT, "iv must be %d bytes, got %d", AESBlockSize, len(iv))
	}
	ciphertext, err := suite.AESCBCEncrypt(plaintext, iv, key)
	if err != nil {
		return err
	}

	keyIDSize := ndnname.ProbeBlockSize(keyID)
	ivBlockSize := uint64(varint.ProbeVarSize(TLVACAESIV)) + uint64(varint.ProbeVarSize(uint64(AESBlockSize))) + uint64(AESBlockSize)
	payloadBlockSize := uint64(varint.ProbeVarSize(TLVACEncryptedPayload)) +
		uint64(varint.ProbeVarSize(uint64(len(ciphertext)))) + uint64(len(ciphertext))
	envelopeInner := keyIDSize + ivBlockSize + payloadBlockSize
	envelopeSize := uint64(varint.ProbeVarSize(TLVACEncryptedContent)) +
		uint64(varint.ProbeVarSize(envelopeInner)) + envelopeInner

	if envelopeSize > ContentBufferSize {
		return tlverr.Newf(tlverr.OVERSIZE, "encrypted envelope is %d bytes, content buffer holds %d", envelopeSize, ContentBufferSize)
	}

	buf := make([]byte, envelopeSize)
	enc := tlv.NewEncoder(buf)
	if err := enc.AppendType(TLVACEncryptedContent); err != nil {
		return err
	}
	if err := enc.AppendLength(envelopeInner); err != nil {
		return err
	}
	if err := ndnname.TLVEncode(enc, keyID); err != nil {
		return err
	}
	if err := enc.AppendType(TLVACAESIV); err != nil {
		return err
	}
	if err := enc.AppendLength(uint64(AESBlockSize)); err != nil {
		return err
	}
	if err := enc.AppendRaw(iv); err != nil {
		return err
	}
	if err := enc.AppendType(TLVACEncryptedPayload); err != nil {
		return err
	}
	if err := enc.AppendLength(uint64(len(ciphertext))); err != nil {
		return err
	}
	if err := enc.AppendRaw(ciphertext); err != nil {
		return err
	}

	return d.SetContent(enc.Bytes())
}

// ParseEncryptedContent reverses the envelope built by SetEncryptedContent,
// decrypting with key and returning the recovered plaintext.
func ParseEncryptedContent(d *Data, key []byte, suite cryptobackend.AESSuite) (plaintext []byte, err error) {
	dec := tlv.NewDecoder(d.content())
	if err := dec.ExpectType(TLVACEncryptedContent); err != nil {
		return nil, err
	}
	if _, err := dec.GetLength(); err != nil {
		return nil, err
	}
	if _, err := ndnname.TLVDecode(dec); err != nil {
		return nil, err
	}
	if err := dec.ExpectType(TLVACAESIV); err != nil {
		return nil, err
	}
	ivLen, err := dec.GetLength()
	if err != nil {
		return nil, err
	}
	if int(ivLen) != AESBlockSize {
		return nil, tlverr.Newf(tlverr.INVALID_FORMAT, "iv must be %d bytes, got %d", AESBlockSize, ivLen)
	}
	iv := make([]byte, AESBlockSize)
	if err := dec.GetRaw(iv, AESBlockSize); err != nil {
		return nil, err
	}
	ciphertext, err := dec.GetBlock(TLVACEncryptedPayload)
	if err != nil {
		return nil, err
	}
	return suite.AESCBCDecrypt(ciphertext, iv, key)
}
