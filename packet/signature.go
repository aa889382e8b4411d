package packet

import (
	"ndnlite.dev/lite/cryptobackend"
	"ndnlite.dev/lite/ndnname"
	"ndnlite.dev/lite/tlv"
	"ndnlite.dev/lite/tlverr"
	"ndnlite.dev/lite/varint"
)

// Signature holds everything needed to encode/decode TLV_SignatureInfo and
// TLV_SignatureValue (spec.md §3, §4.4).
type Signature struct {
	Type SignatureType

	// Value holds the raw signature bytes; Size is the number of bytes of
	// Value currently in use. Value is fixed-capacity
	// (SignatureBufferSize), matching spec.md §5's no-allocation resource
	// model.
	Value [SignatureBufferSize]byte
	Size  int

	KeyLocator       ndnname.Name
	EnableKeyLocator bool

	NotBefore, NotAfter  [15]byte
	EnableValidityPeriod bool

	Nonce       [4]byte
	EnableNonce bool

	Timestamp         uint64
	EnableTimestamp   bool
}

// SigBytes returns the in-use portion of Value.
func (s *Signature) SigBytes() []byte { return s.Value[:s.Size] }

// SetSignature copies sig into s.Value, validating its length against the
// invariants in spec.md §3: exactly 32 bytes for DIGEST_SHA256 and
// HMAC_SHA256, between MinECDSADERSize and MaxECDSADERSize for ECDSA_SHA256.
func (s *Signature) SetSignature(sig []byte) error {
	if len(sig) > SignatureBufferSize {
		return tlverr.Newf(tlverr.OVERSIZE, "signature is %d bytes, buffer holds %d", len(sig), SignatureBufferSize)
	}
	switch s.Type {
	case SigTypeDigestSHA256, SigTypeHMACSHA256:
		if len(sig) != 32 {
			return tlverr.Newf(tlverr.SEC_WRONG_SIG_SIZE, "suite requires a 32-byte signature, got %d", len(sig))
		}
	case SigTypeECDSASHA256:
		if len(sig) < cryptobackend.MinECDSADERSize || len(sig) > cryptobackend.MaxECDSADERSize {
			return tlverr.Newf(tlverr.SEC_WRONG_SIG_SIZE, "ECDSA DER signature length %d out of range [%d,%d]",
				len(sig), cryptobackend.MinECDSADERSize, cryptobackend.MaxECDSADERSize)
		}
	default:
		return tlverr.Newf(tlverr.SEC_UNSUPPORT_SIGN_TYPE, "unsupported signature type %d", s.Type)
	}
	s.Size = copy(s.Value[:], sig)
	return nil
}

// validateKeyLocatorInvariant enforces spec.md §3: key-locator is required
// for ECDSA and HMAC, forbidden for DIGEST.
func (s *Signature) validateKeyLocatorInvariant() error {
	switch s.Type {
	case SigTypeDigestSHA256:
		if s.EnableKeyLocator {
			return tlverr.New(tlverr.INVALID_FORMAT, "DIGEST_SHA256 must not carry a key locator")
		}
	case SigTypeECDSASHA256, SigTypeHMACSHA256:
		if !s.EnableKeyLocator {
			return tlverr.New(tlverr.INVALID_FORMAT, "ECDSA_SHA256/HMAC_SHA256 require a key locator")
		}
	}
	return nil
}

// probeSignatureInfoInnerSize returns the byte size of TLV_SignatureInfo's
// value region (everything after its own T,L), without encoding anything.
// Grounded on original_source/ndn-lite/encode/signature.h's
// ndn_signature_info_probe_block_size.
func probeSignatureInfoInnerSize(s *Signature) uint64 {
	var inner uint64
	inner += uint64(varint.ProbeVarSize(TLVSignatureType)) + uint64(varint.ProbeVarSize(1)) + 1

	if s.EnableKeyLocator {
		keyNameSize := ndnname.ProbeBlockSize(s.KeyLocator)
		inner += uint64(varint.ProbeVarSize(TLVKeyLocator)) + uint64(varint.ProbeVarSize(keyNameSize)) + keyNameSize
	}
	if s.EnableValidityPeriod {
		validitySize := uint64(varint.ProbeVarSize(TLVNotBefore)) + uint64(varint.ProbeVarSize(15)) + 15
		validitySize += uint64(varint.ProbeVarSize(TLVNotAfter)) + uint64(varint.ProbeVarSize(15)) + 15
		inner += uint64(varint.ProbeVarSize(TLVValidityPeriod)) + uint64(varint.ProbeVarSize(validitySize)) + validitySize
	}
	if s.EnableNonce {
		inner += uint64(varint.ProbeVarSize(TLVNonce)) + uint64(varint.ProbeVarSize(4)) + 4
	}
	if s.EnableTimestamp {
		tsLen := uint64(varint.ProbeUintLength(s.Timestamp))
		inner += uint64(varint.ProbeVarSize(TLVSignedInterestTimestamp)) + uint64(varint.ProbeVarSize(tsLen)) + tsLen
	}
	return inner
}

// ProbeSignatureInfoBlockSize returns the full wire size of TLV_SignatureInfo.
func ProbeSignatureInfoBlockSize(s *Signature) uint64 {
	inner := probeSignatureInfoInnerSize(s)
	return uint64(varint.ProbeVarSize(TLVSignatureInfo)) + uint64(varint.ProbeVarSize(inner)) + inner
}

// ProbeSignatureValueBlockSize returns the full wire size of
// TLV_SignatureValue given the signature's current size.
func ProbeSignatureValueBlockSize(s *Signature) uint64 {
	return uint64(varint.ProbeVarSize(TLVSignatureValue)) + uint64(varint.ProbeVarSize(uint64(s.Size))) + uint64(s.Size)
}

// encodeSignatureInfo emits TLV_SignatureInfo in the strict field order from
// spec.md §4.4: type, optional key-locator, optional validity period,
// optional nonce, optional timestamp.
func encodeSignatureInfo(enc *tlv.Encoder, s *Signature) error {
	if err := s.validateKeyLocatorInvariant(); err != nil {
		return err
	}
	inner := probeSignatureInfoInnerSize(s)
	if err := enc.AppendType(TLVSignatureInfo); err != nil {
		return err
	}
	if err := enc.AppendLength(inner); err != nil {
		return err
	}
	if err := enc.AppendUintTLV(TLVSignatureType, uint64(s.Type)); err != nil {
		return err
	}
	if s.EnableKeyLocator {
		keyNameSize := ndnname.ProbeBlockSize(s.KeyLocator)
		if err := enc.AppendType(TLVKeyLocator); err != nil {
			return err
		}
		if err := enc.AppendLength(keyNameSize); err != nil {
			return err
		}
		if err := ndnname.TLVEncode(enc, s.KeyLocator); err != nil {
			return err
		}
	}
	if s.EnableValidityPeriod {
		validitySize := uint64(varint.ProbeVarSize(TLVNotBefore)) + uint64(varint.ProbeVarSize(15)) + 15 +
			uint64(varint.ProbeVarSize(TLVNotAfter)) + uint64(varint.ProbeVarSize(15)) + 15
		if err := enc.AppendType(TLVValidityPeriod); err != nil {
			return err
		}
		if err := enc.AppendLength(validitySize); err != nil {
			return err
		}
		if err := enc.AppendType(TLVNotBefore); err != nil {
			return err
		}
		if err := enc.AppendLength(15); err != nil {
			return err
		}
		if err := enc.AppendRaw(s.NotBefore[:]); err != nil {
			return err
		}
		if err := enc.AppendType(TLVNotAfter); err != nil {
			return err
		}
		if err := enc.AppendLength(15); err != nil {
			return err
		}
		if err := enc.AppendRaw(s.NotAfter[:]); err != nil {
			return err
		}
	}
	if s.EnableNonce {
		if err := enc.AppendType(TLVNonce); err != nil {
			return err
		}
		if err := enc.AppendLength(4); err != nil {
			return err
		}
		if err := enc.AppendRaw(s.Nonce[:]); err != nil {
			return err
		}
	}
	if s.EnableTimestamp {
		if err := enc.AppendUintTLV(TLVSignedInterestTimestamp, s.Timestamp); err != nil {
			return err
		}
	}
	return nil
}

// decodeSignatureInfo mirrors encodeSignatureInfo's order, ignoring unknown
// sub-TLVs up to the declared length and setting Enable* flags as fields
// are found.
func decodeSignatureInfo(dec *tlv.Decoder) (*Signature, error) {
	if err := dec.ExpectType(TLVSignatureInfo); err != nil {
		return nil, err
	}
	length, err := dec.GetLength()
	if err != nil {
		return nil, err
	}
	if length > uint64(dec.Remaining()) {
		return nil, tlverr.New(tlverr.BUFFER_UNDERFLOW, "signature-info length exceeds remaining buffer")
	}
	end := dec.Offset() + int(length)

	s := &Signature{}
	sigTypeVal, err := dec.GetUintTLV(TLVSignatureType)
	if err != nil {
		return nil, err
	}
	s.Type = SignatureType(sigTypeVal)

	for dec.Offset() < end {
		typ, err := dec.GetType()
		if err != nil {
			return nil, err
		}
		if err := dec.MoveBackward(varint.ProbeVarSize(typ)); err != nil {
			return nil, err
		}
		switch typ {
		case TLVKeyLocator:
			if err := dec.ExpectType(TLVKeyLocator); err != nil {
				return nil, err
			}
			if _, err := dec.GetLength(); err != nil {
				return nil, err
			}
			name, err := ndnname.TLVDecode(dec)
			if err != nil {
				return nil, err
			}
			s.KeyLocator = name
			s.EnableKeyLocator = true
		case TLVValidityPeriod:
			if err := dec.ExpectType(TLVValidityPeriod); err != nil {
				return nil, err
			}
			if _, err := dec.GetLength(); err != nil {
				return nil, err
			}
			if err := dec.ExpectType(TLVNotBefore); err != nil {
				return nil, err
			}
			if _, err := dec.GetLength(); err != nil {
				return nil, err
			}
			if err := dec.GetRaw(s.NotBefore[:], 15); err != nil {
				return nil, err
			}
			if err := dec.ExpectType(TLVNotAfter); err != nil {
				return nil, err
			}
			if _, err := dec.GetLength(); err != nil {
				return nil, err
			}
			if err := dec.GetRaw(s.NotAfter[:], 15); err != nil {
				return nil, err
			}
			s.EnableValidityPeriod = true
		case TLVNonce:
			if err := dec.ExpectType(TLVNonce); err != nil {
				return nil, err
			}
			if _, err := dec.GetLength(); err != nil {
				return nil, err
			}
			if err := dec.GetRaw(s.Nonce[:], 4); err != nil {
				return nil, err
			}
			s.EnableNonce = true
		case TLVSignedInterestTimestamp:
			ts, err := dec.GetUintTLV(TLVSignedInterestTimestamp)
			if err != nil {
				return nil, err
			}
			s.Timestamp = ts
			s.EnableTimestamp = true
		default:
			// Unknown sub-TLV: skip it wholesale.
			if _, err := dec.GetBlock(typ); err != nil {
				return nil, err
			}
		}
	}
	if dec.Offset() != end {
		return nil, tlverr.New(tlverr.INVALID_FORMAT, "signature-info sub-TLVs did not align with declared length")
	}
	return s, nil
}

// encodeSignatureValue emits TLV_SignatureValue holding s's raw signature
// bytes at its recorded size.
func encodeSignatureValue(enc *tlv.Encoder, s *Signature) error {
	if err := enc.AppendType(TLVSignatureValue); err != nil {
		return err
	}
	if err := enc.AppendLength(uint64(s.Size)); err != nil {
		return err
	}
	return enc.AppendRaw(s.SigBytes())
}

// decodeSignatureValue reads TLV_SignatureValue into s, overwriting its
// Value/Size fields.
func decodeSignatureValue(dec *tlv.Decoder, s *Signature) error {
	if err := dec.ExpectType(TLVSignatureValue); err != nil {
		return err
	}
	l, err := dec.GetLength()
	if err != nil {
		return err
	}
	if int(l) > SignatureBufferSize {
		return tlverr.Newf(tlverr.OVERSIZE, "signature value is %d bytes, buffer holds %d", l, SignatureBufferSize)
	}
	if err := dec.GetRaw(s.Value[:l], int(l)); err != nil {
		return err
	}
	s.Size = int(l)
	return nil
}
