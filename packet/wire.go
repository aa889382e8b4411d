// Package packet implements the Data packet and signature layer: encoding
// and decoding of name/metainfo/content/signature-info/signature-value,
// signing and verification across the four signature suites, and the
// encrypted-content envelope.
//
// Grounded throughout on consensus.SighashV1Digest's "build one
// deterministic byte range, then hash/sign it" shape
// (consensus/sighash.go), node/p2p/header_validation.go's decode/verify
// split, and original_source/ndn-lite/encode/data.c's three encode variants
// and shared decode pipeline.
package packet

// Wire-format type codes (spec.md §6).
const (
	TLVInterest       = 5
	TLVData           = 6
	TLVMetaInfo       = 20
	TLVContent        = 21
	TLVSignatureInfo  = 22
	TLVSignatureValue = 23
	TLVContentType    = 24
	TLVFreshnessPeriod = 25
	TLVFinalBlockID   = 26
	TLVSignatureType  = 27
	TLVKeyLocator     = 28

	TLVValidityPeriod = 253
	TLVNotBefore       = 254
	TLVNotAfter        = 255

	// Nonce and SignedInterestTimestamp are "implementation-defined but
	// fixed across encode/decode" per spec.md §6; these values are this
	// module's fixed choice.
	TLVNonce                   = 38
	TLVSignedInterestTimestamp = 40

	// Access-control envelope (spec.md §3, NDN Access Control spec).
	TLVACEncryptedContent = 130
	TLVACEncryptedPayload = 132
	TLVACAESIV            = 133
)

// SignatureType byte values (spec.md §6).
type SignatureType uint8

const (
	SigTypeDigestSHA256 SignatureType = 0
	SigTypeECDSASHA256  SignatureType = 3
	SigTypeHMACSHA256   SignatureType = 4
)

// Config knobs (spec.md §6).
const (
	ContentBufferSize   = 2048
	SignatureBufferSize = 128
	AESBlockSize        = 16
)
