package packet_test

import (
	"crypto/ecdsa"
	"crypto/rand"
	"testing"

	"ndnlite.dev/lite/cryptobackend"
	"ndnlite.dev/lite/ndnname"
	"ndnlite.dev/lite/packet"
	"ndnlite.dev/lite/tlv"
	"ndnlite.dev/lite/tlverr"
)

func mustName(t *testing.T, s string) ndnname.Name {
	t.Helper()
	n, err := ndnname.FromString(s)
	if err != nil {
		t.Fatalf("FromString(%q): %v", s, err)
	}
	return n
}

// TestDigestRoundTripAndBitFlip checks spec.md scenario S3.
func TestDigestRoundTripAndBitFlip(t *testing.T) {
	suite := cryptobackend.StdSuite{}
	d := packet.NewData(mustName(t, "/a"))
	if err := d.SetContent([]byte{0x01, 0x02, 0x03}); err != nil {
		t.Fatalf("SetContent: %v", err)
	}

	buf := make([]byte, 512)
	wire, err := packet.EncodeDigest(buf, d, suite)
	if err != nil {
		t.Fatalf("EncodeDigest: %v", err)
	}

	got, s, e, err := packet.Decode(wire)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if err := packet.VerifyDigest(wire, got, s, e, suite); err != nil {
		t.Fatalf("VerifyDigest: %v", err)
	}
	if ndnname.Compare(got.Name, d.Name) != 0 {
		t.Errorf("name mismatch after round trip")
	}

	// Flip content byte 1 in a fresh copy; signature no longer matches.
	tampered := append([]byte(nil), wire...)
	for i, b := range tampered {
		if b == 0x02 {
			tampered[i] = 0x04
			break
		}
	}
	got2, s2, e2, err := packet.Decode(tampered)
	if err != nil {
		t.Fatalf("Decode(tampered): %v", err)
	}
	if err := packet.VerifyDigest(tampered, got2, s2, e2, suite); !tlverr.Is(err, tlverr.SEC_FAIL_VERIFY) {
		t.Fatalf("expected SEC_FAIL_VERIFY after bit flip, got %v", err)
	}
}

// TestAbsentContent checks spec.md scenario S4.
func TestAbsentContent(t *testing.T) {
	suite := cryptobackend.StdSuite{}
	d := packet.NewData(mustName(t, "/a"))

	buf := make([]byte, 512)
	wire, err := packet.EncodeDigest(buf, d, suite)
	if err != nil {
		t.Fatalf("EncodeDigest: %v", err)
	}

	got, s, e, err := packet.Decode(wire)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got.ContentSize != 0 {
		t.Errorf("expected zero-length content, got %d bytes", got.ContentSize)
	}
	if err := packet.VerifyDigest(wire, got, s, e, suite); err != nil {
		t.Fatalf("VerifyDigest: %v", err)
	}
}

// TestECDSALengthCompaction checks spec.md scenario S5 / invariant 7: the
// outer TLV length equals total bytes minus (type size + length-field
// size), and decode+verify with the matching key succeeds.
func TestECDSALengthCompaction(t *testing.T) {
	priv, err := ecdsa.GenerateKey(cryptobackend.P256(), rand.Reader)
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	suite := cryptobackend.StdSuite{}

	d := packet.NewData(mustName(t, "/x/y"))
	if err := d.SetContent([]byte{0xAA, 0xBB, 0xCC, 0xDD}); err != nil {
		t.Fatalf("SetContent: %v", err)
	}
	d.Signature.EnableKeyLocator = true
	d.Signature.KeyLocator = mustName(t, "/key/locator")

	buf := make([]byte, 512)
	wire, err := packet.EncodeECDSA(buf, d, suite, priv)
	if err != nil {
		t.Fatalf("EncodeECDSA: %v", err)
	}

	got, s, e, err := packet.Decode(wire)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if err := packet.VerifyECDSA(wire, got, s, e, suite, &priv.PublicKey); err != nil {
		t.Fatalf("VerifyECDSA: %v", err)
	}

	// Invariant 7: the outer TLV length field equals exactly the number
	// of bytes remaining to the packet tail, no trailing garbage.
	dec := tlv.NewDecoder(wire)
	if err := dec.ExpectType(packet.TLVData); err != nil {
		t.Fatalf("ExpectType: %v", err)
	}
	outerLen, err := dec.GetLength()
	if err != nil {
		t.Fatalf("GetLength: %v", err)
	}
	if dec.Offset()+int(outerLen) != len(wire) {
		t.Errorf("outer length %d + header %d != total packet length %d", outerLen, dec.Offset(), len(wire))
	}

	wrongPriv, err := ecdsa.GenerateKey(cryptobackend.P256(), rand.Reader)
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	if err := packet.VerifyECDSA(wire, got, s, e, suite, &wrongPriv.PublicKey); !tlverr.Is(err, tlverr.SEC_FAIL_VERIFY) {
		t.Fatalf("expected SEC_FAIL_VERIFY with the wrong public key, got %v", err)
	}
}

// TestOversizeContentRejectedAtSetContent checks spec.md scenario S6.
func TestOversizeContentRejectedAtSetContent(t *testing.T) {
	d := packet.NewData(mustName(t, "/a"))
	oversized := make([]byte, packet.ContentBufferSize+1)
	if err := d.SetContent(oversized); !tlverr.Is(err, tlverr.OVERSIZE) {
		t.Fatalf("expected OVERSIZE, got %v", err)
	}
	if d.ContentSize != 0 {
		t.Errorf("no bytes should have been written on OVERSIZE, got ContentSize=%d", d.ContentSize)
	}
}

func TestHMACRoundTrip(t *testing.T) {
	suite := cryptobackend.StdSuite{}
	key := []byte("0123456789abcdef0123456789abcdef")

	d := packet.NewData(mustName(t, "/h"))
	if err := d.SetContent([]byte("hello")); err != nil {
		t.Fatalf("SetContent: %v", err)
	}
	d.Signature.EnableKeyLocator = true
	d.Signature.KeyLocator = mustName(t, "/key/hmac")

	buf := make([]byte, 512)
	wire, err := packet.EncodeHMAC(buf, d, suite, key)
	if err != nil {
		t.Fatalf("EncodeHMAC: %v", err)
	}

	got, s, e, err := packet.Decode(wire)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if err := packet.VerifyHMAC(wire, got, s, e, suite, key); err != nil {
		t.Fatalf("VerifyHMAC: %v", err)
	}
	if err := packet.VerifyHMAC(wire, got, s, e, suite, []byte("wrong key wrong key wrong key!!")); !tlverr.Is(err, tlverr.SEC_FAIL_VERIFY) {
		t.Fatalf("expected SEC_FAIL_VERIFY with the wrong key, got %v", err)
	}
}
