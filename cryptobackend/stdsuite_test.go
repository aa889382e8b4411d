package cryptobackend_test

import (
	"bytes"
	"crypto/ecdsa"
	"crypto/rand"
	"testing"

	"ndnlite.dev/lite/cryptobackend"
)

func TestSHA256SignVerify(t *testing.T) {
	suite := cryptobackend.StdSuite{}
	msg := []byte("hello world")
	digest, err := suite.SHA256Sign(msg)
	if err != nil {
		t.Fatalf("SHA256Sign: %v", err)
	}
	ok, err := suite.SHA256Verify(msg, digest[:])
	if err != nil {
		t.Fatalf("SHA256Verify: %v", err)
	}
	if !ok {
		t.Fatalf("expected digest to verify")
	}
	ok, err = suite.SHA256Verify([]byte("tampered"), digest[:])
	if err != nil {
		t.Fatalf("SHA256Verify: %v", err)
	}
	if ok {
		t.Fatalf("expected digest mismatch for tampered message")
	}
}

func TestHMACSignVerify(t *testing.T) {
	suite := cryptobackend.StdSuite{}
	key := []byte("a shared secret key material")
	msg := []byte("authenticate me")

	tag, err := suite.HMACSign(msg, key)
	if err != nil {
		t.Fatalf("HMACSign: %v", err)
	}
	ok, err := suite.HMACVerify(msg, tag[:], key)
	if err != nil {
		t.Fatalf("HMACVerify: %v", err)
	}
	if !ok {
		t.Fatalf("expected tag to verify")
	}
	ok, err = suite.HMACVerify(msg, tag[:], []byte("wrong key"))
	if err != nil {
		t.Fatalf("HMACVerify: %v", err)
	}
	if ok {
		t.Fatalf("expected verification failure with the wrong key")
	}
}

func TestDeriveHMACKeyDeterministicPerInfo(t *testing.T) {
	suite := cryptobackend.StdSuite{}
	master := []byte("master secret, long enough to be a real key")

	k1, err := suite.DeriveHMACKey(master, nil, []byte("/key/locator/a"))
	if err != nil {
		t.Fatalf("DeriveHMACKey: %v", err)
	}
	k2, err := suite.DeriveHMACKey(master, nil, []byte("/key/locator/a"))
	if err != nil {
		t.Fatalf("DeriveHMACKey: %v", err)
	}
	if !bytes.Equal(k1, k2) {
		t.Errorf("expected deterministic derivation for the same info")
	}

	k3, err := suite.DeriveHMACKey(master, nil, []byte("/key/locator/b"))
	if err != nil {
		t.Fatalf("DeriveHMACKey: %v", err)
	}
	if bytes.Equal(k1, k3) {
		t.Errorf("expected distinct keys for distinct info")
	}
}

func TestECDSASignVerify(t *testing.T) {
	suite := cryptobackend.StdSuite{}
	priv, err := ecdsa.GenerateKey(cryptobackend.P256(), rand.Reader)
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	msg := []byte("sign this")

	der, err := suite.ECDSASign(msg, priv)
	if err != nil {
		t.Fatalf("ECDSASign: %v", err)
	}
	if len(der) < cryptobackend.MinECDSADERSize || len(der) > cryptobackend.MaxECDSADERSize {
		t.Errorf("signature length %d outside [%d,%d]", len(der), cryptobackend.MinECDSADERSize, cryptobackend.MaxECDSADERSize)
	}
	ok, err := suite.ECDSAVerify(msg, der, &priv.PublicKey)
	if err != nil {
		t.Fatalf("ECDSAVerify: %v", err)
	}
	if !ok {
		t.Fatalf("expected signature to verify")
	}

	other, err := ecdsa.GenerateKey(cryptobackend.P256(), rand.Reader)
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	ok, err = suite.ECDSAVerify(msg, der, &other.PublicKey)
	if err != nil {
		t.Fatalf("ECDSAVerify: %v", err)
	}
	if ok {
		t.Fatalf("expected verification failure with the wrong public key")
	}
}

func TestAESCBCEncryptDecryptRoundTrip(t *testing.T) {
	suite := cryptobackend.StdSuite{}
	key := []byte("0123456789abcdef0123456789abcdef")
	iv := bytes.Repeat([]byte{0x07}, 16)

	for _, plaintext := range [][]byte{
		[]byte(""),
		[]byte("short"),
		bytes.Repeat([]byte{0x5A}, 16),
		bytes.Repeat([]byte{0x5A}, 33),
	} {
		ciphertext, err := suite.AESCBCEncrypt(plaintext, iv, key)
		if err != nil {
			t.Fatalf("AESCBCEncrypt(%d bytes): %v", len(plaintext), err)
		}
		if len(ciphertext)%16 != 0 {
			t.Errorf("ciphertext length %d not block-aligned", len(ciphertext))
		}
		got, err := suite.AESCBCDecrypt(ciphertext, iv, key)
		if err != nil {
			t.Fatalf("AESCBCDecrypt(%d bytes): %v", len(plaintext), err)
		}
		if !bytes.Equal(got, plaintext) {
			t.Errorf("round trip mismatch for %d-byte plaintext: got %q", len(plaintext), got)
		}
	}
}
