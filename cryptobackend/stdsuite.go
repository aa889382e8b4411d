package cryptobackend

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

// StdSuite is the default Suite backend. It claims no FIPS compliance and
// exists to give the core something to sign/verify against out of the box;
// production deployments may swap in a hardware-backed Suite implementing
// the same four interfaces.
//
// Grounded on crypto.DevStdCryptoProvider's role (a small stdlib/x-crypto
// backed default sitting behind the teacher's own CryptoProvider
// interface). The four primitives are explicitly out of scope per spec.md
// §1/§9; no repo in the corpus implements P-256 ECDSA, AES-CBC, or
// HMAC-SHA256 via a non-stdlib library, so crypto/ecdsa, crypto/aes, and
// crypto/hmac are the justified standard-library choice (see DESIGN.md).
type StdSuite struct{}

var _ Suite = StdSuite{}

func (StdSuite) SHA256Sign(msg []byte) ([32]byte, error) {
	return sha256.Sum256(msg), nil
}

func (StdSuite) SHA256Verify(msg []byte, sig []byte) (bool, error) {
	if len(sig) != 32 {
		return false, fmt.Errorf("cryptobackend: digest signature must be 32 bytes, got %d", len(sig))
	}
	want := sha256.Sum256(msg)
	return hmac.Equal(want[:], sig), nil
}

func (StdSuite) HMACSign(msg []byte, key []byte) ([32]byte, error) {
	mac := hmac.New(sha256.New, key)
	mac.Write(msg)
	var out [32]byte
	copy(out[:], mac.Sum(nil))
	return out, nil
}

func (StdSuite) HMACVerify(msg []byte, sig []byte, key []byte) (bool, error) {
	if len(sig) != 32 {
		return false, fmt.Errorf("cryptobackend: HMAC signature must be 32 bytes, got %d", len(sig))
	}
	want, err := StdSuite{}.HMACSign(msg, key)
	if err != nil {
		return false, err
	}
	return hmac.Equal(want[:], sig), nil
}

// DeriveHMACKey derives a per-key-locator HMAC-SHA256 signing key from a
// master secret, the way a constrained device provisions one signing key
// per peer without storing each raw key. info should uniquely identify the
// key locator (e.g. its TLV-encoded name).
func (StdSuite) DeriveHMACKey(masterSecret, salt, info []byte) ([]byte, error) {
	r := hkdf.New(sha256.New, masterSecret, salt, info)
	key := make([]byte, 32)
	if _, err := io.ReadFull(r, key); err != nil {
		return nil, fmt.Errorf("cryptobackend: hkdf expand: %w", err)
	}
	return key, nil
}

func (StdSuite) ECDSASign(msg []byte, privKey any) ([]byte, error) {
	priv, ok := privKey.(*ecdsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("cryptobackend: ECDSASign: want *ecdsa.PrivateKey, got %T", privKey)
	}
	digest := sha256.Sum256(msg)
	return ecdsa.SignASN1(rand.Reader, priv, digest[:])
}

func (StdSuite) ECDSAVerify(msg []byte, der []byte, pubKey any) (bool, error) {
	pub, ok := pubKey.(*ecdsa.PublicKey)
	if !ok {
		return false, fmt.Errorf("cryptobackend: ECDSAVerify: want *ecdsa.PublicKey, got %T", pubKey)
	}
	digest := sha256.Sum256(msg)
	return ecdsa.VerifyASN1(pub, digest[:], der), nil
}

// MaxECDSADERSize is the largest ASN.1 DER-encoded ECDSA-P256 signature this
// backend can produce: SEQUENCE header (up to 3 bytes) + two INTEGERs, each
// a 2-byte header plus up to 33 value bytes (32-byte coordinate plus a
// leading zero pad byte). Comfortably covered by NDN_SIGNATURE_BUFFER_SIZE's
// default of 128 (spec.md §6).
const MaxECDSADERSize = 3 + 2*(2+33)

// MinECDSADERSize is the smallest plausible ASN.1 DER-encoded ECDSA-P256
// signature: SEQUENCE header (2 bytes) + two single-byte INTEGERs with
// 2-byte headers each.
const MinECDSADERSize = 2 + 2*(2+1)

func (StdSuite) AESCBCEncrypt(plaintext []byte, iv []byte, key []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("cryptobackend: aes.NewCipher: %w", err)
	}
	if len(iv) != block.BlockSize() {
		return nil, fmt.Errorf("cryptobackend: IV must be %d bytes, got %d", block.BlockSize(), len(iv))
	}
	padded := pkcs7Pad(plaintext, block.BlockSize())
	out := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(out, padded)
	return out, nil
}

func (StdSuite) AESCBCDecrypt(ciphertext []byte, iv []byte, key []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("cryptobackend: aes.NewCipher: %w", err)
	}
	if len(ciphertext) == 0 || len(ciphertext)%block.BlockSize() != 0 {
		return nil, fmt.Errorf("cryptobackend: ciphertext length %d not a multiple of block size", len(ciphertext))
	}
	out := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(out, ciphertext)
	return pkcs7Unpad(out)
}

func pkcs7Pad(b []byte, blockSize int) []byte {
	pad := blockSize - len(b)%blockSize
	out := make([]byte, len(b)+pad)
	copy(out, b)
	for i := len(b); i < len(out); i++ {
		out[i] = byte(pad)
	}
	return out
}

func pkcs7Unpad(b []byte) ([]byte, error) {
	if len(b) == 0 {
		return nil, fmt.Errorf("cryptobackend: empty padded buffer")
	}
	pad := int(b[len(b)-1])
	if pad == 0 || pad > len(b) {
		return nil, fmt.Errorf("cryptobackend: invalid PKCS#7 padding")
	}
	for _, p := range b[len(b)-pad:] {
		if int(p) != pad {
			return nil, fmt.Errorf("cryptobackend: invalid PKCS#7 padding")
		}
	}
	return b[:len(b)-pad], nil
}

// P256 is a convenience re-export so callers constructing ecdsa keys for
// this suite don't need their own crypto/elliptic import.
var P256 = elliptic.P256
