// Package keystore persists HMAC and ECDSA signing material under a
// key-locator name, backed by a bbolt database.
//
// Grounded on node/store/db.go's open-once-at-startup/CreateBucketIfNotExists
// pattern, generalized from that store's block/UTXO buckets to two signing
// key buckets.
package keystore

import (
	"crypto/ecdsa"
	"crypto/x509"
	"fmt"
	"io"
	"time"

	bolt "go.etcd.io/bbolt"

	"ndnlite.dev/lite/cryptobackend"
	"ndnlite.dev/lite/ndnname"
)

var (
	bucketHMAC  = []byte("hmac_keys_by_locator")
	bucketECDSA = []byte("ecdsa_keys_by_locator")
)

// Store is a bbolt-backed key-locator lookup table.
type Store struct {
	db *bolt.DB
}

// Open opens (creating if necessary) a bbolt database at path and ensures
// both key buckets exist.
func Open(path string) (*Store, error) {
	bdb, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("keystore: open bbolt: %w", err)
	}
	if err := bdb.Update(func(tx *bolt.Tx) error {
		for _, b := range [][]byte{bucketHMAC, bucketECDSA} {
			if _, err := tx.CreateBucketIfNotExists(b); err != nil {
				return fmt.Errorf("create bucket %s: %w", string(b), err)
			}
		}
		return nil
	}); err != nil {
		_ = bdb.Close()
		return nil, err
	}
	return &Store{db: bdb}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func locatorKey(locator ndnname.Name) []byte {
	return []byte(locator.String())
}

// PutHMACKey stores key under locator's URI form.
func (s *Store) PutHMACKey(locator ndnname.Name, key []byte) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketHMAC).Put(locatorKey(locator), key)
	})
}

// GetHMACKey looks up the key stored for locator. Returns false if absent.
func (s *Store) GetHMACKey(locator ndnname.Name) (key []byte, ok bool, err error) {
	err = s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucketHMAC).Get(locatorKey(locator))
		if v == nil {
			return nil
		}
		ok = true
		key = append([]byte(nil), v...)
		return nil
	})
	return key, ok, err
}

// PutECDSAPrivateKey stores priv under locator's URI form, SEC1/ASN.1 DER
// encoded.
func (s *Store) PutECDSAPrivateKey(locator ndnname.Name, priv *ecdsa.PrivateKey) error {
	der, err := x509.MarshalECPrivateKey(priv)
	if err != nil {
		return fmt.Errorf("keystore: marshal ECDSA key: %w", err)
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketECDSA).Put(locatorKey(locator), der)
	})
}

// GetECDSAPrivateKey looks up and parses the private key stored for locator.
// Returns false if absent.
func (s *Store) GetECDSAPrivateKey(locator ndnname.Name) (priv *ecdsa.PrivateKey, ok bool, err error) {
	var der []byte
	err = s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucketECDSA).Get(locatorKey(locator))
		if v == nil {
			return nil
		}
		ok = true
		der = append([]byte(nil), v...)
		return nil
	})
	if err != nil || !ok {
		return nil, ok, err
	}
	priv, err = x509.ParseECPrivateKey(der)
	if err != nil {
		return nil, false, fmt.Errorf("keystore: parse ECDSA key: %w", err)
	}
	return priv, true, nil
}

// GenerateECDSAKey creates and stores a fresh P-256 key pair under locator,
// returning the private key.
func (s *Store) GenerateECDSAKey(locator ndnname.Name, rand io.Reader) (*ecdsa.PrivateKey, error) {
	priv, err := ecdsa.GenerateKey(cryptobackend.P256(), rand)
	if err != nil {
		return nil, fmt.Errorf("keystore: generate ECDSA key: %w", err)
	}
	if err := s.PutECDSAPrivateKey(locator, priv); err != nil {
		return nil, err
	}
	return priv, nil
}
