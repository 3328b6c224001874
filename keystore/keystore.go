// Package keystore persists mklhs key material as JSON files. The secret
// scalar is sealed with AES-256-GCM under a key derived from a passphrase
// with HKDF-SHA256 and a fresh random salt; public keys are stored in the
// clear.
package keystore

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"io"
	"os"

	bls "github.com/cloudflare/circl/ecc/bls12381"
	"github.com/etclab/mklhs"
	"golang.org/x/crypto/hkdf"
)

const (
	KeySize   = 32
	SaltSize  = 16
	NonceSize = 12
)

type keyFile struct {
	PK   mklhs.PublicKeySerialized `json:"pk"`
	Salt []byte                    `json:"salt"`
	SK   []byte                    `json:"sk"`
}

func deriveKey(passphrase, salt []byte) ([]byte, error) {
	kdf := hkdf.New(sha256.New, passphrase, salt, nil)

	key := make([]byte, KeySize)
	_, err := io.ReadFull(kdf, key)
	if err != nil {
		return nil, fmt.Errorf("io.ReadFull failed: %v", err)
	}

	return key, nil
}

func newAESGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("aes.NewCipher failed: %v", err)
	}

	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("cipher.NewGCM failed: %v", err)
	}

	return aesgcm, nil
}

// SaveKeyPair writes the key pair to path, sealing the secret scalar under
// passphrase. The salt is fresh per write, so the derived AES key is never
// reused across seals.
func SaveKeyPair(path string, pk *mklhs.PublicKey, sk *mklhs.PrivateKey, passphrase []byte) error {
	skBytes, err := sk.X.MarshalBinary()
	if err != nil {
		return err
	}

	salt := make([]byte, SaltSize)
	if _, err := rand.Read(salt); err != nil {
		return fmt.Errorf("rand.Read failed: %v", err)
	}

	key, err := deriveKey(passphrase, salt)
	if err != nil {
		return err
	}

	aesgcm, err := newAESGCM(key)
	if err != nil {
		return err
	}
	nonce := make([]byte, NonceSize) // zero nonce; key is fresh per seal
	sealed := aesgcm.Seal(nil, nonce, skBytes, nil)

	kf := keyFile{Salt: salt, SK: sealed}
	kf.PK.Serialize(pk)

	data, err := json.Marshal(kf)
	if err != nil {
		return fmt.Errorf("json.Marshal failed: %v", err)
	}

	return os.WriteFile(path, data, 0o600)
}

// LoadKeyPair reads a key pair written by SaveKeyPair. A wrong passphrase
// fails GCM authentication and is reported as an error.
func LoadKeyPair(path string, passphrase []byte) (*mklhs.PublicKey, *mklhs.PrivateKey, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}

	kf := new(keyFile)
	if err := json.Unmarshal(data, kf); err != nil {
		return nil, nil, fmt.Errorf("failed to decode key file: %v", err)
	}

	pk, err := kf.PK.DeSerialize()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to deserialize public key: %v", err)
	}

	key, err := deriveKey(passphrase, kf.Salt)
	if err != nil {
		return nil, nil, err
	}

	aesgcm, err := newAESGCM(key)
	if err != nil {
		return nil, nil, err
	}
	nonce := make([]byte, NonceSize)
	skBytes, err := aesgcm.Open(nil, nonce, kf.SK, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to unseal secret key: %v", err)
	}

	x := new(bls.Scalar)
	if err := x.UnmarshalBinary(skBytes); err != nil {
		return nil, nil, fmt.Errorf("failed to deserialize secret key: %v", err)
	}

	return pk, &mklhs.PrivateKey{ID: pk.ID, X: x}, nil
}

// SavePublicKey writes the public key to path as clear JSON.
func SavePublicKey(path string, pk *mklhs.PublicKey) error {
	pks := new(mklhs.PublicKeySerialized)
	pks.Serialize(pk)

	data, err := json.Marshal(pks)
	if err != nil {
		return fmt.Errorf("json.Marshal failed: %v", err)
	}

	return os.WriteFile(path, data, 0o644)
}

// LoadPublicKey reads a public key written by SavePublicKey.
func LoadPublicKey(path string) (*mklhs.PublicKey, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return mklhs.ParsePublicKey(data)
}
