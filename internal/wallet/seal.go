package wallet

import (
	"crypto/rand"
	"crypto/sha256"
	"fmt"

	"golang.org/x/crypto/nacl/secretbox"
)

const nonceLen = 24

// Sealer encrypts family seeds at rest with NaCl secretbox. The
// symmetric key is derived from the configured seal key, so rotating
// it invalidates every stored seed.
type Sealer struct {
	key [32]byte
}

func NewSealer(sealKey string) *Sealer {
	return &Sealer{key: sha256.Sum256([]byte(sealKey))}
}

// Seal encrypts a seed and prepends the random nonce to the box.
func (s *Sealer) Seal(seed string) ([]byte, error) {
	var nonce [nonceLen]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return nil, fmt.Errorf("read nonce: %w", err)
	}
	return secretbox.Seal(nonce[:], []byte(seed), &nonce, &s.key), nil
}

// Open decrypts a sealed seed produced by Seal.
func (s *Sealer) Open(sealed []byte) (string, error) {
	if len(sealed) < nonceLen+secretbox.Overhead {
		return "", ErrSealOpen
	}
	var nonce [nonceLen]byte
	copy(nonce[:], sealed[:nonceLen])

	seed, ok := secretbox.Open(nil, sealed[nonceLen:], &nonce, &s.key)
	if !ok {
		return "", ErrSealOpen
	}
	return string(seed), nil
}
