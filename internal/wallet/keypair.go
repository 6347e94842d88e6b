package wallet

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/binary"
	"fmt"
	"math/big"

	"github.com/btcsuite/btcd/btcec/v2"
	"golang.org/x/crypto/ripemd160"
)

const (
	seedVersion    byte = 0x21 // 's' prefix
	accountVersion byte = 0x00 // 'r' prefix

	seedEntropyLen = 16
	accountIDLen   = 20
)

// Keypair is a derived ledger identity. The family seed is the only
// secret; everything else is recomputed from it on demand.
type Keypair struct {
	Address string
	Seed    string
}

// Generate creates a fresh family seed from the OS entropy source and
// derives its account address.
func Generate() (*Keypair, error) {
	entropy := make([]byte, seedEntropyLen)
	if _, err := rand.Read(entropy); err != nil {
		return nil, fmt.Errorf("read entropy: %w", err)
	}
	return fromEntropy(entropy)
}

// FromSeed rebuilds the keypair for an existing family seed. It
// returns ErrInvalidSeed for anything that does not decode to a
// 16-byte secp256k1 seed.
func FromSeed(seed string) (*Keypair, error) {
	entropy, err := DecodeSeed(seed)
	if err != nil {
		return nil, ErrInvalidSeed
	}
	kp, err := fromEntropy(entropy)
	if err != nil {
		return nil, ErrInvalidSeed
	}
	return kp, nil
}

func fromEntropy(entropy []byte) (*Keypair, error) {
	addr, err := deriveAddress(entropy)
	if err != nil {
		return nil, err
	}
	return &Keypair{
		Address: addr,
		Seed:    EncodeSeed(entropy),
	}, nil
}

// EncodeSeed renders 16 bytes of entropy as an sXXX family seed.
func EncodeSeed(entropy []byte) string {
	return encodeCheck(seedVersion, entropy)
}

// DecodeSeed parses an sXXX family seed back into raw entropy.
func DecodeSeed(seed string) ([]byte, error) {
	entropy, err := decodeCheck(seedVersion, seed)
	if err != nil {
		return nil, err
	}
	if len(entropy) != seedEntropyLen {
		return nil, fmt.Errorf("seed payload is %d bytes, want %d", len(entropy), seedEntropyLen)
	}
	return entropy, nil
}

// IsValidAddress reports whether addr is a well-formed classic
// account address.
func IsValidAddress(addr string) bool {
	payload, err := decodeCheck(accountVersion, addr)
	return err == nil && len(payload) == accountIDLen
}

// deriveAddress runs the ledger's secp256k1 account derivation: a root
// key is hashed out of the seed, then the account key is root plus an
// intermediate scalar bound to the root public key at family index 0.
func deriveAddress(entropy []byte) (string, error) {
	order := btcec.S256().N

	rootScalar, err := findScalar(order, entropy)
	if err != nil {
		return "", err
	}
	_, rootPub := btcec.PrivKeyFromBytes(scalarBytes(rootScalar))

	intermediate, err := findScalar(order, rootPub.SerializeCompressed(), be32(0))
	if err != nil {
		return "", err
	}

	accountScalar := new(big.Int).Add(rootScalar, intermediate)
	accountScalar.Mod(accountScalar, order)
	if accountScalar.Sign() == 0 {
		return "", fmt.Errorf("derived zero account key")
	}
	_, accountPub := btcec.PrivKeyFromBytes(scalarBytes(accountScalar))

	return encodeCheck(accountVersion, accountID(accountPub.SerializeCompressed())), nil
}

// findScalar hashes prefix||counter with SHA-512 (truncated to 256
// bits) until the result is a valid curve scalar. The first candidate
// is accepted in practice; the loop exists for completeness.
func findScalar(order *big.Int, prefix ...[]byte) (*big.Int, error) {
	for i := uint32(0); i < 1<<16; i++ {
		h := sha512.New()
		for _, p := range prefix {
			h.Write(p)
		}
		h.Write(be32(i))
		candidate := new(big.Int).SetBytes(h.Sum(nil)[:32])
		if candidate.Sign() > 0 && candidate.Cmp(order) < 0 {
			return candidate, nil
		}
	}
	return nil, fmt.Errorf("no valid scalar found")
}

// accountID is RIPEMD-160 over SHA-256 of the compressed public key.
func accountID(pubKey []byte) []byte {
	sha := sha256.Sum256(pubKey)
	ripe := ripemd160.New()
	ripe.Write(sha[:])
	return ripe.Sum(nil)
}

func scalarBytes(n *big.Int) []byte {
	b := make([]byte, 32)
	n.FillBytes(b)
	return b
}

func be32(v uint32) []byte {
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, v)
	return b
}
