package wallet

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"math/big"
)

// The XRP Ledger uses its own base58 dictionary, not Bitcoin's. The
// first character doubles as the famous address prefix: account
// payloads under version 0x00 always render with a leading 'r'.
const xrplAlphabet = "rpshnaf39wBUDNEGHJKLM4PQRST7VWXYZ2bcdeCg65jkm8oFqi1tuvAxyz"

var xrplDigit = func() map[byte]int {
	m := make(map[byte]int, len(xrplAlphabet))
	for i := 0; i < len(xrplAlphabet); i++ {
		m[xrplAlphabet[i]] = i
	}
	return m
}()

func base58Encode(input []byte) string {
	n := new(big.Int).SetBytes(input)
	radix := big.NewInt(58)
	mod := new(big.Int)

	var out []byte
	for n.Sign() > 0 {
		n.DivMod(n, radix, mod)
		out = append(out, xrplAlphabet[mod.Int64()])
	}
	// Leading zero bytes map to the zero digit.
	for _, b := range input {
		if b != 0 {
			break
		}
		out = append(out, xrplAlphabet[0])
	}

	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return string(out)
}

func base58Decode(s string) ([]byte, error) {
	n := new(big.Int)
	radix := big.NewInt(58)
	for i := 0; i < len(s); i++ {
		d, ok := xrplDigit[s[i]]
		if !ok {
			return nil, fmt.Errorf("invalid base58 character %q", s[i])
		}
		n.Mul(n, radix)
		n.Add(n, big.NewInt(int64(d)))
	}

	out := n.Bytes()
	for i := 0; i < len(s) && s[i] == xrplAlphabet[0]; i++ {
		out = append([]byte{0}, out...)
	}
	return out, nil
}

// checksum is the first four bytes of a double SHA-256.
func checksum(data []byte) []byte {
	first := sha256.Sum256(data)
	second := sha256.Sum256(first[:])
	return second[:4]
}

// encodeCheck renders version||payload||checksum in XRPL base58.
func encodeCheck(version byte, payload []byte) string {
	full := make([]byte, 0, 1+len(payload)+4)
	full = append(full, version)
	full = append(full, payload...)
	full = append(full, checksum(full)...)
	return base58Encode(full)
}

// decodeCheck reverses encodeCheck, verifying version and checksum.
func decodeCheck(version byte, s string) ([]byte, error) {
	full, err := base58Decode(s)
	if err != nil {
		return nil, err
	}
	if len(full) < 5 {
		return nil, fmt.Errorf("encoded value too short")
	}

	body, sum := full[:len(full)-4], full[len(full)-4:]
	if !bytes.Equal(sum, checksum(body)) {
		return nil, fmt.Errorf("checksum mismatch")
	}
	if body[0] != version {
		return nil, fmt.Errorf("unexpected version byte 0x%02x", body[0])
	}
	return body[1:], nil
}
