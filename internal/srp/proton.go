// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package srp

import (
	"bytes"
	"crypto/sha512"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"io"
	"math/big"
	"strings"

	"github.com/ProtonMail/go-crypto/openpgp/clearsign"

	"github.com/MKhiriev/go-vault-access/internal/crypto"
)

// Version selects how the password is hashed before it becomes the SRP
// private value x.
type Version int

const (
	// Version0 is only recognised; no current account uses it and hashing
	// with it fails as unsupported.
	Version0 Version = iota
	Version1
	Version2
	Version3
	Version4
)

const (
	modulusBits  = 2048
	modulusBytes = modulusBits / 8
	bcryptCost   = 10

	// maxEphemeralDraws bounds the rejection sampling of the client secret.
	maxEphemeralDraws = 16
)

var protonGenerator = big.NewInt(2)

// Proofs is the result of a Proton SRP round.
type Proofs struct {
	ClientEphemeral     []byte
	ClientProof         []byte
	ExpectedServerProof []byte
}

// VerifyServerProof reports whether the server proved knowledge of the
// same shared secret.
func (p *Proofs) VerifyServerProof(serverProof []byte) bool {
	return crypto.Equal(p.ExpectedServerProof, serverProof)
}

// GenerateProofs computes the client ephemeral and proofs. All byte slices
// are little-endian as they are on the wire.
func GenerateProofs(
	version Version,
	password, username string,
	salt, serverEphemeral, modulus []byte,
	random io.Reader,
) (*Proofs, error) {
	if len(modulus) != modulusBytes {
		return nil, fmt.Errorf("%w: modulus is %d bits", ErrInvalidModulus, len(modulus)*8)
	}

	hashed, err := HashPassword(version, password, username, salt, modulus)
	if err != nil {
		return nil, err
	}

	n := fromLittleEndian(modulus)
	b := fromLittleEndian(serverEphemeral)
	if new(big.Int).Mod(b, n).Sign() == 0 {
		return nil, fmt.Errorf("%w: server ephemeral is zero mod N", ErrProtocol)
	}

	nMinusOne := new(big.Int).Sub(n, big.NewInt(1))
	if b.Cmp(big.NewInt(1)) <= 0 || b.Cmp(nMinusOne) >= 0 {
		return nil, fmt.Errorf("%w: server ephemeral out of range", ErrProtocol)
	}

	k := fromLittleEndian(expandHash(toLittleEndian(protonGenerator, modulusBytes), modulus))
	k.Mod(k, n)

	x := fromLittleEndian(hashed)

	var (
		a, aPub, u *big.Int
		aBytes     []byte
	)
	for draw := 0; ; draw++ {
		if draw == maxEphemeralDraws {
			return nil, fmt.Errorf("%w: could not draw a usable client secret", ErrProtocol)
		}

		secret, err := crypto.ReadRandom(random, modulusBytes)
		if err != nil {
			return nil, err
		}

		a = fromLittleEndian(secret)
		a.Mod(a, nMinusOne)
		if a.Cmp(big.NewInt(modulusBits*2)) <= 0 {
			continue
		}

		aPub = new(big.Int).Exp(protonGenerator, a, n)
		aBytes = toLittleEndian(aPub, modulusBytes)

		u = fromLittleEndian(expandHash(aBytes, toLittleEndian(b, modulusBytes)))
		if u.Sign() != 0 {
			break
		}
	}

	// S = (B - k*g^x)^(a + u*x) mod N
	base := new(big.Int).Exp(protonGenerator, x, n)
	base.Mul(base, k)
	base.Sub(b, base)
	base.Mod(base, n)

	exponent := new(big.Int).Mul(u, x)
	exponent.Add(exponent, a)
	exponent.Mod(exponent, nMinusOne)

	shared := toLittleEndian(new(big.Int).Exp(base, exponent, n), modulusBytes)
	bBytes := toLittleEndian(b, modulusBytes)

	clientProof := expandHash(aBytes, bBytes, shared)
	serverProof := expandHash(aBytes, clientProof, shared)

	return &Proofs{
		ClientEphemeral:     aBytes,
		ClientProof:         clientProof,
		ExpectedServerProof: serverProof,
	}, nil
}

// HashPassword returns the 256 byte hashed password for version.
func HashPassword(version Version, password, username string, salt, modulus []byte) ([]byte, error) {
	switch version {
	case Version3, Version4:
		return hashPasswordWithSalt(password, salt, modulus)
	case Version2:
		return hashPasswordWithUsername(password, cleanUsername(username), modulus)
	case Version1:
		return hashPasswordWithUsername(password, username, modulus)
	default:
		return nil, fmt.Errorf("%w %d", ErrUnsupportedVersion, version)
	}
}

func hashPasswordWithSalt(password string, salt, modulus []byte) ([]byte, error) {
	full := append(bytes.Clone(salt), "proton"...)
	if len(full) < 16 {
		return nil, fmt.Errorf("%w: salt too short", ErrProtocol)
	}

	crypted, err := crypto.Bcrypt([]byte(password), full[:16], bcryptCost)
	if err != nil {
		return nil, err
	}

	return expandHash([]byte(crypted), modulus), nil
}

// Versions 1 and 2 use the hex MD5 of the username, read as bcrypt base64,
// as the salt.
func hashPasswordWithUsername(password, username string, modulus []byte) ([]byte, error) {
	digest := hex.EncodeToString(crypto.MD5([]byte(strings.ToLower(username))))

	salt, err := crypto.BcryptEncoding.DecodeString(digest[:22])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProtocol, err)
	}

	crypted, err := crypto.Bcrypt([]byte(password), salt[:16], bcryptCost)
	if err != nil {
		return nil, err
	}

	return expandHash([]byte(crypted), modulus), nil
}

func cleanUsername(username string) string {
	return strings.NewReplacer("-", "", ".", "", "_", "").Replace(strings.ToLower(username))
}

// BcryptPassphrase derives a Proton key passphrase from the login password
// and a key salt. An empty salt means the password is used as is.
func BcryptPassphrase(password string, keySalt []byte) (string, error) {
	if len(keySalt) == 0 {
		return password, nil
	}

	crypted, err := crypto.Bcrypt([]byte(password), keySalt, bcryptCost)
	if err != nil {
		return "", err
	}

	// drop "$2y$10$" and the 22 salt characters
	return crypted[29:], nil
}

// ParseModulus extracts the modulus from the clear-signed message the
// server sends.
func ParseModulus(signed string) ([]byte, error) {
	block, _ := clearsign.Decode([]byte(signed))
	if block == nil {
		return nil, fmt.Errorf("%w: not a clear-signed message", ErrInvalidModulus)
	}

	modulus, err := base64.StdEncoding.DecodeString(strings.TrimSpace(string(block.Plaintext)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidModulus, err)
	}

	if len(modulus) != modulusBytes {
		return nil, fmt.Errorf("%w: modulus is %d bits", ErrInvalidModulus, len(modulus)*8)
	}

	return modulus, nil
}

func expandHash(parts ...[]byte) []byte {
	data := bytes.Join(parts, nil)

	out := make([]byte, 0, 4*sha512.Size)
	for i := byte(0); i < 4; i++ {
		sum := sha512.Sum512(append(bytes.Clone(data), i))
		out = append(out, sum[:]...)
	}

	return out
}

func fromLittleEndian(b []byte) *big.Int {
	be := bytes.Clone(b)
	reverse(be)
	return new(big.Int).SetBytes(be)
}

func toLittleEndian(n *big.Int, size int) []byte {
	out := n.FillBytes(make([]byte, size))
	reverse(out)
	return out
}

func reverse(b []byte) {
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
}
