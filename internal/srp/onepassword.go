// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package srp

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"math/big"

	"github.com/MKhiriev/go-vault-access/internal/crypto"
)

// Group is an SRP group: a safe prime N and generator g.
type Group struct {
	N *big.Int
	G *big.Int
}

// RFC5054Group4096 is the 4096-bit group from RFC 5054 appendix A.
var RFC5054Group4096 = Group{
	N: mustHex("" +
		"FFFFFFFFFFFFFFFFC90FDAA22168C234C4C6628B80DC1CD129024E088A67CC74" +
		"020BBEA63B139B22514A08798E3404DDEF9519B3CD3A431B302B0A6DF25F1437" +
		"4FE1356D6D51C245E485B576625E7EC6F44C42E9A637ED6B0BFF5CB6F406B7ED" +
		"EE386BFB5A899FA5AE9F24117C4B1FE649286651ECE45B3DC2007CB8A163BF05" +
		"98DA48361C55D39A69163FA8FD24CF5F83655D23DCA3AD961C62F356208552BB" +
		"9ED529077096966D670C354E4ABC9804F1746C08CA18217C32905E462E36CE3B" +
		"E39E772C180E86039B2783A2EC07A28FB5C55DF06F4C52C9DE2BCBF695581718" +
		"3995497CEA956AE515D2261898FA051015728E5A8AAAC42DAD33170D04507A33" +
		"A85521ABDF1CBA64ECFB850458DBEF0A8AEA71575D060C7DB3970F85A6E1E4C7" +
		"ABF5AE8CDB0933D71E8C94E04A25619DCEE3D2261AD2EE6BF12FFA06D98A0864" +
		"D87602733EC86A64521F2B18177B200CBBE117577A615D6C770988C0BAD946E2" +
		"08E24FA074E5AB3143DB5BFCE0FD108E4B82D120A92108011A723C12A787E6D7" +
		"88719A10BDBA5B2699C327186AF4E23C1A946834B6150BDA2583E9CA2AD44CE8" +
		"DBBBC2DB04DE8EF92E8EFC141FBECAA6287C59474E6BC05D99B2964FA090C3A2" +
		"233BA186515BE7ED1F612970CEE2D7AFB81BDD762170481CD0069127D5B05AA9" +
		"93B4EA988D8FDDC186FFB7DC90A6C08F4DF435C934063199FFFFFFFFFFFFFFFF"),
	G: big.NewInt(5),
}

const secretBytes = 32

// Exchange is one SRP-6a client exchange. Values are exchanged as
// lower-case hex without leading zeros.
type Exchange struct {
	group Group
	a     *big.Int
	aPub  *big.Int
}

// NewExchange draws the client secret from random and computes A.
func NewExchange(group Group, random io.Reader) (*Exchange, error) {
	secret, err := crypto.ReadRandom(random, secretBytes)
	if err != nil {
		return nil, err
	}

	a := new(big.Int).SetBytes(secret)
	if a.Sign() == 0 {
		return nil, fmt.Errorf("%w: zero client secret", ErrProtocol)
	}

	return &Exchange{
		group: group,
		a:     a,
		aPub:  new(big.Int).Exp(group.G, a, group.N),
	}, nil
}

// PublicHex is the client ephemeral A.
func (e *Exchange) PublicHex() string {
	return e.aPub.Text(16)
}

// SessionKey validates the server ephemeral B and derives the 32 byte
// session key SHA256(hex(S)). x is the password derived private value.
func (e *Exchange) SessionKey(serverHex string, x []byte) ([]byte, error) {
	b, ok := new(big.Int).SetString(serverHex, 16)
	if !ok {
		return nil, fmt.Errorf("%w: server ephemeral is not hex", ErrProtocol)
	}

	n, g := e.group.N, e.group.G
	if new(big.Int).Mod(b, n).Sign() == 0 {
		return nil, fmt.Errorf("%w: server ephemeral is zero mod N", ErrProtocol)
	}

	k := hashHex(n, g)
	u := hashHex(e.aPub, b)
	if u.Sign() == 0 {
		return nil, fmt.Errorf("%w: scrambling parameter is zero", ErrProtocol)
	}

	xi := new(big.Int).SetBytes(x)

	// S = (B - k*g^x)^(a + u*x) mod N
	base := new(big.Int).Exp(g, xi, n)
	base.Mul(base, k)
	base.Sub(b, base)
	base.Mod(base, n)

	exponent := new(big.Int).Mul(u, xi)
	exponent.Add(exponent, e.a)

	s := new(big.Int).Exp(base, exponent, n)
	key := sha256.Sum256([]byte(s.Text(16)))

	return key[:], nil
}

func hashHex(values ...*big.Int) *big.Int {
	h := sha256.New()
	for _, v := range values {
		h.Write([]byte(v.Text(16)))
	}
	return new(big.Int).SetBytes(h.Sum(nil))
}

func mustHex(s string) *big.Int {
	if _, err := hex.DecodeString(s); err != nil {
		panic(err)
	}
	n, _ := new(big.Int).SetString(s, 16)
	return n
}
