// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package onepassword

import (
	"crypto/rsa"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"net/url"
	"strconv"
	"strings"
	"sync/atomic"

	"golang.org/x/text/unicode/norm"

	"github.com/MKhiriev/go-vault-access/internal/adapter"
	"github.com/MKhiriev/go-vault-access/internal/app"
	"github.com/MKhiriev/go-vault-access/internal/crypto"
	"github.com/MKhiriev/go-vault-access/internal/keychain"
	"github.com/MKhiriev/go-vault-access/internal/utils"
)

const (
	keySize   = 32
	gcmIVSize = 12

	encA256GCM    = "A256GCM"
	encRSAOAEP    = "RSA-OAEP"
	encRSAOAEP256 = "RSA-OAEP-256"
	contentType   = "b5+jwk+json"

	macHeader  = "X-AgileBits-MAC"
	macVersion = "v1"
	macSecret  = "He never wears a Mac, in the pouring rain. Very strange."
	macLength  = 12

	rememberMeHashLength = 8
)

// pbes2Hash maps a PBES2 algorithm name onto the PBKDF2 hash.
func pbes2Hash(algorithm string) (crypto.HashFunc, error) {
	switch algorithm {
	case "PBES2-HS256", "PBES2g-HS256":
		return crypto.SHA256, nil
	case "PBES2-HS512", "PBES2g-HS512":
		return crypto.SHA512, nil
	}
	return 0, app.Unsupported(fmt.Sprintf("onepassword: key derivation '%s' is not supported", algorithm))
}

// deriveTwoSecretKey is 2SKD: the salt is stretched with HKDF over the
// lower-case e-mail, PBKDF2 runs over the NFKD password and the result is
// XORed with the account key hash. info names the method, algorithm picks
// the PBKDF2 hash. Both the SRP x and the master key are made this way.
func deriveTwoSecretKey(
	info, algorithm string,
	salt []byte,
	iterations int,
	email, password string,
	ak accountKey,
) ([]byte, error) {
	fn, err := pbes2Hash(algorithm)
	if err != nil {
		return nil, err
	}
	if iterations < 1 {
		return nil, fmt.Errorf("%w: iterations=%d", keychain.ErrInvalidKDFParams, iterations)
	}

	stretched, err := crypto.HKDF(crypto.SHA256, salt, []byte(strings.ToLower(email)), []byte(info), keySize)
	if err != nil {
		return nil, err
	}

	k, err := crypto.PBKDF2(fn, []byte(norm.NFKD.String(password)), stretched, iterations, keySize)
	if err != nil {
		return nil, err
	}

	return ak.combine(k)
}

// encrypted is the JWE-like container of keys, items and API payloads.
// Alg, Salt and Iterations are set on the master keyset only.
type encrypted struct {
	KeyID      string `json:"kid"`
	Enc        string `json:"enc"`
	Cty        string `json:"cty,omitempty"`
	IV         string `json:"iv,omitempty"`
	Data       string `json:"data"`
	Alg        string `json:"alg,omitempty"`
	Salt       string `json:"p2s,omitempty"`
	Iterations int    `json:"p2c,omitempty"`
}

func encrypt(key *keychain.Key, plaintext []byte, random io.Reader) (encrypted, error) {
	iv, err := crypto.ReadRandom(random, gcmIVSize)
	if err != nil {
		return encrypted{}, err
	}

	ciphertext, err := crypto.EncryptAES256GCM(key.Encryption, iv, plaintext, nil)
	if err != nil {
		return encrypted{}, err
	}

	return encrypted{
		KeyID: key.ID,
		Enc:   encA256GCM,
		Cty:   contentType,
		IV:    utils.EncodeBase64URL(iv),
		Data:  utils.EncodeBase64URL(ciphertext),
	}, nil
}

func (e encrypted) decrypt(key *keychain.Key) ([]byte, error) {
	data, err := utils.DecodeBase64(e.Data)
	if err != nil {
		return nil, err
	}

	switch e.Enc {
	case encA256GCM:
		if len(key.Encryption) == 0 {
			return nil, errWrongKeyKind
		}
		iv, err := utils.DecodeBase64(e.IV)
		if err != nil {
			return nil, err
		}
		return crypto.DecryptAES256GCM(key.Encryption, iv, data, nil)
	case encRSAOAEP, encRSAOAEP256:
		if key.Private == nil {
			return nil, errWrongKeyKind
		}
		padding := crypto.RSAOAEPSHA1
		if e.Enc == encRSAOAEP256 {
			padding = crypto.RSAOAEPSHA256
		}
		return crypto.DecryptRSA(padding, key.Private, data)
	}

	return nil, app.Unsupported(fmt.Sprintf("onepassword: encryption '%s' is not supported", e.Enc))
}

// decryptJSON opens e with the key its kid names and decodes the
// plaintext into T.
func decryptJSON[T any](e encrypted, keys *keychain.Keychain) (T, error) {
	var out T

	plaintext, err := keys.Decrypt(e.KeyID, e.decrypt)
	if err != nil {
		return out, err
	}
	if err = json.Unmarshal(plaintext, &out); err != nil {
		return out, app.InvalidResponse("onepassword: decrypted json", err)
	}
	return out, nil
}

// jwk is a decrypted key: "oct" carries K, "RSA" the private key parts.
type jwk struct {
	KeyID string `json:"kid"`
	Type  string `json:"kty"`
	Alg   string `json:"alg,omitempty"`

	K string `json:"k,omitempty"`

	N  string `json:"n,omitempty"`
	E  string `json:"e,omitempty"`
	D  string `json:"d,omitempty"`
	P  string `json:"p,omitempty"`
	Q  string `json:"q,omitempty"`
	DP string `json:"dp,omitempty"`
	DQ string `json:"dq,omitempty"`
	QI string `json:"qi,omitempty"`
}

func parseJWK(plaintext []byte) (jwk, error) {
	var k jwk
	if err := json.Unmarshal(plaintext, &k); err != nil {
		return jwk{}, fmt.Errorf("parse jwk: %w", err)
	}
	return k, nil
}

func (k jwk) symmetric() ([]byte, error) {
	key, err := utils.DecodeBase64(k.K)
	if err != nil {
		return nil, err
	}
	if len(key) != keySize {
		return nil, errBadKeySize
	}
	return key, nil
}

func (k jwk) private() (*rsa.PrivateKey, error) {
	parts := make([]*big.Int, 0, 5)
	for _, s := range []string{k.N, k.E, k.D, k.P, k.Q} {
		b, err := utils.DecodeBase64(s)
		if err != nil {
			return nil, fmt.Errorf("rsa jwk: %w", err)
		}
		if len(b) == 0 {
			return nil, fmt.Errorf("%w: rsa jwk is incomplete", crypto.ErrInvalidRSAKey)
		}
		parts = append(parts, new(big.Int).SetBytes(b))
	}
	if !parts[1].IsInt64() {
		return nil, fmt.Errorf("%w: rsa jwk exponent", crypto.ErrInvalidRSAKey)
	}

	key := &rsa.PrivateKey{
		PublicKey: rsa.PublicKey{N: parts[0], E: int(parts[1].Int64())},
		D:         parts[2],
		Primes:    []*big.Int{parts[3], parts[4]},
	}
	if err := key.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", crypto.ErrInvalidRSAKey, err)
	}
	key.Precompute()

	return key, nil
}

// clientHash proves to the server that the client knows the account key
// uuid of this session.
func clientHash(accountKeyUUID, sessionID string) string {
	a := crypto.SHA256Sum([]byte(accountKeyUUID))
	b := crypto.SHA256Sum([]byte(sessionID))
	return utils.EncodeBase64URL(crypto.SHA256Sum(a, b))
}

// rememberMeHash binds a stored remember-me token to the session.
func rememberMeHash(token, sessionID string) (string, error) {
	key, err := utils.DecodeBase64(token)
	if err != nil {
		return "", err
	}
	mac := crypto.HMACSHA256(key, []byte(sessionID))
	return utils.EncodeBase64URL(mac[:rememberMeHashLength]), nil
}

// macSigner adds X-AgileBits-MAC to every request of a session. The
// request id grows by one with each signed request.
type macSigner struct {
	sessionID string
	salt      []byte
	requestID atomic.Uint32
}

func newMACSigner(session *keychain.Key, seed uint32) *macSigner {
	s := &macSigner{
		sessionID: session.ID,
		salt:      crypto.HMACSHA256(session.Encryption, []byte(macSecret)),
	}
	s.requestID.Store(seed)
	return s
}

func (s *macSigner) sign(req *adapter.Request) error {
	u, err := url.Parse(req.URL)
	if err != nil {
		return err
	}

	id := s.requestID.Add(1) - 1
	message := s.message(req.Method, u, id)
	mac := crypto.HMACSHA256(s.salt, []byte(message))[:macLength]

	if req.Headers == nil {
		req.Headers = make(map[string]string)
	}
	req.Headers[macHeader] = macVersion + "|" + strconv.FormatUint(uint64(id), 10) + "|" + utils.EncodeBase64URL(mac)
	return nil
}

func (s *macSigner) message(method string, u *url.URL, id uint32) string {
	return strings.Join([]string{
		s.sessionID,
		strings.ToUpper(method),
		u.Hostname() + u.EscapedPath() + "?" + u.RawQuery,
		macVersion,
		strconv.FormatUint(uint64(id), 10),
	}, "|")
}
