// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package onepassword

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha1"
	"crypto/sha256"
	"encoding/json"
	"hash"
	"math/big"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/go-vault-access/internal/adapter"
	"github.com/MKhiriev/go-vault-access/internal/app"
	"github.com/MKhiriev/go-vault-access/internal/config"
	"github.com/MKhiriev/go-vault-access/internal/crypto"
	"github.com/MKhiriev/go-vault-access/internal/duo"
	"github.com/MKhiriev/go-vault-access/internal/keychain"
	"github.com/MKhiriev/go-vault-access/internal/logger"
	"github.com/MKhiriev/go-vault-access/internal/mfa"
	"github.com/MKhiriev/go-vault-access/internal/mock"
	"github.com/MKhiriev/go-vault-access/internal/provider"
	"github.com/MKhiriev/go-vault-access/internal/srp"
	"github.com/MKhiriev/go-vault-access/internal/store"
	"github.com/MKhiriev/go-vault-access/internal/utils"
	"github.com/MKhiriev/go-vault-access/models"
)

const (
	testEmail      = "User@Example.com"
	testPassword   = "Pässwörd 1"
	testAccountKey = "A3-ASWWYB-798JRY-LJVD4-23DC2-86TVM-H43EB"
	testDeviceID   = "device-1"
	testSessionID  = "TPRDSHEUYRG2TNHKPRXIXDXCSA"
	testIterations = 100
	testAlgorithm  = "PBES2g-HS256"
	testSRPMethod  = "SRPg-4096"
	testCode       = "123456"
)

var (
	credential = models.Credential{Username: testEmail, Password: testPassword, AccountKey: testAccountKey}

	issuedToken = utils.EncodeBase64URL([]byte("issued remember-me token"))
	staleToken  = utils.EncodeBase64URL([]byte("stale remember-me token"))

	testRSAKey = sync.OnceValue(func() *rsa.PrivateKey {
		k, err := rsa.GenerateKey(rand.Reader, 2048)
		if err != nil {
			panic(err)
		}
		return k
	})
)

func testKey(t *testing.T) accountKey {
	t.Helper()
	ak, err := parseAccountKey(testAccountKey)
	require.NoError(t, err)
	return ak
}

// ── test server ──────────────────────────────────────────────────────────────

type onePasswordServer struct {
	t   *testing.T
	srv *httptest.Server
	ak  accountKey

	mu       sync.Mutex
	statuses []string
	keyUUID  string
	password string
	srpSalt  []byte
	mfa      *mfaInfo

	sessionKey *keychain.Key

	keysets []keyset
	account accountInfo
	batches map[string]map[string]itemsBatch

	starts       int
	registered   []deviceInfo
	reauthorized []string
	verified     []verifyRequest
	mfaRequests  []map[string]json.RawMessage
	itemRequests []string
	macs         []string
	signouts     int
	duoPolls     int
}

// newOnePasswordServer answers v3/auth/start with statuses in order and
// repeats the last one when they run out.
func newOnePasswordServer(t *testing.T, statuses ...string) *onePasswordServer {
	t.Helper()

	s := &onePasswordServer{
		t:        t,
		ak:       testKey(t),
		statuses: statuses,
		password: testPassword,
		srpSalt:  []byte("srp salt 16 byte"),
		batches:  map[string]map[string]itemsBatch{},
	}
	s.keyUUID = s.ak.UUID

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			assert.Equal(t, clientID, req.Header.Get(clientHeader))
			next.ServeHTTP(w, req)
		})
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/v3/auth/start", s.start)
		r.Post("/v1/device", s.register)
		r.Put("/v1/device/{uuid}/reauthorize", s.reauthorize)
		r.Post("/v1/auth", s.exchange)
		r.Post("/v2/auth/verify", s.verify)
		r.Post("/v1/auth/mfa", s.secondFactor)
		r.Get("/v1/account", func(w http.ResponseWriter, req *http.Request) {
			assert.Contains(t, req.URL.Query().Get("attrs"), "vaults")
			s.reply(w, req, s.account)
		})
		r.Get("/v1/account/keysets", func(w http.ResponseWriter, req *http.Request) {
			s.reply(w, req, keysetsResponse{Keysets: s.keysets})
		})
		r.Get("/v1/vault/{id}/{batch}/items", func(w http.ResponseWriter, req *http.Request) {
			id, batch := chi.URLParam(req, "id"), chi.URLParam(req, "batch")
			s.mu.Lock()
			s.itemRequests = append(s.itemRequests, id+"/"+batch)
			b, ok := s.batches[id][batch]
			s.mu.Unlock()
			if !ok {
				w.WriteHeader(http.StatusNotFound)
				_, _ = w.Write([]byte(`{"errorCode":104,"errorMessage":"Not found"}`))
				return
			}
			s.reply(w, req, b)
		})
		r.Put("/v1/session/signout", func(w http.ResponseWriter, req *http.Request) {
			s.mu.Lock()
			s.signouts++
			s.mu.Unlock()
			s.reply(w, req, successResponse{Success: 1})
		})
	})

	// Duo frame, served from the same host so that mfaInfo.Duo.Host can
	// point here.
	r.Route("/frame", func(r chi.Router) {
		r.Post("/web/v1/auth", func(w http.ResponseWriter, req *http.Request) {
			assert.Equal(t, "TX", req.URL.Query().Get("tx"))
			_, _ = w.Write([]byte(duoFrame))
		})
		r.Post("/prompt", func(w http.ResponseWriter, req *http.Request) {
			require.NoError(t, req.ParseForm())
			assert.Equal(t, "Duo Push", req.PostForm.Get("factor"))
			writeDuo(t, w, map[string]string{"txid": "TXID"})
		})
		r.Post("/status", func(w http.ResponseWriter, req *http.Request) {
			s.mu.Lock()
			s.duoPolls++
			polls := s.duoPolls
			s.mu.Unlock()
			if polls <= 2 {
				writeDuo(t, w, map[string]string{"result": "WAITING", "status": "Pushed a login request"})
				return
			}
			writeDuo(t, w, map[string]string{"result": "SUCCESS", "status": "Success!", "result_url": "/frame/result"})
		})
		r.Post("/result", func(w http.ResponseWriter, req *http.Request) {
			writeDuo(t, w, map[string]string{"result": "SUCCESS", "cookie": "AUTH|duo"})
		})
	})

	s.srv = httptest.NewServer(r)
	t.Cleanup(s.srv.Close)
	return s
}

const duoFrame = `<html><body>
<form id="login-form">
  <input name="sid" value="SID-1">
  <select name="device"><option value="phone1">iPhone</option></select>
  <fieldset data-device-index="phone1">
    <input name="factor" value="Duo Push">
  </fieldset>
</form></body></html>`

func writeDuo(t *testing.T, w http.ResponseWriter, payload any) {
	writeJSON(t, w, http.StatusOK, map[string]any{"stat": "OK", "response": payload})
}

func (s *onePasswordServer) options(storage store.SecureStorage) provider.Options {
	return provider.Options{
		Transport: adapter.NewHTTPTransport(config.Adapter{RequestTimeout: 5 * time.Second}, logger.Nop()),
		Storage:   storage,
		Domain:    s.srv.URL,
		Device:    provider.Device{ID: testDeviceID, Name: "test laptop"},
		Poll:      mfa.PollConfig{Interval: time.Millisecond, MaxAttempts: 5},
	}
}

func writeJSON(t *testing.T, w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

func (s *onePasswordServer) start(w http.ResponseWriter, req *http.Request) {
	var body startRequest
	require.NoError(s.t, json.NewDecoder(req.Body).Decode(&body))
	assert.Equal(s.t, testDeviceID, body.DeviceUUID)
	assert.Equal(s.t, testEmail, body.Email)
	assert.Equal(s.t, "A3", body.SKFormat)

	s.mu.Lock()
	status := s.statuses[min(s.starts, len(s.statuses)-1)]
	s.starts++
	s.mu.Unlock()

	writeJSON(s.t, w, http.StatusOK, startResponse{
		Status:    status,
		SessionID: testSessionID,
		KeyFormat: "A3",
		KeyUUID:   s.keyUUID,
		Auth: userAuth{
			Method:     testSRPMethod,
			Algorithm:  testAlgorithm,
			Iterations: testIterations,
			Salt:       utils.EncodeBase64URL(s.srpSalt),
		},
	})
}

func (s *onePasswordServer) register(w http.ResponseWriter, req *http.Request) {
	var body deviceInfo
	require.NoError(s.t, json.NewDecoder(req.Body).Decode(&body))
	s.mu.Lock()
	s.registered = append(s.registered, body)
	s.mu.Unlock()
	writeJSON(s.t, w, http.StatusOK, successResponse{Success: 1})
}

func (s *onePasswordServer) reauthorize(w http.ResponseWriter, req *http.Request) {
	s.mu.Lock()
	s.reauthorized = append(s.reauthorized, chi.URLParam(req, "uuid"))
	s.mu.Unlock()
	writeJSON(s.t, w, http.StatusOK, successResponse{Success: 1})
}

func srpHash(values ...*big.Int) *big.Int {
	h := sha256.New()
	for _, v := range values {
		h.Write([]byte(v.Text(16)))
	}
	return new(big.Int).SetBytes(h.Sum(nil))
}

// exchange is the server half of SRP with a verifier made from s.password.
func (s *onePasswordServer) exchange(w http.ResponseWriter, req *http.Request) {
	assert.Equal(s.t, testSessionID, req.Header.Get(sessionHeader))

	var body srpRequest
	require.NoError(s.t, json.NewDecoder(req.Body).Decode(&body))
	a, ok := new(big.Int).SetString(body.UserA, 16)
	require.True(s.t, ok)

	xb, err := deriveTwoSecretKey(testSRPMethod, testAlgorithm, s.srpSalt, testIterations, testEmail, s.password, s.ak)
	require.NoError(s.t, err)

	group := srp.RFC5054Group4096
	n, g := group.N, group.G
	x := new(big.Int).SetBytes(xb)
	v := new(big.Int).Exp(g, x, n)

	secret, err := crypto.RandomBytes(32)
	require.NoError(s.t, err)
	b := new(big.Int).SetBytes(secret)

	// B = k*v + g^b mod N
	bPub := new(big.Int).Mul(srpHash(n, g), v)
	bPub.Add(bPub, new(big.Int).Exp(g, b, n))
	bPub.Mod(bPub, n)

	// S = (A * v^u)^b mod N
	u := srpHash(a, bPub)
	base := new(big.Int).Exp(v, u, n)
	base.Mul(base, a)
	base.Mod(base, n)
	key := sha256.Sum256([]byte(new(big.Int).Exp(base, b, n).Text(16)))

	s.mu.Lock()
	s.sessionKey = &keychain.Key{ID: testSessionID, Encryption: key[:]}
	s.mu.Unlock()

	writeJSON(s.t, w, http.StatusOK, srpResponse{SessionID: testSessionID, UserB: bPub.Text(16)})
}

// read decrypts a request body. A body that does not open is answered
// the way the server answers a wrong session key.
func (s *onePasswordServer) read(w http.ResponseWriter, req *http.Request, out any) bool {
	s.mu.Lock()
	s.macs = append(s.macs, req.Header.Get(macHeader))
	key := s.sessionKey
	s.mu.Unlock()

	var container encrypted
	require.NoError(s.t, json.NewDecoder(req.Body).Decode(&container))

	plaintext, err := container.decrypt(key)
	if err != nil {
		writeJSON(s.t, w, http.StatusUnauthorized, serverError{Code: 102, Message: "Authentication required"})
		return false
	}
	require.NoError(s.t, json.Unmarshal(plaintext, out))
	return true
}

func (s *onePasswordServer) reply(w http.ResponseWriter, req *http.Request, v any) {
	s.mu.Lock()
	if req.Method == http.MethodGet || req.Method == http.MethodPut {
		s.macs = append(s.macs, req.Header.Get(macHeader))
	}
	key := s.sessionKey
	s.mu.Unlock()

	writeJSON(s.t, w, http.StatusOK, seal(s.t, key, v))
}

func (s *onePasswordServer) verify(w http.ResponseWriter, req *http.Request) {
	var body verifyRequest
	if !s.read(w, req, &body) {
		return
	}
	assert.Equal(s.t, clientHash(s.ak.UUID, testSessionID), body.ClientVerifyHash)

	s.mu.Lock()
	s.verified = append(s.verified, body)
	s.mu.Unlock()

	s.respond(w, verifyResponse{ServerVerifyHash: "ignored", MFA: s.mfa})
}

func (s *onePasswordServer) respond(w http.ResponseWriter, v any) {
	s.mu.Lock()
	key := s.sessionKey
	s.mu.Unlock()
	writeJSON(s.t, w, http.StatusOK, seal(s.t, key, v))
}

func (s *onePasswordServer) secondFactor(w http.ResponseWriter, req *http.Request) {
	var body map[string]json.RawMessage
	if !s.read(w, req, &body) {
		return
	}

	s.mu.Lock()
	s.mfaRequests = append(s.mfaRequests, body)
	s.mu.Unlock()

	var params map[string]string
	accepted := false
	switch {
	case body["totp"] != nil:
		require.NoError(s.t, json.Unmarshal(body["totp"], &params))
		accepted = params["code"] == testCode
	case body["dsecret"] != nil:
		require.NoError(s.t, json.Unmarshal(body["dsecret"], &params))
		want, err := rememberMeHash(issuedToken, testSessionID)
		require.NoError(s.t, err)
		accepted = params["dshmac"] == want
	case body["duo"] != nil:
		require.NoError(s.t, json.Unmarshal(body["duo"], &params))
		accepted = params["sigResponse"] == "AUTH|duo:APP"
	}

	if !accepted {
		writeJSON(s.t, w, http.StatusUnauthorized, serverError{Code: 102, Message: "Authentication required"})
		return
	}
	s.respond(w, mfaResponse{RememberMeToken: issuedToken})
}

// ── vault fixture ────────────────────────────────────────────────────────────

func seal(t *testing.T, key *keychain.Key, v any) encrypted {
	t.Helper()
	plaintext, err := json.Marshal(v)
	require.NoError(t, err)
	e, err := encrypt(key, plaintext, rand.Reader)
	require.NoError(t, err)
	return e
}

func sealRSA(t *testing.T, public *rsa.PublicKey, kid, enc string, v any) encrypted {
	t.Helper()
	plaintext, err := json.Marshal(v)
	require.NoError(t, err)

	var h hash.Hash = sha1.New()
	if enc == encRSAOAEP256 {
		h = sha256.New()
	}
	ct, err := rsa.EncryptOAEP(h, rand.Reader, public, plaintext, nil)
	require.NoError(t, err)

	return encrypted{KeyID: kid, Enc: enc, Data: utils.EncodeBase64URL(ct)}
}

func symmetricJWK(kid string, key []byte) jwk {
	return jwk{KeyID: kid, Type: "oct", Alg: encA256GCM, K: utils.EncodeBase64URL(key)}
}

func privateJWK(kid string, key *rsa.PrivateKey) jwk {
	b64 := func(i *big.Int) string { return utils.EncodeBase64URL(i.Bytes()) }
	return jwk{
		KeyID: kid,
		Type:  "RSA",
		N:     b64(key.N),
		E:     b64(big.NewInt(int64(key.E))),
		D:     b64(key.D),
		P:     b64(key.Primes[0]),
		Q:     b64(key.Primes[1]),
	}
}

func randomKey(t *testing.T, id string) *keychain.Key {
	t.Helper()
	k, err := crypto.RandomBytes(keySize)
	require.NoError(t, err)
	return &keychain.Key{ID: id, Encryption: k}
}

type vaultFixture struct {
	personalKey *keychain.Key

	keysets []keyset
	account accountInfo
	batches map[string]map[string]itemsBatch
}

// newVaultFixture builds:
//   - the master keyset (with an RSA key) and an outdated one,
//   - a team keyset encrypted with the master RSA key,
//   - "personal" readable through the master keyset with two batches,
//   - "team" readable through the team keyset with a TOTP login and a
//     corrupted item,
//   - "hidden" without the read bit.
func newVaultFixture(t *testing.T, password string) vaultFixture {
	t.Helper()
	ak := testKey(t)

	salt := []byte("keyset salt 16 b")
	mk, err := deriveTwoSecretKey(testAlgorithm, testAlgorithm, salt, testIterations, testEmail, password, ak)
	require.NoError(t, err)
	master := &keychain.Key{ID: keychain.MasterKeyID, Encryption: mk}

	private := testRSAKey()
	masterSym := randomKey(t, "ks-master")
	teamSym := randomKey(t, "ks-team")
	personalKey := randomKey(t, "vk-personal")
	teamKey := randomKey(t, "vk-team")

	masterEnc := seal(t, master, symmetricJWK("ks-master", masterSym.Encryption))
	masterEnc.Alg, masterEnc.Salt, masterEnc.Iterations = testAlgorithm, utils.EncodeBase64URL(salt), testIterations
	masterPri := seal(t, masterSym, privateJWK("ks-master", private))

	outdated := seal(t, randomKey(t, keychain.MasterKeyID), symmetricJWK("ks-old", masterSym.Encryption))
	outdated.Alg, outdated.Salt, outdated.Iterations = testAlgorithm, utils.EncodeBase64URL(salt), testIterations

	keysets := []keyset{
		{UUID: "ks-old", EncryptedBy: keychain.MasterKeyID, EncSymKey: outdated, Serial: 1},
		{UUID: "ks-master", EncryptedBy: keychain.MasterKeyID, EncSymKey: masterEnc, EncPriKey: &masterPri, Serial: 2},
		{
			UUID:      "ks-team",
			EncSymKey: sealRSA(t, &private.PublicKey, "ks-master", encRSAOAEP, symmetricJWK("ks-team", teamSym.Encryption)),
			Serial:    1,
		},
	}

	account := accountInfo{Vaults: []vaultInfo{
		{
			UUID:       "personal",
			Attributes: seal(t, personalKey, vaultAttributes{Name: "Personal", Description: "mine", Type: "P"}),
			Access: []vaultAccess{{
				VaultUUID:   "personal",
				EncVaultKey: sealRSA(t, &private.PublicKey, "ks-master", encRSAOAEP256, symmetricJWK("vk-personal", personalKey.Encryption)),
				ACL:         readACL | 16,
			}},
		},
		{
			UUID:       "hidden",
			Attributes: seal(t, personalKey, vaultAttributes{Name: "Hidden"}),
			Access: []vaultAccess{{
				VaultUUID:   "hidden",
				EncVaultKey: seal(t, masterSym, symmetricJWK("vk-hidden", personalKey.Encryption)),
				ACL:         16,
			}},
		},
		{
			UUID:       "team",
			Attributes: seal(t, teamKey, vaultAttributes{Name: "Shared"}),
			Access: []vaultAccess{{
				VaultUUID:   "team",
				EncVaultKey: seal(t, teamSym, symmetricJWK("vk-team", teamKey.Encryption)),
				ACL:         readACL,
			}},
		},
	}}

	item := func(key *keychain.Key, id, template, trash string, o overview, d details) vaultItem {
		return vaultItem{
			UUID:         id,
			TemplateUUID: template,
			Trashed:      trash,
			Overview:     seal(t, key, o),
			Details:      seal(t, key, d),
		}
	}

	mail := item(personalKey, "i-mail", templateLogin, "N",
		overview{Title: "Mail", URL: "https://mail.example.com", URLs: []itemURL{
			{URL: "https://mail.example.com"}, {URL: "https://webmail.example.com"},
		}},
		details{NotesPlain: "note", Fields: []field{
			{Designation: "username", Value: "alice"},
			{Designation: "password", Value: "secret-1"},
		}})
	trashedItem := item(personalKey, "i-trashed", templateLogin, trashed, overview{Title: "Old"}, details{})
	document := item(personalKey, "i-document", "006", "N", overview{Title: "Scan"}, details{})
	wifi := item(personalKey, "i-wifi", templatePassword, "N", overview{Title: "Wi-Fi"}, details{Password: "secret-4"})

	router := item(teamKey, "i-router", templateLogin, "N",
		overview{Title: "Router"},
		details{
			Fields: []field{{Designation: "username", Value: "admin"}, {Designation: "password", Value: "secret-5"}},
			Sections: []section{{Fields: []sectionField{
				{Kind: "string", Name: "serial", Value: "R-1"},
				{Kind: "concealed", Name: "TOTP_ABC", Value: "otpauth://totp/router?secret=ABC"},
			}}},
		})
	broken := item(teamKey, "i-broken", templateLogin, "N", overview{Title: "Broken"}, details{})
	broken.Details = seal(t, randomKey(t, "vk-team"), details{})

	return vaultFixture{
		personalKey: personalKey,
		keysets:     keysets,
		account:     account,
		batches: map[string]map[string]itemsBatch{
			"personal": {
				"0": {ContentVersion: 7, Items: []vaultItem{mail, trashedItem, document}},
				"7": {ContentVersion: 9, BatchComplete: true, Items: []vaultItem{wifi}},
			},
			"team": {
				"0": {ContentVersion: 3, BatchComplete: true, Items: []vaultItem{router, broken}},
			},
		},
	}
}

func (s *onePasswordServer) load(f vaultFixture) {
	s.keysets, s.account, s.batches = f.keysets, f.account, f.batches
}

type testUI struct {
	*mock.MockPasscodeProvider
	*mock.MockWebAuthnAuthenticator
	*mock.MockDuoUI
}

func newTestUI(t *testing.T) *testUI {
	ctrl := gomock.NewController(t)
	return &testUI{
		MockPasscodeProvider:      mock.NewMockPasscodeProvider(ctrl),
		MockWebAuthnAuthenticator: mock.NewMockWebAuthnAuthenticator(ctrl),
		MockDuoUI:                 mock.NewMockDuoUI(ctrl),
	}
}

func accountsByID(accounts []models.Account) map[string]models.Account {
	out := make(map[string]models.Account, len(accounts))
	for _, a := range accounts {
		out[a.ID] = a
	}
	return out
}

// ── Open ─────────────────────────────────────────────────────────────────────

func TestOpen_RegistersDeviceAndDecryptsVaults(t *testing.T) {
	s := newOnePasswordServer(t, statusDeviceNotRegistered, statusOK)
	s.load(newVaultFixture(t, testPassword))

	result, err := Open(context.Background(), s.options(nil), credential, nil)
	require.NoError(t, err)

	// the device is registered and the login restarted
	assert.Equal(t, 2, s.starts)
	require.Len(t, s.registered, 1)
	assert.Equal(t, testDeviceID, s.registered[0].UUID)
	assert.Equal(t, clientName, s.registered[0].ClientName)
	require.Len(t, s.verified, 1)
	assert.Equal(t, clientID, s.verified[0].Client)
	assert.Empty(t, s.mfaRequests, "no second factor was offered")

	accounts := accountsByID(result.Accounts)
	require.Len(t, accounts, 3, "trashed and non-login items are dropped")
	assert.Equal(t, models.Account{
		ID:       "i-mail",
		Name:     "Mail",
		Username: "alice",
		Password: "secret-1",
		URLs:     []string{"https://mail.example.com", "https://webmail.example.com"},
		Note:     "note",
		Folder:   "personal",
	}, accounts["i-mail"])
	assert.Equal(t, "secret-4", accounts["i-wifi"].Password)
	assert.Equal(t, "team", accounts["i-router"].Folder)
	assert.Equal(t, "otpauth://totp/router?secret=ABC", accounts["i-router"].TOTP)

	require.Len(t, result.Failures, 1)
	assert.Equal(t, "i-broken", result.Failures[0].ItemID)

	assert.Equal(t, []models.Folder{
		{ID: "personal", Title: "Personal"},
		{ID: "team", Title: "Shared"},
	}, result.Folders)

	assert.ElementsMatch(t, []string{"personal/0", "personal/7", "team/0"}, s.itemRequests)
	assert.Equal(t, 1, s.signouts)

	// every request after SRP is signed with a fresh request id
	seen := map[string]bool{}
	for _, mac := range s.macs {
		require.True(t, strings.HasPrefix(mac, "v1|"), mac)
		id := strings.Split(mac, "|")[1]
		assert.False(t, seen[id], "request id %s reused", id)
		seen[id] = true
	}
}

func TestOpen_DuoPushPendingTwiceThenBatchOfThree(t *testing.T) {
	s := newOnePasswordServer(t, statusOK)
	f := newVaultFixture(t, testPassword)
	f.account.Vaults = f.account.Vaults[:1]

	login := func(id, trash string) vaultItem {
		return vaultItem{
			UUID:         id,
			TemplateUUID: templateLogin,
			Trashed:      trash,
			Overview:     seal(t, f.personalKey, overview{Title: id}),
			Details:      seal(t, f.personalKey, details{Fields: []field{{Designation: "password", Value: "pw-" + id}}}),
		}
	}
	f.batches = map[string]map[string]itemsBatch{
		"personal": {"0": {ContentVersion: 1, BatchComplete: true, Items: []vaultItem{
			login("i-1", "N"), login("i-2", trashed), login("i-3", "N"),
		}}},
	}
	s.load(f)
	s.mfa = &mfaInfo{Duo: duoInfo{Enabled: true, Host: s.srv.URL, SigRequest: "TX:APP"}}

	ui := newTestUI(t)
	ui.MockDuoUI.EXPECT().
		ChooseDuoFactor(gomock.Any(), gomock.Any()).
		Return(duo.Choice{Device: duo.Device{ID: "phone1"}, Factor: duo.FactorPush}, nil)
	ui.MockDuoUI.EXPECT().UpdateDuoStatus(gomock.Any(), gomock.Any()).Times(3)

	result, err := Open(context.Background(), s.options(nil), credential, ui)
	require.NoError(t, err)

	assert.Equal(t, 3, s.duoPolls)
	require.Len(t, s.mfaRequests, 1)
	assert.Contains(t, s.mfaRequests[0], "duo")

	accounts := accountsByID(result.Accounts)
	require.Len(t, accounts, 2)
	assert.Equal(t, "pw-i-1", accounts["i-1"].Password)
	assert.Equal(t, "pw-i-3", accounts["i-3"].Password)
	assert.Empty(t, result.Failures)
}

func TestListAllVaults_SkipsUnreadable(t *testing.T) {
	s := newOnePasswordServer(t, statusOK)
	s.load(newVaultFixture(t, testPassword))

	c, err := Login(context.Background(), s.options(nil), credential, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Logout(context.Background()) })

	vaults, err := c.ListAllVaults(context.Background())
	require.NoError(t, err)
	require.Len(t, vaults, 2)
	assert.Equal(t, models.Vault{ID: "personal", Name: "Personal", Description: "mine"}, vaults[0].Vault)
	assert.Equal(t, "team", vaults[1].ID)

	result, err := c.OpenVault(context.Background(), vaults[1])
	require.NoError(t, err)
	assert.Len(t, result.Accounts, 1)

	_, err = c.OpenVault(context.Background(), Vault{Vault: models.Vault{ID: "hidden"}, keyID: "vk-hidden"})
	assert.ErrorIs(t, err, app.ErrInternal)
}

func TestOpen_WrongKeysetPasswordIsBadCredentials(t *testing.T) {
	s := newOnePasswordServer(t, statusOK)
	s.load(newVaultFixture(t, "another password"))

	_, err := Open(context.Background(), s.options(nil), credential, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, app.ErrBadCredentials)
	assert.Equal(t, 1, s.signouts)
}

// ── Login ────────────────────────────────────────────────────────────────────

func TestLogin_ReauthorizesDeletedDevice(t *testing.T) {
	s := newOnePasswordServer(t, statusDeviceDeleted, statusOK)

	c, err := Login(context.Background(), s.options(nil), credential, nil)
	require.NoError(t, err)
	require.NoError(t, c.Logout(context.Background()))

	assert.Equal(t, []string{testDeviceID}, s.reauthorized)
	assert.Empty(t, s.registered)
	assert.Equal(t, 1, s.signouts)
}

func TestLogin_UnknownStatus(t *testing.T) {
	s := newOnePasswordServer(t, "account-suspended")

	_, err := Login(context.Background(), s.options(nil), credential, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, app.ErrInternal)
	assert.Contains(t, err.Error(), "account-suspended")
}

func TestLogin_AccountKeyMismatch(t *testing.T) {
	s := newOnePasswordServer(t, statusOK)
	s.keyUUID = "OTHER1"

	_, err := Login(context.Background(), s.options(nil), credential, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAccountKeyMismatch)
	assert.ErrorIs(t, err, app.ErrBadCredentials)
}

func TestLogin_MalformedAccountKey(t *testing.T) {
	s := newOnePasswordServer(t, statusOK)
	cred := credential
	cred.AccountKey = "A3-SHORT"

	_, err := Login(context.Background(), s.options(nil), cred, nil)
	require.ErrorIs(t, err, ErrMalformedAccountKey)
	assert.Zero(t, s.starts)
}

func TestLogin_WrongPassword(t *testing.T) {
	s := newOnePasswordServer(t, statusOK)
	s.password = "something else"

	_, err := Login(context.Background(), s.options(nil), credential, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, app.ErrBadCredentials)

	var e *app.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, codeAuthenticationFailed, e.ServerCode)
}

// ── Second factor ────────────────────────────────────────────────────────────

func TestLogin_TOTPRetryAndRememberMe(t *testing.T) {
	s := newOnePasswordServer(t, statusOK)
	s.mfa = &mfaInfo{TOTP: enabled{Enabled: true}, RememberMe: enabled{Enabled: true}}
	storage := store.NewMemoryStorage(nil)

	ui := newTestUI(t)
	gomock.InOrder(
		ui.MockPasscodeProvider.EXPECT().
			ProvidePasscode(gomock.Any(), mfa.PasscodePrompt{Factor: mfa.FactorTOTP, Method: "Authenticator app", Attempt: 1}).
			Return(mfa.Passcode{Code: "000000"}, nil),
		ui.MockPasscodeProvider.EXPECT().
			ProvidePasscode(gomock.Any(), gomock.Any()).
			Return(mfa.Passcode{Code: testCode, RememberMe: true}, nil),
	)

	c, err := Login(context.Background(), s.options(storage), credential, ui)
	require.NoError(t, err)
	require.NoError(t, c.Logout(context.Background()))

	require.Len(t, s.mfaRequests, 2)
	assert.JSONEq(t, `"`+testSessionID+`"`, string(s.mfaRequests[0]["sessionID"]))
	assert.Equal(t, issuedToken, storage.Snapshot()[RememberMeKey])
}

func TestLogin_TOTPExhausted(t *testing.T) {
	s := newOnePasswordServer(t, statusOK)
	s.mfa = &mfaInfo{TOTP: enabled{Enabled: true}}

	ui := newTestUI(t)
	ui.MockPasscodeProvider.EXPECT().
		ProvidePasscode(gomock.Any(), gomock.Any()).
		Return(mfa.Passcode{Code: "000000"}, nil).
		Times(totpAttempts)

	_, err := Login(context.Background(), s.options(nil), credential, ui)
	require.Error(t, err)
	assert.ErrorIs(t, err, app.ErrBadMultiFactor)
	assert.Len(t, s.mfaRequests, totpAttempts)
}

func TestLogin_TOTPCanceled(t *testing.T) {
	s := newOnePasswordServer(t, statusOK)
	s.mfa = &mfaInfo{TOTP: enabled{Enabled: true}}

	ui := newTestUI(t)
	ui.MockPasscodeProvider.EXPECT().
		ProvidePasscode(gomock.Any(), gomock.Any()).
		Return(mfa.Passcode{}, mfa.ErrCanceled)

	_, err := Login(context.Background(), s.options(nil), credential, ui)
	assert.ErrorIs(t, err, app.ErrCanceledMultiFactor)
}

func TestLogin_StoredRememberMeToken(t *testing.T) {
	s := newOnePasswordServer(t, statusOK)
	s.mfa = &mfaInfo{TOTP: enabled{Enabled: true}, RememberMe: enabled{Enabled: true}}
	storage := store.NewMemoryStorage(map[string]string{RememberMeKey: issuedToken})

	c, err := Login(context.Background(), s.options(storage), credential, nil)
	require.NoError(t, err)
	require.NoError(t, c.Logout(context.Background()))

	require.Len(t, s.mfaRequests, 1)
	assert.Contains(t, s.mfaRequests[0], "dsecret")
}

func TestLogin_RejectedRememberMeRestartsLogin(t *testing.T) {
	s := newOnePasswordServer(t, statusOK)
	s.mfa = &mfaInfo{TOTP: enabled{Enabled: true}, RememberMe: enabled{Enabled: true}}
	storage := store.NewMemoryStorage(map[string]string{RememberMeKey: staleToken})

	ui := newTestUI(t)
	ui.MockPasscodeProvider.EXPECT().
		ProvidePasscode(gomock.Any(), gomock.Any()).
		Return(mfa.Passcode{Code: testCode}, nil)

	c, err := Login(context.Background(), s.options(storage), credential, ui)
	require.NoError(t, err)
	require.NoError(t, c.Logout(context.Background()))

	assert.Equal(t, 2, s.starts)
	require.Len(t, s.mfaRequests, 2)
	assert.Contains(t, s.mfaRequests[0], "dsecret")
	assert.Contains(t, s.mfaRequests[1], "totp")
	assert.NotContains(t, storage.Snapshot(), RememberMeKey, "rejected token is cleared, the new one is not remembered")
}

func TestLogin_SecondFactorWithoutUI(t *testing.T) {
	s := newOnePasswordServer(t, statusOK)
	s.mfa = &mfaInfo{TOTP: enabled{Enabled: true}}

	_, err := Login(context.Background(), s.options(nil), credential, nil)
	assert.ErrorIs(t, err, app.ErrUnsupportedFeature)
}

func TestLogin_NoFactorEnabled(t *testing.T) {
	s := newOnePasswordServer(t, statusOK)
	s.mfa = &mfaInfo{}

	_, err := Login(context.Background(), s.options(nil), credential, newTestUI(t))
	assert.ErrorIs(t, err, app.ErrInternal)
}

func TestLoginWithWebAuthn_SeveralKeysUnsupported(t *testing.T) {
	l := &loginFlow{ui: newTestUI(t)}

	err := l.loginWithWebAuthn(context.Background(), nil, webAuthn{Enabled: true, KeyHandles: []string{"a", "b"}})
	assert.ErrorIs(t, err, app.ErrUnsupportedFeature)
}

func TestLoginWithDuo_MissingParameters(t *testing.T) {
	l := &loginFlow{ui: newTestUI(t)}

	err := l.loginWithDuo(context.Background(), nil, duoInfo{Enabled: true, Host: "api-1.duosecurity.com"})
	assert.ErrorIs(t, err, app.ErrInvalidResponse)
}

// ── Crypto ───────────────────────────────────────────────────────────────────

func TestParseAccountKey(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    accountKey
		wantErr bool
	}{
		{
			name: "a3 with dashes",
			in:   testAccountKey,
			want: accountKey{Format: "A3", UUID: "ASWWYB", Key: "798JRYLJVD423DC286TVMH43EB"},
		},
		{
			name:    "inner space",
			in:      "a3aswwyb798jrylj vd423dc286tvmh43eb",
			wantErr: true,
		},
		{
			name: "lower case",
			in:   "a3-aswwyb-798jry-ljvd4-23dc2-86tvm-h43eb",
			want: accountKey{Format: "A3", UUID: "ASWWYB", Key: "798JRYLJVD423DC286TVMH43EB"},
		},
		{
			name: "a2",
			in:   "A2-ASWWYB-798JRY-LJVD4-23DC2-86TVM-H43E",
			want: accountKey{Format: "A2", UUID: "ASWWYB", Key: "798JRYLJVD423DC286TVMH43E"},
		},
		{name: "unknown format", in: "B3-ASWWYB-798JRY-LJVD4-23DC2-86TVM-H43EB", wantErr: true},
		{name: "empty", in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseAccountKey(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrMalformedAccountKey)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDeriveTwoSecretKey(t *testing.T) {
	ak := testKey(t)
	salt := []byte("salt")

	a, err := deriveTwoSecretKey(testAlgorithm, testAlgorithm, salt, testIterations, "USER@example.com", testPassword, ak)
	require.NoError(t, err)
	assert.Len(t, a, keySize)

	// e-mail case does not matter, the password normal form does not either
	b, err := deriveTwoSecretKey(testAlgorithm, testAlgorithm, salt, testIterations, "user@EXAMPLE.com", "Pa\u0308sswo\u0308rd 1", ak)
	require.NoError(t, err)
	assert.Equal(t, a, b)

	c, err := deriveTwoSecretKey(testSRPMethod, testAlgorithm, salt, testIterations, testEmail, testPassword, ak)
	require.NoError(t, err)
	assert.NotEqual(t, a, c, "info separates the srp x from the master key")

	_, err = deriveTwoSecretKey(testAlgorithm, "PBES2-HS1", salt, testIterations, testEmail, testPassword, ak)
	assert.ErrorIs(t, err, app.ErrUnsupportedFeature)

	_, err = deriveTwoSecretKey(testAlgorithm, testAlgorithm, salt, 0, testEmail, testPassword, ak)
	assert.ErrorIs(t, err, keychain.ErrInvalidKDFParams)
}

func TestEncrypted_Decrypt(t *testing.T) {
	key := randomKey(t, "k")
	e := seal(t, key, map[string]string{"a": "b"})
	assert.Equal(t, "k", e.KeyID)
	assert.Equal(t, contentType, e.Cty)

	plaintext, err := e.decrypt(key)
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":"b"}`, string(plaintext))

	_, err = e.decrypt(&keychain.Key{ID: "k", Private: testRSAKey()})
	assert.ErrorIs(t, err, errWrongKeyKind)

	_, err = e.decrypt(randomKey(t, "k"))
	assert.ErrorIs(t, err, crypto.ErrAuthentication)

	e.Enc = "A128CBC-HS256"
	_, err = e.decrypt(key)
	assert.ErrorIs(t, err, app.ErrUnsupportedFeature)
}

func TestJWK_PrivateRoundTrip(t *testing.T) {
	k, err := privateJWK("kid", testRSAKey()).private()
	require.NoError(t, err)
	assert.True(t, k.Equal(testRSAKey()))

	broken := privateJWK("kid", testRSAKey())
	broken.Q = ""
	_, err = broken.private()
	assert.ErrorIs(t, err, crypto.ErrInvalidRSAKey)
}

func TestClientAndRememberMeHashes(t *testing.T) {
	h := clientHash("ASWWYB", testSessionID)
	assert.Len(t, h, 43)
	assert.NotEqual(t, h, clientHash("ASWWYB", "other"))

	r, err := rememberMeHash(issuedToken, testSessionID)
	require.NoError(t, err)
	assert.Len(t, r, 11)

	_, err = rememberMeHash("%%%", testSessionID)
	assert.Error(t, err)
}

func TestMACSigner(t *testing.T) {
	key := randomKey(t, testSessionID)
	signer := newMACSigner(key, 41)

	u, err := url.Parse("https://my.1password.com:443/api/v1/account?attrs=a,b")
	require.NoError(t, err)
	assert.Equal(t, testSessionID+"|GET|my.1password.com/api/v1/account?attrs=a,b|v1|41", signer.message("get", u, 41))

	first := &adapter.Request{Method: http.MethodGet, URL: u.String()}
	second := &adapter.Request{Method: http.MethodGet, URL: u.String(), Headers: map[string]string{"A": "b"}}
	require.NoError(t, signer.sign(first))
	require.NoError(t, signer.sign(second))

	assert.True(t, strings.HasPrefix(first.Headers[macHeader], "v1|41|"))
	assert.True(t, strings.HasPrefix(second.Headers[macHeader], "v1|42|"))
	assert.Len(t, strings.Split(first.Headers[macHeader], "|")[2], 16)
	assert.Equal(t, "b", second.Headers["A"])
}

// ── Errors ───────────────────────────────────────────────────────────────────

func TestMapResponseError(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   error
		code   int
	}{
		{name: "authentication", status: 401, body: `{"errorCode":102,"errorMessage":"Authentication required"}`, want: app.ErrBadCredentials, code: 102},
		{name: "other code", status: 400, body: `{"errorCode":110,"errorMessage":"Invalid"}`, want: app.ErrInternal, code: 110},
		{name: "reason", status: 400, body: `{"reason":"deprecated client"}`, want: app.ErrInternal},
		{name: "gateway", status: 503, body: `<html>down</html>`, want: app.ErrNetwork},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := mapResponseError(&adapter.Response{RequestURL: "https://x/api/v1/auth", StatusCode: tt.status, Body: []byte(tt.body)})
			require.ErrorIs(t, err, tt.want)

			var e *app.Error
			require.ErrorAs(t, err, &e)
			assert.Equal(t, tt.code, e.ServerCode)
			assert.Equal(t, tt.status, e.StatusCode)
		})
	}
}

func TestSecondFactorError(t *testing.T) {
	err := secondFactorError(app.BadCredentials("x"))
	assert.ErrorIs(t, err, app.ErrBadMultiFactor)

	other := app.Internal("x", nil)
	assert.Same(t, other, secondFactorError(other))
}

func TestBaseURL(t *testing.T) {
	assert.Equal(t, "https://my.1password.com/api", baseURL(""))
	assert.Equal(t, "https://my.1password.eu/api", baseURL("my.1password.eu"))
	assert.Equal(t, "http://127.0.0.1:8080/api", baseURL("http://127.0.0.1:8080/"))
}
