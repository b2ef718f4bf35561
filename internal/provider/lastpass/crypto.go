// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package lastpass

import (
	"bytes"
	"crypto/rsa"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/MKhiriev/go-vault-access/internal/crypto"
	"github.com/MKhiriev/go-vault-access/internal/keychain"
	"github.com/MKhiriev/go-vault-access/internal/utils"
	"github.com/MKhiriev/go-vault-access/models"
)

const (
	keySize = 32

	privateKeyPrefix = "LastPassPrivateKey<"
	privateKeySuffix = ">LastPassPrivateKey"
)

// deriveKey is the root deriver. The username salts the password.
func deriveKey(params keychain.KDFParams, credential models.Credential) (*keychain.Key, error) {
	var key []byte
	if params.Iterations == 1 {
		key = crypto.SHA256Sum([]byte(credential.Username), []byte(credential.Password))
	} else {
		derived, err := crypto.PBKDF2(crypto.SHA256, []byte(credential.Password), params.Salt, params.Iterations, keySize)
		if err != nil {
			return nil, err
		}
		key = derived
	}

	return &keychain.Key{ID: keychain.MasterKeyID, Encryption: key}, nil
}

// loginHash is what login.php receives in place of the password.
func loginHash(key []byte, password string, iterations int) (string, error) {
	if iterations == 1 {
		return hex.EncodeToString(crypto.SHA256Sum([]byte(hex.EncodeToString(key)), []byte(password))), nil
	}

	hash, err := crypto.PBKDF2(crypto.SHA256, key, []byte(password), 1, keySize)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(hash), nil
}

// decryptPlain opens a binary field: "!" + iv + ciphertext is CBC,
// anything else is ECB.
func decryptPlain(data, key []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	if data[0] == '!' && len(data)%16 == 1 && len(data) > 32 {
		return crypto.DecryptAES256(crypto.CBC, crypto.PaddingPKCS7, key, data[1:17], data[17:])
	}
	return crypto.DecryptAES256(crypto.ECB, crypto.PaddingPKCS7, key, nil, data)
}

// decryptBase64 opens a text field: "!" + base64(iv) + "|" +
// base64(ciphertext) is CBC, plain base64 is ECB.
func decryptBase64(data, key []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	if data[0] == '!' {
		iv64, ct64, ok := bytes.Cut(data[1:], []byte("|"))
		if !ok {
			return nil, fmt.Errorf("%w: missing iv separator", crypto.ErrInvalidParameters)
		}
		iv, err := utils.DecodeBase64(string(iv64))
		if err != nil {
			return nil, err
		}
		ct, err := utils.DecodeBase64(string(ct64))
		if err != nil {
			return nil, err
		}
		return crypto.DecryptAES256(crypto.CBC, crypto.PaddingPKCS7, key, iv, ct)
	}

	ct, err := utils.DecodeBase64(string(data))
	if err != nil {
		return nil, err
	}
	return crypto.DecryptAES256(crypto.ECB, crypto.PaddingPKCS7, key, nil, ct)
}

func decryptString(data, key []byte) (string, error) {
	plain, err := decryptPlain(data, key)
	return string(plain), err
}

// decryptPrivateKey opens the privatekeyenc value of the login answer.
// The IV is the first half of the key.
func decryptPrivateKey(encryptedHex string, key []byte) (*rsa.PrivateKey, error) {
	encrypted, err := utils.DecodeHex(encryptedHex)
	if err != nil {
		return nil, err
	}

	plain, err := crypto.DecryptAES256(crypto.CBC, crypto.PaddingPKCS7, key, key[:16], encrypted)
	if err != nil {
		return nil, err
	}

	text := string(plain)
	if !strings.HasPrefix(text, privateKeyPrefix) || !strings.HasSuffix(text, privateKeySuffix) {
		return nil, errMalformedPrivateKey
	}

	der, err := utils.DecodeHex(text[len(privateKeyPrefix) : len(text)-len(privateKeySuffix)])
	if err != nil {
		return nil, err
	}

	return crypto.ParseRSAPrivateKey(der)
}
