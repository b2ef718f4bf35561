// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"errors"
	"fmt"
)

// ErrCrypto is the root of every error returned by this package.
var ErrCrypto = errors.New("crypto error")

var (
	ErrInvalidKeySize     = fmt.Errorf("%w: invalid key size", ErrCrypto)
	ErrInvalidIVSize      = fmt.Errorf("%w: invalid iv size", ErrCrypto)
	ErrInvalidInputSize   = fmt.Errorf("%w: input is not a multiple of the block size", ErrCrypto)
	ErrInvalidPadding     = fmt.Errorf("%w: invalid padding", ErrCrypto)
	ErrAuthentication     = fmt.Errorf("%w: authentication tag mismatch", ErrCrypto)
	ErrInvalidParameters  = fmt.Errorf("%w: invalid parameters", ErrCrypto)
	ErrInvalidRSAKey      = fmt.Errorf("%w: invalid rsa key", ErrCrypto)
	ErrRSADecryption      = fmt.Errorf("%w: rsa decryption failed", ErrCrypto)
	ErrUnsupportedHash    = fmt.Errorf("%w: unsupported hash", ErrCrypto)
	ErrRandomSourceFailed = fmt.Errorf("%w: random source failed", ErrCrypto)
)
