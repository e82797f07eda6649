// Package token issues the bearer tokens handed out by the token exchange and
// the stateless confirmation codes mailed during signup.
package token

import (
	"crypto/sha256"
	"io"

	"golang.org/x/crypto/hkdf"
)

const (
	PurposeAccessToken      = "yamdb/access-token"
	PurposeConfirmationCode = "yamdb/confirmation-code"
)

// DeriveKey expands the application secret into a 32 byte key bound to purpose,
// so the JWT signer and the confirmation codes never share key material.
func DeriveKey(secret, purpose string) []byte {
	key := make([]byte, 32)
	r := hkdf.New(sha256.New, []byte(secret), nil, []byte(purpose))
	if _, err := io.ReadFull(r, key); err != nil {
		// hkdf only fails after 255*32 bytes of output
		panic(err)
	}
	return key
}
