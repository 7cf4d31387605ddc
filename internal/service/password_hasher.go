package service

import (
	"encoding/base64"

	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/arqon-study-api/pkg/config"
)

// legacySalt is the suffix the browser client appended before base64 encoding.
const legacySalt = "arqon_salt"

// PasswordHasher encodes and verifies account passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(encoded, password string) bool
}

// NewPasswordHasher returns the hasher for the configured scheme.
func NewPasswordHasher(scheme string) PasswordHasher {
	if scheme == config.PasswordLegacy {
		return legacyHasher{}
	}
	return bcryptHasher{cost: bcrypt.DefaultCost}
}

type bcryptHasher struct {
	cost int
}

func (h bcryptHasher) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (h bcryptHasher) Verify(encoded, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(encoded), []byte(password)) == nil
}

// legacyHasher reproduces the reversible browser encoding so imported accounts
// keep working. It is not a hash and must not protect real credentials.
// Verification also accepts bcrypt hashes written after a scheme switch.
type legacyHasher struct{}

func (legacyHasher) Hash(password string) (string, error) {
	return encodeLegacy(password), nil
}

func (legacyHasher) Verify(encoded, password string) bool {
	if encoded == encodeLegacy(password) {
		return true
	}
	return bcrypt.CompareHashAndPassword([]byte(encoded), []byte(password)) == nil
}

func encodeLegacy(password string) string {
	return base64.StdEncoding.EncodeToString([]byte(password + legacySalt))
}
