package cryptox

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"math/big"
	"strconv"
)

// GenerateOTP returns a six digit numeric one-time code drawn from
// crypto/rand. The first digit is never zero so the code survives any
// string/integer round trip intact.
func GenerateOTP() (string, error) {
	// Uniform in [100000, 999999].
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(n.Int64()+100000, 10), nil
}

// FingerprintToken returns the SHA-256 digest of a token in unpadded
// base64url. Stores hold fingerprints instead of raw secrets; lookups and
// comparisons work on the fingerprint alone.
func FingerprintToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}
