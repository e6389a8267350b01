package utils

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"math/big"
	"strconv"
	"time"
)

// otpSpan covers the 6-digit decimal range [100000, 999999].
const (
	otpMin  = 100000
	otpSpan = 900000
)

// GenerateOTP returns a uniformly random 6-digit one-time code.
func GenerateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(otpSpan))
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(n.Int64()+otpMin, 10), nil
}

// NewSessionToken derives an opaque token from the email and the current
// time. It is not a credential: no endpoint verifies it, it only has to be
// distinct across logins, which the nanosecond timestamp guarantees.
func NewSessionToken(email string) string {
	raw := fmt.Sprintf("%s_%d", email, time.Now().UTC().UnixNano())
	return base64.StdEncoding.EncodeToString([]byte(raw))
}
