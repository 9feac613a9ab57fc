package session

import (
	"crypto/rand"
	"encoding/base64"
	"strconv"
	"time"
)

// newToken generates an opaque session token from 24 random bytes plus a
// base-36 clock component, large enough that collisions and guessing are
// not a practical concern.
func newToken() (string, error) {
	b := make([]byte, 24)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b) + strconv.FormatInt(time.Now().UnixNano(), 36), nil
}
