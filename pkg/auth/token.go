package auth

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

var (
	ErrTokenInvalid = errors.New("access token is invalid")
	ErrTokenExpired = errors.New("access token has expired")
)

// Sealer issues and verifies opaque access tokens. A token is an AES-GCM
// sealed "user_id:role:expiry_unix" tuple; possession of a token that opens
// under the service key is the whole proof of session validity, so the key
// must be shared by every instance that verifies tokens.
type Sealer struct {
	gcm cipher.AEAD
	ttl time.Duration
}

// NewSealer builds a Sealer from a base64 standard-encoded 32-byte key.
// The key comes from configuration at service construction, never from a
// package-level constant.
func NewSealer(base64Key string, ttl time.Duration) (*Sealer, error) {
	key, err := base64.StdEncoding.DecodeString(base64Key)
	if err != nil {
		return nil, fmt.Errorf("token key is not valid base64: %w", err)
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("token key must be 32 bytes, got %d", len(key))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	return &Sealer{gcm: gcm, ttl: ttl}, nil
}

func (s *Sealer) IssueToken(userID, role string) (string, error) {
	expiry := time.Now().Add(s.ttl).Unix()
	plaintext := []byte(userID + ":" + role + ":" + strconv.FormatInt(expiry, 10))

	nonce := make([]byte, s.gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}

	ct := s.gcm.Seal(nonce, nonce, plaintext, nil)
	return base64.RawURLEncoding.EncodeToString(ct), nil
}

func (s *Sealer) ParseToken(token string) (Identity, error) {
	data, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return Identity{}, ErrTokenInvalid
	}

	nonceSize := s.gcm.NonceSize()
	if len(data) < nonceSize {
		return Identity{}, ErrTokenInvalid
	}

	plaintext, err := s.gcm.Open(nil, data[:nonceSize], data[nonceSize:], nil)
	if err != nil {
		return Identity{}, ErrTokenInvalid
	}

	parts := strings.Split(string(plaintext), ":")
	if len(parts) != 3 {
		return Identity{}, ErrTokenInvalid
	}

	expiry, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil {
		return Identity{}, ErrTokenInvalid
	}
	if time.Now().Unix() > expiry {
		return Identity{}, ErrTokenExpired
	}

	return Identity{UserID: parts[0], Role: parts[1]}, nil
}
