package utils

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-redis/redis/v8"
)

// RememberedCredentials is what a remember-me token resolves to. The
// payload is AES-GCM encrypted at rest in Redis; holding Redis access
// alone must not leak account identities.
type RememberedCredentials struct {
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	UserID    string    `json:"userId"`
	ExpiresAt time.Time `json:"expiresAt"`
}

var errNoRedis = errors.New("redis not available")

// GenerateRememberMeToken returns a random opaque token for the client
func GenerateRememberMeToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(buf), nil
}

// rememberMeKey derives a 32-byte AES key from the configured secret
func rememberMeKey() []byte {
	secret := os.Getenv("REMEMBER_ME_ENCRYPTION_KEY")
	if secret == "" {
		secret = "insecure-dev-remember-me-key"
	}
	sum := sha256.Sum256([]byte(secret))
	return sum[:]
}

func sealCredentials(creds RememberedCredentials) (string, error) {
	plaintext, err := json.Marshal(creds)
	if err != nil {
		return "", err
	}

	block, err := aes.NewCipher(rememberMeKey())
	if err != nil {
		return "", err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}

	return base64.StdEncoding.EncodeToString(gcm.Seal(nonce, nonce, plaintext, nil)), nil
}

func openCredentials(sealed string) (*RememberedCredentials, error) {
	raw, err := base64.StdEncoding.DecodeString(sealed)
	if err != nil {
		return nil, err
	}

	block, err := aes.NewCipher(rememberMeKey())
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	if len(raw) < gcm.NonceSize() {
		return nil, errors.New("sealed credentials too short")
	}

	plaintext, err := gcm.Open(nil, raw[:gcm.NonceSize()], raw[gcm.NonceSize():], nil)
	if err != nil {
		return nil, err
	}

	var creds RememberedCredentials
	if err := json.Unmarshal(plaintext, &creds); err != nil {
		return nil, err
	}
	return &creds, nil
}

func rememberKey(token string) string {
	return "remember_me:" + token
}

// StoreRememberedCredentials encrypts and stores credentials under the token
func StoreRememberedCredentials(redisClient *redis.Client, token string, creds RememberedCredentials, ttl time.Duration) error {
	if redisClient == nil {
		return errNoRedis
	}

	sealed, err := sealCredentials(creds)
	if err != nil {
		return fmt.Errorf("failed to seal credentials: %w", err)
	}

	return redisClient.Set(context.Background(), rememberKey(token), sealed, ttl).Err()
}

// RetrieveRememberedCredentials resolves a token back into credentials
func RetrieveRememberedCredentials(redisClient *redis.Client, token string) (*RememberedCredentials, error) {
	if redisClient == nil {
		return nil, errNoRedis
	}

	ctx := context.Background()
	sealed, err := redisClient.Get(ctx, rememberKey(token)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, errors.New("remember me token not found or expired")
		}
		return nil, fmt.Errorf("redis error: %w", err)
	}

	creds, err := openCredentials(sealed)
	if err != nil {
		return nil, fmt.Errorf("failed to open credentials: %w", err)
	}

	if time.Now().After(creds.ExpiresAt) {
		redisClient.Del(ctx, rememberKey(token))
		return nil, errors.New("remember me token expired")
	}

	return creds, nil
}

// RemoveRememberedCredentials invalidates a token
func RemoveRememberedCredentials(redisClient *redis.Client, token string) error {
	if redisClient == nil {
		return errNoRedis
	}
	return redisClient.Del(context.Background(), rememberKey(token)).Err()
}
