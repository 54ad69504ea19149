// utils/otp.go
package utils

import (
	"context"
	"crypto/rand"
	"encoding/base32"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
)

const (
	otpLength        = 6
	otpAttemptLimit  = 5
	otpAttemptWindow = time.Hour
)

var ErrTooManyOTPAttempts = errors.New("too many OTP attempts")

// GenerateSecureOTP produces a 6-character one-time code drawn from the
// base32 alphabet, sourced from crypto/rand
func GenerateSecureOTP() (string, error) {
	raw := make([]byte, otpLength)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	return base32.StdEncoding.EncodeToString(raw)[:otpLength], nil
}

func otpAttemptsKey(userID string) string {
	return "otp_attempts:" + userID
}

// ValidateOTPAttempts counts verification attempts per user in Redis and
// rejects once the hourly limit is hit. With no Redis the check is skipped
// so sign-in keeps working.
func ValidateOTPAttempts(userID string, redisClient *redis.Client) error {
	if redisClient == nil {
		return nil
	}

	ctx := context.Background()
	key := otpAttemptsKey(userID)

	attempts, err := redisClient.Incr(ctx, key).Result()
	if err != nil {
		return err
	}
	if attempts == 1 {
		redisClient.Expire(ctx, key, otpAttemptWindow)
	}
	if attempts > otpAttemptLimit {
		return ErrTooManyOTPAttempts
	}
	return nil
}
