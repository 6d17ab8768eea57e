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

const otpTTL = 10 * time.Minute

func GenerateSecureOTP() (string, error) {
	// Generate 6 random bytes
	bytes := make([]byte, 6)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}

	// Convert to base32 string
	return base32.StdEncoding.EncodeToString(bytes)[:6], nil
}

// StorePasswordResetOTP stores the OTP for an email with a short TTL
func StorePasswordResetOTP(rdb *redis.Client, email, otp string) error {
	if rdb == nil {
		return errors.New("redis is not available")
	}
	return rdb.Set(context.Background(), "password_reset_otp:"+email, otp, otpTTL).Err()
}

// VerifyPasswordResetOTP checks the OTP for an email and consumes it on success
func VerifyPasswordResetOTP(rdb *redis.Client, email, otp string) error {
	if rdb == nil {
		return errors.New("redis is not available")
	}

	key := "password_reset_otp:" + email
	stored, err := rdb.Get(context.Background(), key).Result()
	if err == redis.Nil {
		return errors.New("OTP expired or not requested")
	}
	if err != nil {
		return err
	}
	if stored != otp {
		return errors.New("invalid OTP")
	}

	rdb.Del(context.Background(), key)
	return nil
}

// ValidateOTPAttempts limits OTP verification attempts per user
func ValidateOTPAttempts(userID string, rdb *redis.Client) error {
	if rdb == nil {
		return nil
	}

	key := "otp_attempts:" + userID
	attempts, err := rdb.Incr(context.Background(), key).Result()
	if err != nil {
		return err
	}

	// Set expiry if first attempt
	if attempts == 1 {
		rdb.Expire(context.Background(), key, 1*time.Hour)
	}

	// Limit to 5 attempts per hour
	if attempts > 5 {
		return errors.New("too many OTP attempts")
	}

	return nil
}
