package config

import (
	"strconv"
	"time"

	"golang.org/x/crypto/bcrypt"
)

type SecurityConfig interface {
	GetBcryptCost() int
	GetResetTokenExpiry() time.Duration
	GetLoginRatePerMinute() int
	GetLoginRateBurst() int
}

type Security struct {
	bcryptCost       int
	resetTokenExpiry time.Duration
	loginRate        int
	loginBurst       int
}

var _ SecurityConfig = Security{}

func loadSecurity() Security {
	return Security{
		bcryptCost:       intEnv("BCRYPT_COST", bcrypt.DefaultCost),
		resetTokenExpiry: durationEnv("RESET_TOKEN_EXPIRY", 1*time.Hour),
		loginRate:        intEnv("LOGIN_RATE_PER_MINUTE", 10),
		loginBurst:       intEnv("LOGIN_RATE_BURST", 10),
	}
}

func (s Security) GetBcryptCost() int {
	return s.bcryptCost
}

func (s Security) GetResetTokenExpiry() time.Duration {
	return s.resetTokenExpiry
}

func (s Security) GetLoginRatePerMinute() int {
	return s.loginRate
}

func (s Security) GetLoginRateBurst() int {
	return s.loginBurst
}

func intEnv(envVar string, defaultValue int) int {
	raw := GetEnv(envVar, "")
	if raw == "" {
		return defaultValue
	}
	if v, err := strconv.Atoi(raw); err == nil {
		return v
	}
	return defaultValue
}
