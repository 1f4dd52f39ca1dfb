package config

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPasswordConfig(t *testing.T) {
	tests := []struct {
		name       string
		bcryptCost string
		pepper     string
		wantCost   int
		wantErr    bool
	}{
		{"default cost", "", "", 12, false},
		{"boundary cost 10", "10", "", 10, false},
		{"boundary cost 14", "14", "", 14, false},
		{"with pepper", "11", "test-pepper", 11, false},
		{"cost 9 rejected", "9", "", 0, true},
		{"cost 15 rejected", "15", "", 0, true},
		{"non-numeric cost", "invalid", "", 0, true},
		{"float cost", "12.5", "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("BCRYPT_COST", tt.bcryptCost)
			t.Setenv("PASSWORD_PEPPER", tt.pepper)

			cfg, err := NewPasswordConfig()
			if tt.wantErr {
				require.Error(t, err)
				assert.Nil(t, cfg)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantCost, cfg.BcryptCost)
			assert.Equal(t, tt.pepper, cfg.Pepper)
		})
	}
}

func TestPasswordConfig_HashAndVerify(t *testing.T) {
	cfg := &PasswordConfig{BcryptCost: 10}

	hash, err := cfg.HashPassword("Secret#123")
	require.NoError(t, err)
	assert.NotEqual(t, "Secret#123", hash)

	assert.True(t, cfg.VerifyPassword("Secret#123", hash))
	assert.False(t, cfg.VerifyPassword("secret#123", hash))
	assert.False(t, cfg.VerifyPassword("Secret#123", "not-a-hash"))
}

func TestPasswordConfig_PepperChangesHash(t *testing.T) {
	plain := &PasswordConfig{BcryptCost: 10}
	peppered := &PasswordConfig{BcryptCost: 10, Pepper: "pepper"}

	hash, err := peppered.HashPassword("Secret#123")
	require.NoError(t, err)

	assert.True(t, peppered.VerifyPassword("Secret#123", hash))
	assert.False(t, plain.VerifyPassword("Secret#123", hash))
}

func TestCheckStrength(t *testing.T) {
	tests := []struct {
		name     string
		password string
		problems int
		contains string
	}{
		{"strong", "Placify@2025", 0, ""},
		{"empty", "", 1, "required"},
		{"too short", "Ab1@", 1, "at least 8"},
		{"no uppercase", "placify@2025", 1, "uppercase"},
		{"no lowercase", "PLACIFY@2025", 1, "lowercase"},
		{"no digit", "Placify@abcd", 1, "number"},
		{"no special", "Placify2025", 1, "special"},
		{"common", "Password1!", 1, "too common"},
		{"too long", "Aa1@" + strings.Repeat("a", 61), 1, "at most"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			problems := CheckStrength(tt.password)
			assert.Len(t, problems, tt.problems, "%v", problems)
			if tt.contains != "" {
				require.NotEmpty(t, problems)
				assert.Contains(t, problems[0], tt.contains)
			}
		})
	}
}
