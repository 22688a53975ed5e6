package config

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPasswordConfig(t *testing.T, pepper string) *PasswordConfig {
	t.Helper()
	t.Setenv("BCRYPT_COST", "10")
	t.Setenv("PASSWORD_PEPPER", pepper)
	cfg, err := NewPasswordConfig()
	require.NoError(t, err)
	return cfg
}

func TestNewPasswordConfig(t *testing.T) {
	tests := []struct {
		name       string
		bcryptCost string
		pepper     string
		wantCost   int
		wantErr    bool
	}{
		{name: "default cost", bcryptCost: "", wantCost: 12},
		{name: "valid cost", bcryptCost: "11", wantCost: 11},
		{name: "cost too low", bcryptCost: "9", wantErr: true},
		{name: "cost too high", bcryptCost: "15", wantErr: true},
		{name: "invalid cost", bcryptCost: "invalid", wantErr: true},
		{name: "with pepper", bcryptCost: "12", pepper: "test-pepper", wantCost: 12},
		{name: "pepper too long", bcryptCost: "12", pepper: strings.Repeat("p", 64), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("BCRYPT_COST", tt.bcryptCost)
			t.Setenv("PASSWORD_PEPPER", tt.pepper)

			cfg, err := NewPasswordConfig()
			if tt.wantErr {
				assert.Error(t, err)
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
	cfg := testPasswordConfig(t, "")

	hash, err := cfg.HashPassword("test-password-123")
	require.NoError(t, err)
	assert.NotEmpty(t, hash)

	hash2, err := cfg.HashPassword("test-password-123")
	require.NoError(t, err)
	assert.NotEqual(t, hash, hash2, "bcrypt salts every hash")

	assert.True(t, cfg.VerifyPassword("test-password-123", hash))
	assert.False(t, cfg.VerifyPassword("wrong-password", hash))
	assert.False(t, cfg.VerifyPassword("test-password-123", ""), "an unset password never verifies")
}

func TestPasswordConfig_Pepper(t *testing.T) {
	peppered := testPasswordConfig(t, "server-secret")
	hash, err := peppered.HashPassword("password123")
	require.NoError(t, err)
	assert.True(t, peppered.VerifyPassword("password123", hash))

	plain := testPasswordConfig(t, "")
	assert.False(t, plain.VerifyPassword("password123", hash), "a different pepper must not verify")

	rotated := testPasswordConfig(t, "rotated-secret")
	assert.False(t, rotated.VerifyPassword("password123", hash))
}

func TestPasswordConfig_ValidatePassword(t *testing.T) {
	cfg := testPasswordConfig(t, "pepper")

	assert.Error(t, cfg.ValidatePassword("short"))
	assert.NoError(t, cfg.ValidatePassword("12345678"))
	assert.NoError(t, cfg.ValidatePassword(strings.Repeat("a", 72-len("pepper"))))
	assert.Error(t, cfg.ValidatePassword(strings.Repeat("a", 72-len("pepper")+1)))
}

func TestPasswordConfig_NeedsRehash(t *testing.T) {
	cfg := testPasswordConfig(t, "")
	hash, err := cfg.HashPassword("password123")
	require.NoError(t, err)
	assert.False(t, cfg.NeedsRehash(hash))

	stronger := &PasswordConfig{BcryptCost: 11}
	assert.True(t, stronger.NeedsRehash(hash))
	assert.False(t, stronger.NeedsRehash("not-a-bcrypt-hash"))
}

func TestPasswordConfig_ConcurrentAccess(t *testing.T) {
	cfg := testPasswordConfig(t, "")
	hash, err := cfg.HashPassword("password123")
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.True(t, cfg.VerifyPassword("password123", hash))
		}()
	}
	wg.Wait()
}
