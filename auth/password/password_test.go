package password

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func fastArgon2() *Argon2Hasher {
	return NewArgon2Hasher(WithArgon2Memory(1024), WithArgon2Threads(1))
}

func TestHashers_RoundTrip(t *testing.T) {
	hashers := map[string]Hasher{
		"bcrypt":   NewBcryptHasher(WithCost(bcrypt.MinCost)),
		"argon2id": fastArgon2(),
	}
	for name, h := range hashers {
		t.Run(name, func(t *testing.T) {
			hash, err := h.Hash("correct horse battery")
			require.NoError(t, err)
			assert.NotEqual(t, "correct horse battery", hash)

			assert.True(t, h.Verify("correct horse battery", hash))
			assert.False(t, h.Verify("wrong horse battery", hash))

			again, err := h.Hash("correct horse battery")
			require.NoError(t, err)
			assert.NotEqual(t, hash, again, "hashes must be salted")
		})
	}
}

func TestVerify_CrossAlgorithm(t *testing.T) {
	argonHash, err := fastArgon2().Hash("s3cret-password")
	require.NoError(t, err)
	bcryptHash, err := NewBcryptHasher(WithCost(bcrypt.MinCost)).Hash("s3cret-password")
	require.NoError(t, err)

	assert.True(t, NewBcryptHasher().Verify("s3cret-password", argonHash))
	assert.True(t, fastArgon2().Verify("s3cret-password", bcryptHash))
}

func TestVerify_MalformedHash(t *testing.T) {
	for _, hash := range []string{
		"",
		"plaintext",
		"$2a$04$short",
		"$argon2id$v=19$m=0,t=1,p=1$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=1024,t=1,p=0$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=1024,t=1,p=1$!!!$aGFzaA",
		"$argon2id$v=19$m=1024,t=1,p=1$c2FsdA$",
		"$argon2id$v=18$m=1024,t=1,p=1$c2FsdA$aGFzaA",
		"$argon2id$garbage",
	} {
		t.Run(hash, func(t *testing.T) {
			assert.NotPanics(t, func() {
				assert.False(t, Verify("anything-long", hash))
			})
		})
	}
}

func TestHash_LengthLimits(t *testing.T) {
	h := NewBcryptHasher(WithCost(bcrypt.MinCost), WithMinLength(10))

	_, err := h.Hash("short")
	assert.ErrorIs(t, err, ErrTooShort)

	_, err = h.Hash(strings.Repeat("x", 73))
	assert.ErrorIs(t, err, ErrTooLong)
}

func TestNewHasher_SelectsAlgorithm(t *testing.T) {
	assert.IsType(t, &BcryptHasher{}, NewHasher(Config{}))
	assert.IsType(t, &Argon2Hasher{}, NewHasher(Config{Algorithm: AlgorithmArgon2id}))
}

func TestConfig_Validate(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, AlgorithmBcrypt, cfg.Algorithm)
	assert.Equal(t, 12, cfg.BcryptCost)

	bad := cfg
	bad.Algorithm = "md5"
	assert.Error(t, bad.Validate())

	bad = cfg
	bad.BcryptCost = 40
	assert.ErrorContains(t, bad.Validate(), "auth.password.bcrypt_cost must be at most 31")
}

func TestGenerateToken(t *testing.T) {
	a, err := GenerateToken(16)
	require.NoError(t, err)
	b, err := GenerateToken(16)
	require.NoError(t, err)

	assert.Len(t, a, 32)
	assert.NotEqual(t, a, b)

	_, err = GenerateToken(0)
	assert.Error(t, err)
}
