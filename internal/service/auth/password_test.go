package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/fluentia/fluentia-api/internal/service/auth"
)

func TestBcryptVerifierCompare(t *testing.T) {
	t.Parallel()

	hash, err := bcrypt.GenerateFromPassword([]byte("correct horse battery"), bcrypt.MinCost)
	require.NoError(t, err)

	verifier := auth.NewBcryptVerifier()

	t.Run("matching password verifies", func(t *testing.T) {
		t.Parallel()
		assert.NoError(t, verifier.Compare(string(hash), "correct horse battery"))
	})

	t.Run("wrong password fails", func(t *testing.T) {
		t.Parallel()
		assert.Error(t, verifier.Compare(string(hash), "wrong password"))
	})

	t.Run("malformed hash fails", func(t *testing.T) {
		t.Parallel()
		assert.Error(t, verifier.Compare("not-a-bcrypt-hash", "anything"))
	})
}
