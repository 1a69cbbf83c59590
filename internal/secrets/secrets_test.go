package secrets

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBearer(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "provider.key"), []byte("sk-test-12345\n"), 0o600))
	store := NewStore(dir)

	t.Run("trims whitespace", func(t *testing.T) {
		token, err := store.Bearer("provider.key")
		require.NoError(t, err)
		assert.Equal(t, "sk-test-12345", token)
	})

	t.Run("absolute references bypass the base dir", func(t *testing.T) {
		token, err := store.Bearer(filepath.Join(dir, "provider.key"))
		require.NoError(t, err)
		assert.Equal(t, "sk-test-12345", token)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := store.Bearer("absent.key")
		assert.Error(t, err)
	})

	t.Run("empty file", func(t *testing.T) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "empty.key"), []byte("  \n"), 0o600))
		_, err := store.Bearer("empty.key")
		assert.Error(t, err)
	})
}

func TestBearerReadsFreshPerCall(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rotating.key")
	require.NoError(t, os.WriteFile(path, []byte("old-key"), 0o600))
	store := NewStore(dir)

	token, err := store.Bearer("rotating.key")
	require.NoError(t, err)
	assert.Equal(t, "old-key", token)

	require.NoError(t, os.WriteFile(path, []byte("new-key"), 0o600))
	token, err = store.Bearer("rotating.key")
	require.NoError(t, err)
	assert.Equal(t, "new-key", token, "rotated secrets must be visible on the next request")
}

func TestProfile(t *testing.T) {
	dir := t.TempDir()
	bundle := `[default]
aws_access_key_id = AKIAEXAMPLE
aws_secret_access_key = secret123

[prod]
aws_access_key_id = AKIAPROD
aws_secret_access_key = prodsecret
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "aws.credentials"), []byte(bundle), 0o600))
	store := NewStore(dir)
	ctx := context.Background()

	t.Run("default profile", func(t *testing.T) {
		creds, err := store.Profile(ctx, "aws.credentials", "default")
		require.NoError(t, err)
		assert.Equal(t, "AKIAEXAMPLE", creds.AccessKeyID)
		assert.Equal(t, "secret123", creds.SecretAccessKey)
	})

	t.Run("named profile", func(t *testing.T) {
		creds, err := store.Profile(ctx, "aws.credentials", "prod")
		require.NoError(t, err)
		assert.Equal(t, "AKIAPROD", creds.AccessKeyID)
	})

	t.Run("missing profile", func(t *testing.T) {
		_, err := store.Profile(ctx, "aws.credentials", "staging")
		assert.Error(t, err)
	})

	t.Run("missing bundle", func(t *testing.T) {
		_, err := store.Profile(ctx, "absent.credentials", "default")
		assert.Error(t, err)
	})
}
