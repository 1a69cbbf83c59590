// Package secrets owns the raw credential material used by the gateway.
// Secrets are read fresh on every request so key rotation takes effect
// immediately, and they are never logged or echoed back to callers.
package secrets

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
)

// Store resolves opaque credential references to secret material. Relative
// references resolve under the store's base directory.
type Store struct {
	baseDir string
}

// NewStore creates a store rooted at baseDir.
func NewStore(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) resolve(ref string) string {
	if filepath.IsAbs(ref) {
		return ref
	}
	return filepath.Join(s.baseDir, ref)
}

// Bearer reads a single-token secret file and returns the trimmed token.
func (s *Store) Bearer(ref string) (string, error) {
	path := s.resolve(ref)
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read secret %q: %w", ref, err)
	}
	token := strings.TrimSpace(string(data))
	if token == "" {
		return "", fmt.Errorf("secret %q is empty", ref)
	}
	return token, nil
}

// Profile reads an AWS-style shared-credentials bundle and returns the
// static credentials stored under the named profile.
func (s *Store) Profile(ctx context.Context, ref, profile string) (aws.Credentials, error) {
	path := s.resolve(ref)
	if _, err := os.Stat(path); err != nil {
		return aws.Credentials{}, fmt.Errorf("read credential bundle %q: %w", ref, err)
	}

	shared, err := config.LoadSharedConfigProfile(ctx, profile, func(o *config.LoadSharedConfigOptions) {
		o.CredentialsFiles = []string{path}
		o.ConfigFiles = []string{}
	})
	if err != nil {
		return aws.Credentials{}, fmt.Errorf("parse credential bundle %q profile %q: %w", ref, profile, err)
	}

	creds := shared.Credentials
	if creds.AccessKeyID == "" || creds.SecretAccessKey == "" {
		return aws.Credentials{}, fmt.Errorf("credential bundle %q profile %q has no access key pair", ref, profile)
	}
	return creds, nil
}
