package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeRegistry(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

const validJSON = `{
	"providers": {
		"groq-fast": {
			"kind": "forward",
			"endpoint": "https://api.groq.com/openai/v1/chat/completions",
			"model": "openai/gpt-oss-20b",
			"key_path": "Groq.key"
		},
		"openai-gpt4": {
			"kind": "openai",
			"endpoint": "https://api.openai.com/v1",
			"model": "gpt-4o",
			"key_path": "openai.key"
		},
		"claude-aws": {
			"kind": "bedrock",
			"model": "anthropic.claude-3-sonnet-20240229-v1:0",
			"key_path": "aws.credentials",
			"region": "eu-west-1",
			"profile": "prod"
		}
	}
}`

func TestLoadJSON(t *testing.T) {
	snap, err := Load(writeRegistry(t, "registry.json", validJSON))
	require.NoError(t, err)
	assert.Equal(t, 3, snap.Len())

	d, ok := snap.Lookup("groq-fast")
	require.True(t, ok)
	assert.Equal(t, KindForward, d.Kind)
	assert.Equal(t, "openai/gpt-oss-20b", d.Model)
	assert.Equal(t, "groq-fast", d.Nickname)

	d, ok = snap.Lookup("claude-aws")
	require.True(t, ok)
	assert.Equal(t, KindBedrock, d.Kind)
	assert.Equal(t, "eu-west-1", d.Region)
	assert.Equal(t, "prod", d.Profile)
}

func TestLoadYAML(t *testing.T) {
	content := `
providers:
  local-lmstudio:
    kind: openai
    endpoint: http://localhost:1234/v1
    model: gpt-oss-20b
    key_path: lmstudio.key
  claude-aws:
    kind: bedrock
    model: anthropic.claude-3-haiku-20240307-v1:0
    key_path: aws.credentials
`
	snap, err := Load(writeRegistry(t, "registry.yaml", content))
	require.NoError(t, err)
	assert.Equal(t, 2, snap.Len())

	d, ok := snap.Lookup("claude-aws")
	require.True(t, ok)
	assert.Equal(t, DefaultRegion, d.Region)
	assert.Equal(t, DefaultProfile, d.Profile)
}

func TestLookupIsCaseSensitive(t *testing.T) {
	snap, err := Load(writeRegistry(t, "registry.json", validJSON))
	require.NoError(t, err)

	_, ok := snap.Lookup("Groq-Fast")
	assert.False(t, ok, "nickname lookup must be case-sensitive")
	_, ok = snap.Lookup("unknown-provider")
	assert.False(t, ok)
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "missing file is an error",
			content: "",
		},
		{
			name:    "no providers",
			content: `{"providers": {}}`,
		},
		{
			name:    "unknown kind",
			content: `{"providers": {"p": {"kind": "grpc", "endpoint": "http://x", "model": "m", "key_path": "k"}}}`,
		},
		{
			name:    "forward without endpoint",
			content: `{"providers": {"p": {"kind": "forward", "model": "m", "key_path": "k"}}}`,
		},
		{
			name:    "openai without endpoint",
			content: `{"providers": {"p": {"kind": "openai", "model": "m", "key_path": "k"}}}`,
		},
		{
			name:    "bedrock with endpoint",
			content: `{"providers": {"p": {"kind": "bedrock", "endpoint": "http://x", "model": "m", "key_path": "k"}}}`,
		},
		{
			name:    "missing model",
			content: `{"providers": {"p": {"kind": "forward", "endpoint": "http://x", "key_path": "k"}}}`,
		},
		{
			name:    "missing key_path",
			content: `{"providers": {"p": {"kind": "forward", "endpoint": "http://x", "model": "m"}}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var path string
			if tt.content == "" {
				path = filepath.Join(t.TempDir(), "absent.json")
			} else {
				path = writeRegistry(t, "registry.json", tt.content)
			}
			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}

func TestNicknamesSorted(t *testing.T) {
	snap, err := Load(writeRegistry(t, "registry.json", validJSON))
	require.NoError(t, err)
	assert.Equal(t, []string{"claude-aws", "groq-fast", "openai-gpt4"}, snap.Nicknames())
}
