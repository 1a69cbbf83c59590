package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Kind selects which adapter a provider entry is dispatched through.
type Kind string

const (
	// KindForward relays the payload near-verbatim over raw HTTP to an
	// already OpenAI-compatible endpoint.
	KindForward Kind = "forward"
	// KindOpenAI drives the provider through an endpoint-scoped chat SDK
	// client.
	KindOpenAI Kind = "openai"
	// KindBedrock invokes a cloud-hosted model through the AWS SDK; the
	// endpoint is resolved from model id and region.
	KindBedrock Kind = "bedrock"
)

// DefaultRegion is used by bedrock entries that do not set one.
const DefaultRegion = "us-east-1"

// DefaultProfile names the credential profile used when an entry does not
// pick one explicitly.
const DefaultProfile = "default"

// Descriptor describes how to reach and authenticate to one backend.
// KeyPath is an opaque reference into the credential store; the secret
// itself is resolved lazily, per request.
type Descriptor struct {
	Nickname string `json:"-" yaml:"-"`
	Kind     Kind   `json:"kind" yaml:"kind"`
	Endpoint string `json:"endpoint,omitempty" yaml:"endpoint,omitempty"`
	Model    string `json:"model" yaml:"model"`
	KeyPath  string `json:"key_path" yaml:"key_path"`
	Profile  string `json:"profile,omitempty" yaml:"profile,omitempty"`
	Region   string `json:"region,omitempty" yaml:"region,omitempty"`
}

// Snapshot is one immutable view of the configured providers. A request
// resolves against a single snapshot for its whole lifetime; concurrent
// reloads produce new snapshots instead of mutating this one.
type Snapshot struct {
	providers map[string]Descriptor
}

// Lookup resolves a nickname. Nicknames are case-sensitive and an unknown
// one is always an error, never a default.
func (s *Snapshot) Lookup(nickname string) (Descriptor, bool) {
	d, ok := s.providers[nickname]
	return d, ok
}

// Nicknames returns the configured routing keys in sorted order.
func (s *Snapshot) Nicknames() []string {
	names := make([]string, 0, len(s.providers))
	for name := range s.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of configured providers.
func (s *Snapshot) Len() int {
	return len(s.providers)
}

type document struct {
	Providers map[string]Descriptor `json:"providers" yaml:"providers"`
}

// Load reads and validates a provider registry document. The format is
// chosen by file extension: .yaml/.yml parse as YAML, anything else as JSON.
func Load(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read registry %q: %w", path, err)
	}

	var doc document
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parse registry %q: %w", path, err)
		}
	default:
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parse registry %q: %w", path, err)
		}
	}

	if len(doc.Providers) == 0 {
		return nil, fmt.Errorf("registry %q: no providers configured", path)
	}

	providers := make(map[string]Descriptor, len(doc.Providers))
	for nickname, desc := range doc.Providers {
		desc.Nickname = nickname
		if err := validate(desc); err != nil {
			return nil, fmt.Errorf("registry %q: provider %q: %w", path, nickname, err)
		}
		if desc.Kind == KindBedrock {
			if desc.Region == "" {
				desc.Region = DefaultRegion
			}
			if desc.Profile == "" {
				desc.Profile = DefaultProfile
			}
		}
		providers[nickname] = desc
	}

	return &Snapshot{providers: providers}, nil
}

func validate(d Descriptor) error {
	if strings.TrimSpace(d.Nickname) == "" {
		return fmt.Errorf("nickname must not be empty")
	}
	if strings.TrimSpace(d.Model) == "" {
		return fmt.Errorf("model must be set")
	}
	if strings.TrimSpace(d.KeyPath) == "" {
		return fmt.Errorf("key_path must be set")
	}

	switch d.Kind {
	case KindForward, KindOpenAI:
		if strings.TrimSpace(d.Endpoint) == "" {
			return fmt.Errorf("endpoint is required for kind %q", d.Kind)
		}
	case KindBedrock:
		if d.Endpoint != "" {
			return fmt.Errorf("endpoint must not be set for kind %q (resolved from model and region)", d.Kind)
		}
	default:
		return fmt.Errorf("unknown kind %q (want %q, %q or %q)", d.Kind, KindForward, KindOpenAI, KindBedrock)
	}

	return nil
}
