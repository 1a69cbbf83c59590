package providers

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"

	"vanity_gateway/internal/gateway"
	"vanity_gateway/internal/registry"
)

// DefaultTimeout bounds every outbound provider call so one hanging
// upstream cannot stall the dispatcher.
const DefaultTimeout = 30 * time.Second

// DefaultTemperature is applied when the caller does not set one.
const DefaultTemperature = 0.7

// Result is an adapter's reply, already in the canonical wire shape. The
// forwarding adapter passes the upstream status through; SDK-backed
// adapters always report 200 on success.
type Result struct {
	StatusCode int
	Body       []byte
}

// Adapter sends one canonical chat request to one backend. An adapter is
// built per request, scoped to that request's descriptor and credential,
// and is never reused.
type Adapter interface {
	Kind() registry.Kind
	Send(ctx context.Context, req *gateway.ChatRequest) (*Result, error)
}

// Credential is the secret material handed to an adapter at construction.
// Exactly one field is populated, matching the descriptor's kind.
type Credential struct {
	// Token is the provider bearer token (forward and openai kinds).
	Token string
	// AWS holds the static key pair from a credential profile bundle
	// (bedrock kind).
	AWS aws.Credentials
}

// Creator builds an adapter for one request.
type Creator func(desc registry.Descriptor, cred Credential, timeout time.Duration) (Adapter, error)

// Factory maps descriptor kinds to adapter constructors.
type Factory struct {
	timeout  time.Duration
	creators map[registry.Kind]Creator
}

// NewFactory returns a factory with the built-in adapter kinds registered.
// A zero timeout selects DefaultTimeout.
func NewFactory(timeout time.Duration) *Factory {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	f := &Factory{
		timeout:  timeout,
		creators: make(map[registry.Kind]Creator),
	}
	f.Register(registry.KindForward, NewForwardAdapter)
	f.Register(registry.KindOpenAI, NewOpenAIAdapter)
	f.Register(registry.KindBedrock, NewBedrockAdapter)
	return f
}

// Register installs a creator for a kind, replacing any existing one.
func (f *Factory) Register(kind registry.Kind, creator Creator) {
	f.creators[kind] = creator
}

// New builds the adapter matching the descriptor's kind.
func (f *Factory) New(desc registry.Descriptor, cred Credential) (Adapter, error) {
	creator, ok := f.creators[desc.Kind]
	if !ok {
		return nil, gateway.NewError(gateway.KindUnexpected, "no adapter registered for kind %q", desc.Kind)
	}
	return creator(desc, cred, f.timeout)
}
