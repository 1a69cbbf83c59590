package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"vanity_gateway/internal/gateway"
	"vanity_gateway/internal/registry"
)

// forwardAdapter relays the canonical payload to an OpenAI-compatible
// endpoint over plain HTTP and passes the reply through verbatim, status
// code included.
type forwardAdapter struct {
	desc   registry.Descriptor
	token  string
	client *http.Client
}

// NewForwardAdapter builds a raw HTTP passthrough adapter.
func NewForwardAdapter(desc registry.Descriptor, cred Credential, timeout time.Duration) (Adapter, error) {
	if desc.Endpoint == "" {
		return nil, gateway.NewError(gateway.KindUnexpected, "forward provider %q has no endpoint", desc.Nickname)
	}
	return &forwardAdapter{
		desc:  desc,
		token: cred.Token,
		client: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

func (a *forwardAdapter) Kind() registry.Kind { return registry.KindForward }

func (a *forwardAdapter) Send(ctx context.Context, req *gateway.ChatRequest) (*Result, error) {
	body, err := json.Marshal(req.Payload())
	if err != nil {
		return nil, gateway.WrapError(gateway.KindUnexpected, err, "encoding payload for %q", a.desc.Nickname)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, a.desc.Endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, gateway.WrapError(gateway.KindUnexpected, err, "building request for %q", a.desc.Nickname)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", fmt.Sprintf("Bearer %s", a.token))

	resp, err := a.client.Do(httpReq)
	if err != nil {
		return nil, gateway.WrapError(gateway.KindUpstreamNetwork, err, "calling %q", a.desc.Nickname)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, gateway.WrapError(gateway.KindUpstreamNetwork, err, "reading reply from %q", a.desc.Nickname)
	}
	if !json.Valid(respBody) {
		return nil, gateway.NewError(gateway.KindUpstreamNonJSON, "provider %q returned a non-JSON body", a.desc.Nickname)
	}

	return &Result{StatusCode: resp.StatusCode, Body: respBody}, nil
}
