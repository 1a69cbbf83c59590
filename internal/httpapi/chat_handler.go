package httpapi

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"vanity_gateway/internal/gateway"
	"vanity_gateway/internal/providers"
	"vanity_gateway/internal/registry"
)

// handleChat is the entry point for chat completions.
//
// Flow:
//  1. Authenticate the caller via Bearer gateway key
//  2. Require the nickname routing key
//  3. Resolve the nickname against the registry snapshot
//  4. Load the provider credential for this request
//  5. Decode and validate the JSON body
//  6. Overwrite the model from the descriptor
//  7. Merge coerced query parameters over the body
//  8. Build the adapter and send
//  9. Relay the canonical result
func (d *Dependencies) handleChat(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	reqID := newRequestID()
	ctx := r.Context()
	w.Header().Set("X-Request-Id", reqID)

	var desc registry.Descriptor
	status := http.StatusOK
	defer func() {
		if d.Metrics != nil {
			d.Metrics.ObserveRequest(desc.Nickname, string(desc.Kind), status, time.Since(start))
		}
	}()

	fail := func(gwErr *gateway.Error) {
		status = gwErr.HTTPStatus()
		d.Logger.Warn("request rejected", "request_id", reqID, "nickname", desc.Nickname, "kind", gwErr.Kind, "status", status)
		writeGatewayError(w, gwErr)
	}

	// 1. Auth via "Authorization: Bearer <gateway key>"
	if err := d.authenticate(r); err != nil {
		fail(err)
		return
	}

	// 2. Routing key
	nickname := r.URL.Query().Get("nickname")
	if nickname == "" {
		fail(gateway.NewError(gateway.KindMissingRoutingKey, "query parameter 'nickname' is required"))
		return
	}

	// 3. Registry lookup against one consistent snapshot
	snapshot := d.Registry.Snapshot()
	var ok bool
	desc, ok = snapshot.Lookup(nickname)
	if !ok {
		desc = registry.Descriptor{Nickname: nickname}
		fail(gateway.NewError(gateway.KindUnknownProvider, "no provider registered under nickname %q", nickname))
		return
	}

	// 4. Credential load, fresh for this request
	cred, gwErr := d.loadCredential(r, desc)
	if gwErr != nil {
		fail(gwErr)
		return
	}

	// 5. Decode and validate body
	var req gateway.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		fail(gateway.WrapError(gateway.KindMalformedRequest, err, "request body is not a valid chat request"))
		return
	}
	if gwErr := req.Validate(); gwErr != nil {
		fail(gwErr)
		return
	}

	// 6. The descriptor owns model selection; a body model is discarded.
	req.Model = desc.Model

	// 7. Query parameters override same-named body fields.
	req.MergeParams(gateway.CoerceParams(r.URL.Query(), "nickname"))

	// 8. One adapter per request
	adapter, err := d.Factory.New(desc, cred)
	if err != nil {
		fail(asGatewayError(err))
		return
	}

	ctx, span := d.tracer.Start(ctx, "provider.send", trace.WithAttributes(
		attribute.String("provider.nickname", desc.Nickname),
		attribute.String("provider.kind", string(desc.Kind)),
		attribute.String("provider.model", desc.Model),
	))
	result, err := adapter.Send(ctx, &req)
	if err != nil {
		span.RecordError(err)
		span.End()
		fail(asGatewayError(err))
		return
	}
	span.End()

	// 9. Relay
	status = result.StatusCode
	d.Logger.Info("chat completion", "request_id", reqID, "nickname", desc.Nickname, "kind", desc.Kind, "status", status, "elapsed", time.Since(start))
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(result.StatusCode)
	_, _ = w.Write(result.Body)
}

// authenticate compares the presented bearer token against the gateway key
// in constant time. Hashing first keeps the comparison length-independent.
func (d *Dependencies) authenticate(r *http.Request) *gateway.Error {
	token, err := parseBearer(r.Header.Get("Authorization"))
	if err != nil {
		return gateway.WrapError(gateway.KindAuth, err, "missing or invalid Authorization header")
	}
	presented := sha256.Sum256([]byte(token))
	if subtle.ConstantTimeCompare(presented[:], d.gatewayKeyHash[:]) != 1 {
		return gateway.NewError(gateway.KindAuth, "invalid gateway key")
	}
	return nil
}

// loadCredential resolves the secret material the descriptor's kind needs.
func (d *Dependencies) loadCredential(r *http.Request, desc registry.Descriptor) (providers.Credential, *gateway.Error) {
	switch desc.Kind {
	case registry.KindBedrock:
		creds, err := d.Secrets.Profile(r.Context(), desc.KeyPath, desc.Profile)
		if err != nil {
			return providers.Credential{}, gateway.WrapError(gateway.KindCredentialLoad, err, "loading credential profile for %q", desc.Nickname)
		}
		return providers.Credential{AWS: creds}, nil
	default:
		token, err := d.Secrets.Bearer(desc.KeyPath)
		if err != nil {
			return providers.Credential{}, gateway.WrapError(gateway.KindCredentialLoad, err, "loading key for %q", desc.Nickname)
		}
		return providers.Credential{Token: token}, nil
	}
}

// asGatewayError keeps typed failures and downgrades anything else to the
// unexpected kind so no raw error text reaches callers.
func asGatewayError(err error) *gateway.Error {
	var gwErr *gateway.Error
	if errors.As(err, &gwErr) {
		return gwErr
	}
	return gateway.WrapError(gateway.KindUnexpected, err, "internal error")
}

// newRequestID returns a UUID request ID for log and trace correlation.
func newRequestID() string {
	return uuid.New().String()
}

// parseBearer extracts the token from an Authorization: Bearer <token> header.
func parseBearer(header string) (string, error) {
	if header == "" {
		return "", errors.New("missing Authorization header")
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", errors.New("invalid Authorization header format")
	}
	if parts[1] == "" {
		return "", errors.New("empty bearer token")
	}
	return parts[1], nil
}

// writeGatewayError writes an OpenAI-compatible error response.
func writeGatewayError(w http.ResponseWriter, gwErr *gateway.Error) {
	writeJSONError(w, gwErr.HTTPStatus(), string(gwErr.Kind), gwErr.Message)
}

func writeJSONError(w http.ResponseWriter, statusCode int, errType, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	errorResp := map[string]any{
		"error": map[string]any{
			"message": message,
			"type":    errType,
			"code":    statusCode,
		},
	}

	_ = json.NewEncoder(w).Encode(errorResp)
}
