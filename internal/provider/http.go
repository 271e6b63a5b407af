package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"liveclass-service/internal/model"
)

// HTTPProvider talks to a remote session provider over HTTP+JSON. Requests
// carry the shared internal secret the same way inter-service calls do.
type HTTPProvider struct {
	baseURL string
	secret  string
	client  *http.Client
}

func NewHTTPProvider(baseURL string, secret string) *HTTPProvider {
	return &HTTPProvider{
		baseURL: baseURL,
		secret:  secret,
		client: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

type sessionsResponse struct {
	Sessions []map[string]any `json:"sessions"`
}

type certificatesResponse struct {
	Certificates []model.Certificate `json:"certificates"`
}

func (p *HTTPProvider) GetCatalog(ctx context.Context, userID uuid.UUID) ([]map[string]any, error) {
	var payload sessionsResponse
	url := fmt.Sprintf("%s/v1/provider/catalog/%s", p.baseURL, userID)
	if err := p.get(ctx, url, &payload); err != nil {
		return nil, err
	}
	return payload.Sessions, nil
}

func (p *HTTPProvider) GetEnrolments(ctx context.Context, userID uuid.UUID) ([]map[string]any, error) {
	var payload sessionsResponse
	url := fmt.Sprintf("%s/v1/provider/enrolments/%s", p.baseURL, userID)
	if err := p.get(ctx, url, &payload); err != nil {
		return nil, err
	}
	return payload.Sessions, nil
}

func (p *HTTPProvider) GetCertificates(ctx context.Context, userID uuid.UUID) ([]model.Certificate, error) {
	var payload certificatesResponse
	url := fmt.Sprintf("%s/v1/provider/certificates/%s", p.baseURL, userID)
	if err := p.get(ctx, url, &payload); err != nil {
		return nil, err
	}
	return payload.Certificates, nil
}

type enrolRequest struct {
	UserID uuid.UUID `json:"user_id"`
}

// EnrolSession posts the enrolment to the remote provider. Providers may
// answer with a structured {status, message} object or a bare boolean; both
// are accepted.
func (p *HTTPProvider) EnrolSession(ctx context.Context, userID uuid.UUID, sessionID string) (EnrolResult, error) {
	body, err := json.Marshal(enrolRequest{UserID: userID})
	if err != nil {
		return EnrolResult{}, err
	}

	url := fmt.Sprintf("%s/v1/provider/sessions/%s/enrol", p.baseURL, sessionID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return EnrolResult{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	if p.secret != "" {
		req.Header.Set("X-Internal-Secret", p.secret)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return EnrolResult{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return EnrolResult{}, ErrNotSupported
	}
	if resp.StatusCode != http.StatusOK {
		return EnrolResult{}, fmt.Errorf("provider error: status %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return EnrolResult{}, err
	}

	var status bool
	if err := json.Unmarshal(raw, &status); err == nil {
		return EnrolResult{Status: status}, nil
	}

	var result EnrolResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return EnrolResult{}, fmt.Errorf("failed to decode enrol response: %w", err)
	}
	return result, nil
}

func (p *HTTPProvider) get(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	if p.secret != "" {
		req.Header.Set("X-Internal-Secret", p.secret)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotSupported
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("provider error: status %d", resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
