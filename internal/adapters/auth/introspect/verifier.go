package introspect

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"petstore-api/internal/platform/httpclient"
	"petstore-api/internal/ports/auth"
)

var (
	ErrNotConfigured = errors.New("introspect verifier not configured")
	ErrUnauthorized  = errors.New("token rejected by identity service")
	ErrUpstream      = errors.New("identity service error")
)

// Config del verifier remoto. BaseURL y APIKey vienen de la Config del proceso.
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// Verifier implementa auth.Verifier delegando en el endpoint de
// introspección del servicio de identidad. La emisión/blacklist del
// token vive allá; acá solo preguntamos si sigue siendo válido.
type Verifier struct {
	client *httpclient.Client
	apiKey string
}

func New(cfg Config) (*Verifier, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, ErrNotConfigured
	}
	c, err := httpclient.New(cfg.BaseURL, cfg.Timeout)
	if err != nil {
		return nil, err
	}
	return &Verifier{client: c, apiKey: strings.TrimSpace(cfg.APIKey)}, nil
}

func (v *Verifier) Verify(ctx context.Context, token string) (auth.Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.Claims{}, ErrUnauthorized
	}

	headers := map[string]string{"Authorization": "Bearer " + token}
	if v.apiKey != "" {
		headers["X-Api-Key"] = v.apiKey
	}

	var out struct {
		Active bool   `json:"active"`
		UserID string `json:"user_id"`
		Email  string `json:"email"`
		Staff  bool   `json:"staff"`
	}

	err := v.client.DoJSON(ctx, http.MethodPost, "/v1/tokens/introspect",
		headers, map[string]string{"token": token}, &out)
	if err != nil {
		var he *httpclient.HTTPError
		if errors.As(err, &he) && (he.StatusCode == http.StatusUnauthorized || he.StatusCode == http.StatusForbidden) {
			return auth.Claims{}, ErrUnauthorized
		}
		return auth.Claims{}, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	if !out.Active || strings.TrimSpace(out.UserID) == "" {
		return auth.Claims{}, ErrUnauthorized
	}

	return auth.Claims{
		UserID: strings.TrimSpace(out.UserID),
		Email:  strings.TrimSpace(out.Email),
		Staff:  out.Staff,
	}, nil
}
