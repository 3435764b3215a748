package identity

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/polkiloo/orderservice/internal/adapter/downstream"
	domainErrors "github.com/polkiloo/orderservice/internal/domain/errors"
	"github.com/polkiloo/orderservice/internal/domain/model"
)

// Verifier resolves a bearer token into the caller identity.
type Verifier interface {
	Verify(ctx context.Context, token string) (*model.Identity, error)
}

// HTTPClient asks the auth service to verify tokens. Nothing is cached: every
// call reaches the auth service.
type HTTPClient struct {
	client *downstream.Client
}

type user struct {
	ID     downstream.ID `json:"id"`
	UserID downstream.ID `json:"userId"`
	Email  string        `json:"email"`
	Name   string        `json:"name"`
	Role   string        `json:"role"`
}

type response struct {
	User *user `json:"user"`
}

// NewHTTPClient creates a verifier for the auth service at baseURL.
func NewHTTPClient(baseURL string, opts downstream.Options) (*HTTPClient, error) {
	client, err := downstream.New("auth", baseURL, opts)
	if err != nil {
		return nil, err
	}
	return &HTTPClient{client: client}, nil
}

// Verify calls GET {auth}/verify-token with the caller's bearer token.
func (c *HTTPClient) Verify(ctx context.Context, token string) (*model.Identity, error) {
	var resp response
	if err := c.client.Do(ctx, http.MethodGet, token, nil, &resp, "verify-token"); err != nil {
		var statusErr *downstream.StatusError
		if errors.As(err, &statusErr) && statusErr.StatusCode < http.StatusInternalServerError {
			return nil, fmt.Errorf("%w: %s", domainErrors.ErrInvalidToken, statusErr.Error())
		}
		return nil, fmt.Errorf("verify token: %w", err)
	}

	if resp.User == nil {
		return nil, fmt.Errorf("%w: auth service returned no user", domainErrors.ErrInvalidToken)
	}

	id := resp.User.ID
	if id == "" {
		id = resp.User.UserID
	}
	if id == "" {
		return nil, fmt.Errorf("%w: auth service returned user without id", domainErrors.ErrInvalidToken)
	}

	return &model.Identity{
		ID:    id.String(),
		Email: resp.User.Email,
		Name:  resp.User.Name,
		Role:  resp.User.Role,
	}, nil
}
