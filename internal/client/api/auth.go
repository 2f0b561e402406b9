package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/orcha-labs/orchactl/internal/client/models"
)

// RegisterRequest is the payload for POST /auth/register. JobTitle may be
// empty; the backend then leaves the profile incomplete and the client owes
// a later job-title update.
type RegisterRequest struct {
	Username string          `json:"username"`
	Email    string          `json:"email"`
	Password string          `json:"password"`
	FullName string          `json:"full_name,omitempty"`
	JobTitle models.JobTitle `json:"job_title,omitempty"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type authResponse struct {
	AccessToken string      `json:"access_token"`
	User        models.User `json:"user"`
}

type jobTitleRequest struct {
	JobTitle models.JobTitle `json:"job_title"`
}

// Register creates an account and returns the fresh session. The client's
// bearer token is not touched; the caller decides when to adopt the session.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*models.Session, error) {
	var resp authResponse
	if err := c.doJSON(ctx, http.MethodPost, "/auth/register", req, &resp, false); err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	return &models.Session{Token: resp.AccessToken, User: resp.User}, nil
}

// Login exchanges credentials for a session.
func (c *Client) Login(ctx context.Context, username, password string) (*models.Session, error) {
	var resp authResponse
	req := loginRequest{Username: username, Password: password}
	if err := c.doJSON(ctx, http.MethodPost, "/auth/login", req, &resp, false); err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	return &models.Session{Token: resp.AccessToken, User: resp.User}, nil
}

// Me fetches the current user record for the held token.
func (c *Client) Me(ctx context.Context) (*models.User, error) {
	var u models.User
	if err := c.doJSON(ctx, http.MethodGet, "/auth/me", nil, &u, true); err != nil {
		return nil, fmt.Errorf("fetch current user: %w", err)
	}
	return &u, nil
}

// UpdateJobTitle sets the user's job title and returns the updated record.
func (c *Client) UpdateJobTitle(ctx context.Context, jobTitle models.JobTitle) (*models.User, error) {
	var u models.User
	if err := c.doJSON(ctx, http.MethodPut, "/auth/update-job-title", jobTitleRequest{JobTitle: jobTitle}, &u, true); err != nil {
		return nil, fmt.Errorf("update job title: %w", err)
	}
	return &u, nil
}
