package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/orcha-labs/orchactl/internal/client/models"
)

type adminLoginResponse struct {
	Token string `json:"token"`
	Admin string `json:"admin"`
}

// AdminUsersPage is the GET /admin/users response.
type AdminUsersPage struct {
	Users []models.User     `json:"users"`
	Stats models.AdminStats `json:"stats"`
}

type adminCredentialsRequest struct {
	CurrentPassword string `json:"current_password"`
	NewUsername     string `json:"new_username,omitempty"`
	NewPassword     string `json:"new_password,omitempty"`
}

// AdminLogin authenticates against the admin endpoint family.
func (c *Client) AdminLogin(ctx context.Context, username, password string) (*models.AdminSession, error) {
	var resp adminLoginResponse
	req := loginRequest{Username: username, Password: password}
	if err := c.doJSON(ctx, http.MethodPost, "/admin/login", req, &resp, false); err != nil {
		return nil, fmt.Errorf("admin login: %w", err)
	}
	return &models.AdminSession{Token: resp.Token, Admin: resp.Admin}, nil
}

// ListUsers returns the user listing plus aggregate stats.
func (c *Client) ListUsers(ctx context.Context) (*AdminUsersPage, error) {
	var page AdminUsersPage
	if err := c.doJSON(ctx, http.MethodGet, "/admin/users", nil, &page, true); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return &page, nil
}

// DeleteUser removes a user by id.
func (c *Client) DeleteUser(ctx context.Context, id int64) error {
	if err := c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/admin/users/%d", id), nil, nil, true); err != nil {
		return fmt.Errorf("delete user %d: %w", id, err)
	}
	return nil
}

// UpdateCredentials changes the admin's own username and/or password.
func (c *Client) UpdateCredentials(ctx context.Context, currentPassword, newUsername, newPassword string) error {
	req := adminCredentialsRequest{
		CurrentPassword: currentPassword,
		NewUsername:     newUsername,
		NewPassword:     newPassword,
	}
	if err := c.doJSON(ctx, http.MethodPut, "/admin/credentials", req, nil, true); err != nil {
		return fmt.Errorf("update credentials: %w", err)
	}
	return nil
}
