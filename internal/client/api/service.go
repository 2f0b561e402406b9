package api

import (
	"context"
	"io"

	"github.com/orcha-labs/orchactl/internal/client/models"
)

// AuthAPI is the slice of Client the auth state machine depends on.
// Tests substitute a fake.
type AuthAPI interface {
	SetToken(token string)
	ClearToken()
	Token() string
	Register(ctx context.Context, req RegisterRequest) (*models.Session, error)
	Login(ctx context.Context, username, password string) (*models.Session, error)
	Me(ctx context.Context) (*models.User, error)
	UpdateJobTitle(ctx context.Context, jobTitle models.JobTitle) (*models.User, error)
}

// AdminAPI is the slice of Client the admin machine depends on.
type AdminAPI interface {
	SetToken(token string)
	ClearToken()
	Token() string
	AdminLogin(ctx context.Context, username, password string) (*models.AdminSession, error)
	ListUsers(ctx context.Context) (*AdminUsersPage, error)
	DeleteUser(ctx context.Context, id int64) error
	UpdateCredentials(ctx context.Context, currentPassword, newUsername, newPassword string) error
}

// AssistAPI covers the assistant endpoints used after login.
type AssistAPI interface {
	Chat(ctx context.Context, message, conversationID string) (*ChatResult, error)
	ExtractText(ctx context.Context, filename string, content io.Reader) (string, error)
	Search(ctx context.Context, query string) ([]SearchResult, error)
	CreateTask(ctx context.Context, task PulseTask) error
	ListTasks(ctx context.Context) ([]PulseTask, error)
	DeleteTask(ctx context.Context, id string) error
}

var (
	_ AuthAPI   = (*Client)(nil)
	_ AdminAPI  = (*Client)(nil)
	_ AssistAPI = (*Client)(nil)
)
