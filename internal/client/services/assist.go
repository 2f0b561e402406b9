package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/orcha-labs/orchactl/internal/client/api"
	"github.com/orcha-labs/orchactl/internal/common"
)

// Assistant wraps the assistant endpoints (chat, OCR, search, pulse tasks).
// Every operation requires an authenticated session and fails with
// common.ErrUnauthorized before any network call without one. The client
// holds no scheduling or extraction logic of its own.
type Assistant struct {
	api  api.AssistAPI
	auth *Machine
}

func NewAssistant(apiClient api.AssistAPI, auth *Machine) *Assistant {
	return &Assistant{api: apiClient, auth: auth}
}

func (a *Assistant) requireAuth() error {
	if !a.auth.Snapshot().IsAuthenticated {
		return fmt.Errorf("not authenticated: %w", common.ErrUnauthorized)
	}
	return nil
}

// Chat sends one message; pass the previous ConversationID to continue a
// thread, or "" to start a new one.
func (a *Assistant) Chat(ctx context.Context, message, conversationID string) (*api.ChatResult, error) {
	if err := a.requireAuth(); err != nil {
		return nil, err
	}
	return a.api.Chat(ctx, message, conversationID)
}

// ExtractText reads a local file and asks the backend to OCR it.
func (a *Assistant) ExtractText(ctx context.Context, path string) (string, error) {
	if err := a.requireAuth(); err != nil {
		return "", err
	}

	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	return a.api.ExtractText(ctx, filepath.Base(path), f)
}

// Search runs a backend web search.
func (a *Assistant) Search(ctx context.Context, query string) ([]api.SearchResult, error) {
	if err := a.requireAuth(); err != nil {
		return nil, err
	}
	return a.api.Search(ctx, query)
}

// CreateTask builds a scheduled task with a client-generated id and asks the
// backend to persist it. The returned task carries the id for later removal.
func (a *Assistant) CreateTask(ctx context.Context, name, prompt, schedule string) (*api.PulseTask, error) {
	if err := a.requireAuth(); err != nil {
		return nil, err
	}

	task := api.PulseTask{
		ID:       uuid.NewString(),
		Name:     name,
		Prompt:   prompt,
		Schedule: schedule,
	}
	if err := a.api.CreateTask(ctx, task); err != nil {
		return nil, err
	}
	return &task, nil
}

// ListTasks returns the user's scheduled tasks.
func (a *Assistant) ListTasks(ctx context.Context) ([]api.PulseTask, error) {
	if err := a.requireAuth(); err != nil {
		return nil, err
	}
	return a.api.ListTasks(ctx)
}

// DeleteTask removes a scheduled task.
func (a *Assistant) DeleteTask(ctx context.Context, id string) error {
	if err := a.requireAuth(); err != nil {
		return err
	}
	return a.api.DeleteTask(ctx, id)
}
