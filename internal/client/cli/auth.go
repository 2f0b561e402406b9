package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/orcha-labs/orchactl/internal/client/api"
	"github.com/orcha-labs/orchactl/internal/client/models"
	"github.com/orcha-labs/orchactl/internal/client/services"
	"github.com/orcha-labs/orchactl/internal/client/token"
	"github.com/orcha-labs/orchactl/internal/common"
)

// Seams for prompting, overridable in tests.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
)

// status renders the prompt segment between "orcha>" and ">".
func (a *App) status() string {
	if a.admin.IsAuthenticated() {
		return fmt.Sprintf("admin:%s", a.admin.Admin())
	}

	snap := a.auth.Snapshot()
	switch snap.State {
	case services.StateAuthenticated:
		s := snap.User.Username
		if snap.PendingJobTitle {
			s += " (job title pending)"
		}
		if exp, ok := token.ExpiresAt(snap.Token); ok {
			s += fmt.Sprintf(" [token expires %s]", exp.Local().Format("15:04"))
		}
		return s
	case services.StateAwaitingJobTitle:
		return "registration: job title step"
	case services.StateAwaitingInvitation, services.StatePendingRegistration:
		return "registration: invitation step"
	default:
		return "anonymous"
	}
}

// Register walks the registration pipeline from wherever the machine stands.
// Restarting the program mid-pipeline and typing `register` again resumes at
// the persisted stage instead of asking for credentials a second time.
func (a *App) Register(ctx context.Context) error {
	if snap := a.auth.Snapshot(); snap.State == services.StateAnonymous {
		if err := a.captureDraft(ctx); err != nil {
			return err
		}
	}

	for {
		switch snap := a.auth.Snapshot(); snap.State {
		case services.StateAwaitingInvitation, services.StatePendingRegistration:
			if err := a.invitationStep(ctx); err != nil {
				return err
			}
		case services.StateAwaitingJobTitle:
			return a.jobTitleStep(ctx)
		case services.StateAuthenticated:
			printlnFn("Already logged in, log out first to register a new account.")
			return nil
		default:
			return nil
		}
	}
}

func (a *App) captureDraft(ctx context.Context) error {
	username, err := getSimpleText(a.reader, "Choose a username:", os.Stdout)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Email address:", os.Stdout)
	if err != nil {
		return err
	}
	fullName, err := getSimpleText(a.reader, "Full name (optional):", os.Stdout)
	if err != nil {
		return err
	}
	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.auth.StartRegistration(ctx, username, email, string(password), fullName); err != nil {
		printlnFn("Could not start registration:", err)
		return err
	}
	printlnFn("Registration draft saved.")
	return nil
}

func (a *App) invitationStep(ctx context.Context) error {
	ack, err := getSimpleText(a.reader,
		"An invitation is required to join. Type 'done' once you have accepted it,\nor anything else to finish later:", os.Stdout)
	if err != nil {
		return err
	}
	if strings.ToLower(ack) != "done" {
		printlnFn("Registration paused, run `register` again to resume.")
		return errInterrupted
	}
	if err := a.auth.CompleteInvitation(ctx); err != nil {
		printlnFn("Could not record the invitation:", err)
		return err
	}
	return nil
}

func (a *App) jobTitleStep(ctx context.Context) error {
	title, err := a.pickJobTitle(true)
	if err != nil {
		return err
	}
	if err := a.auth.CompleteRegistration(ctx, title); err != nil {
		a.reportAuthError(err)
		return err
	}
	snap := a.auth.Snapshot()
	printlnFn("Welcome,", snap.User.Username+"!")
	if snap.PendingJobTitle {
		printlnFn("You can set your job title later with `jobtitle`.")
	}
	return nil
}

// errInterrupted marks a user-paused pipeline: not a failure, just "not now".
var errInterrupted = errors.New("input interrupted")

// pickJobTitle prompts with the known titles. When optional is true an empty
// answer means "skip for now" and JobTitleNone is returned.
func (a *App) pickJobTitle(optional bool) (models.JobTitle, error) {
	options := make([]string, 0, len(models.JobTitles))
	for _, t := range models.JobTitles {
		options = append(options, string(t))
	}
	prompt := "Job title (" + strings.Join(options, ", ") + ")"
	if optional {
		prompt += ", empty to skip"
	}
	prompt += ":"

	for {
		answer, err := getSimpleText(a.reader, prompt, os.Stdout)
		if err != nil {
			return models.JobTitleNone, err
		}
		if answer == "" && optional {
			return models.JobTitleNone, nil
		}
		for _, t := range models.JobTitles {
			if strings.EqualFold(answer, string(t)) {
				return t, nil
			}
		}
		printlnFn("Unknown job title:", answer)
	}
}

func (a *App) Login(ctx context.Context) error {
	username, err := getSimpleText(a.reader, "Username:", os.Stdout)
	if err != nil {
		return err
	}
	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.auth.Login(ctx, username, string(password)); err != nil {
		a.reportAuthError(err)
		return err
	}
	printlnFn("Logged in as", a.auth.Snapshot().User.Username)
	return nil
}

func (a *App) WhoAmI(_ context.Context) error {
	snap := a.auth.Snapshot()
	if !snap.IsAuthenticated {
		printlnFn("Not logged in.")
		return common.ErrUnauthorized
	}
	u := snap.User
	printlnFn("Username:  ", u.Username)
	printlnFn("Email:     ", u.Email)
	if u.FullName != "" {
		printlnFn("Full name: ", u.FullName)
	}
	if u.JobTitle != models.JobTitleNone {
		printlnFn("Job title: ", string(u.JobTitle))
	} else {
		printlnFn("Job title:  (not set)")
	}
	printlnFn("Plan:      ", u.PlanType)
	if exp, ok := token.ExpiresAt(snap.Token); ok {
		printlnFn("Token expires:", exp.Local().Format("2006-01-02 15:04"))
	}
	return nil
}

func (a *App) Refresh(ctx context.Context) error {
	if err := a.auth.RefreshUser(ctx); err != nil {
		if errors.Is(err, common.ErrUnauthorized) || errors.Is(err, common.ErrUnavailable) {
			printlnFn("Session is no longer valid, you have been logged out.")
		} else {
			a.reportAuthError(err)
		}
		return err
	}
	printlnFn("Profile refreshed.")
	return a.WhoAmI(ctx)
}

func (a *App) JobTitle(ctx context.Context) error {
	title, err := a.pickJobTitle(false)
	if err != nil {
		return err
	}
	if err := a.auth.UpdateJobTitle(ctx, title); err != nil {
		a.reportAuthError(err)
		return err
	}
	printlnFn("Job title updated to", string(title))
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	if err := a.auth.Logout(ctx); err != nil {
		printlnFn("Warning: local state may not be fully cleared:", err)
		return err
	}
	a.conversationID = ""
	printlnFn("Logged out.")
	return nil
}

// reportAuthError translates service errors into one-line user messages.
func (a *App) reportAuthError(err error) {
	var rejected *api.BackendError
	switch {
	case errors.Is(err, common.ErrUnavailable):
		printlnFn("The server is unreachable, try again later.")
	case errors.Is(err, common.ErrUnauthorized):
		printlnFn("Not authorized, please log in.")
	case errors.As(err, &rejected):
		printlnFn("Rejected by the server:", rejected.Message)
	default:
		printlnFn("Error:", err)
	}
}
