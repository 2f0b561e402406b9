package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/orcha-labs/orchactl/internal/common"
)

// Admin dispatches the `admin <subcommand>` family. The admin session is
// independent from the user session; both can be active at once.
func (a *App) Admin(ctx context.Context, args []string) error {
	if len(args) == 0 {
		printlnFn("Usage: admin login|users|rm <id>|passwd|logout")
		return nil
	}

	switch args[0] {
	case "login":
		return a.adminLogin(ctx)
	case "users":
		return a.adminUsers(ctx)
	case "rm":
		return a.adminDeleteUser(ctx, args[1:])
	case "passwd":
		return a.adminPasswd(ctx)
	case "logout":
		return a.adminLogout(ctx)
	default:
		printlnFn("Unknown admin command:", args[0])
		return nil
	}
}

func (a *App) adminLogin(ctx context.Context) error {
	username, err := getSimpleText(a.reader, "Admin username:", os.Stdout)
	if err != nil {
		return err
	}
	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.admin.Login(ctx, username, string(password)); err != nil {
		a.reportAuthError(err)
		return err
	}
	printlnFn("Admin session opened for", a.admin.Admin())
	return nil
}

func (a *App) adminUsers(ctx context.Context) error {
	page, err := a.admin.ListUsers(ctx)
	if err != nil {
		a.reportAuthError(err)
		return err
	}

	printlnFn(fmt.Sprintf("%d users, %d active, %d conversations, %d messages",
		page.Stats.TotalUsers, page.Stats.ActiveUsers,
		page.Stats.TotalConversations, page.Stats.TotalMessages))
	for _, u := range page.Users {
		active := "active"
		if !u.IsActive {
			active = "inactive"
		}
		printlnFn(fmt.Sprintf("  #%d %-20s %-30s %-10s %s conv=%d msg=%d",
			u.ID, u.Username, u.Email, u.PlanType, active,
			u.ConversationCount, u.MessageCount))
	}
	return nil
}

func (a *App) adminDeleteUser(ctx context.Context, args []string) error {
	if len(args) != 1 {
		printlnFn("Usage: admin rm <user-id>")
		return nil
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		printlnFn("Not a user id:", args[0])
		return err
	}

	confirm, err := getSimpleText(a.reader,
		fmt.Sprintf("Delete user #%d and all their data? Type 'yes' to confirm:", id), os.Stdout)
	if err != nil {
		return err
	}
	if confirm != "yes" {
		printlnFn("Aborted.")
		return nil
	}

	if err := a.admin.DeleteUser(ctx, id); err != nil {
		a.reportAuthError(err)
		return err
	}
	printlnFn("User deleted.")
	return nil
}

func (a *App) adminPasswd(ctx context.Context) error {
	current, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(current)

	newUsername, err := getSimpleText(a.reader, "New admin username (empty to keep):", os.Stdout)
	if err != nil {
		return err
	}
	newPassword, err := getSimpleText(a.reader, "New password (empty to keep):", os.Stdout)
	if err != nil {
		return err
	}

	if err := a.admin.UpdateCredentials(ctx, string(current), newUsername, newPassword); err != nil {
		a.reportAuthError(err)
		return err
	}
	printlnFn("Admin credentials updated.")
	return nil
}

func (a *App) adminLogout(ctx context.Context) error {
	if err := a.admin.Logout(ctx); err != nil {
		printlnFn("Warning: admin state may not be fully cleared:", err)
		return err
	}
	printlnFn("Admin session closed.")
	return nil
}
