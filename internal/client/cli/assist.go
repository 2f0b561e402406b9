package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
)

// Ask sends one chat message. Consecutive asks share a conversation until
// logout resets the thread.
func (a *App) Ask(ctx context.Context, args []string) error {
	message := strings.Join(args, " ")
	if message == "" {
		var err error
		message, err = getSimpleText(a.reader, "Your message:", os.Stdout)
		if err != nil {
			return err
		}
	}
	if message == "" {
		printlnFn("Nothing to send.")
		return nil
	}

	result, err := a.assist.Chat(ctx, message, a.conversationID)
	if err != nil {
		a.reportAuthError(err)
		return err
	}
	a.conversationID = result.ConversationID

	printlnFn(result.Response)
	if result.Routing != nil {
		printlnFn(fmt.Sprintf("(answered by %s: %s)", result.Routing.Agent, result.Routing.Reason))
	}
	return nil
}

func (a *App) OCR(ctx context.Context, args []string) error {
	if len(args) != 1 {
		printlnFn("Usage: ocr <file>")
		return nil
	}

	text, err := a.assist.ExtractText(ctx, args[0])
	if err != nil {
		a.reportAuthError(err)
		return err
	}
	printlnFn(text)
	return nil
}

func (a *App) Search(ctx context.Context, args []string) error {
	query := strings.Join(args, " ")
	if query == "" {
		printlnFn("Usage: search <query>")
		return nil
	}

	results, err := a.assist.Search(ctx, query)
	if err != nil {
		a.reportAuthError(err)
		return err
	}
	if len(results) == 0 {
		printlnFn("No results.")
		return nil
	}
	for _, r := range results {
		printlnFn(r.Title)
		printlnFn("  " + r.URL)
		if r.Snippet != "" {
			printlnFn("  " + r.Snippet)
		}
	}
	return nil
}

// Pulse dispatches the scheduled-task subcommands.
func (a *App) Pulse(ctx context.Context, args []string) error {
	if len(args) == 0 {
		printlnFn("Usage: pulse add|list|rm <id>")
		return nil
	}

	switch args[0] {
	case "add":
		return a.pulseAdd(ctx)
	case "list":
		return a.pulseList(ctx)
	case "rm":
		if len(args) != 2 {
			printlnFn("Usage: pulse rm <id>")
			return nil
		}
		return a.pulseRemove(ctx, args[1])
	default:
		printlnFn("Unknown pulse command:", args[0])
		return nil
	}
}

func (a *App) pulseAdd(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Task name:", os.Stdout)
	if err != nil {
		return err
	}
	prompt, err := getSimpleText(a.reader, "What should the assistant do?", os.Stdout)
	if err != nil {
		return err
	}
	schedule, err := getSimpleText(a.reader, "Cron schedule (e.g. 0 9 * * 1-5):", os.Stdout)
	if err != nil {
		return err
	}

	task, err := a.assist.CreateTask(ctx, name, prompt, schedule)
	if err != nil {
		a.reportAuthError(err)
		return err
	}
	printlnFn("Task scheduled with id", task.ID)
	return nil
}

func (a *App) pulseList(ctx context.Context) error {
	tasks, err := a.assist.ListTasks(ctx)
	if err != nil {
		a.reportAuthError(err)
		return err
	}
	if len(tasks) == 0 {
		printlnFn("No scheduled tasks.")
		return nil
	}
	for _, t := range tasks {
		printlnFn(fmt.Sprintf("%s  %-20s %-15s %s", t.ID, t.Name, t.Schedule, t.Prompt))
	}
	return nil
}

func (a *App) pulseRemove(ctx context.Context, id string) error {
	if err := a.assist.DeleteTask(ctx, id); err != nil {
		a.reportAuthError(err)
		return err
	}
	printlnFn("Task removed.")
	return nil
}
