package effectors

import (
	"context"
	"log/slog"

	"github.com/voxflow/voxflow/pkg/protocol"
)

// ConsoleAutomator stands in for the desktop automation effectors on
// headless deployments: every call is logged and acknowledged with the
// confirmation string the contract requires. Desktop integrations replace it
// by satisfying the same interfaces.
type ConsoleAutomator struct {
	logger *slog.Logger
}

func NewConsoleAutomator(logger *slog.Logger) *ConsoleAutomator {
	return &ConsoleAutomator{logger: logger.With("module", "console_automator")}
}

func (c *ConsoleAutomator) ComposeEmail(ctx context.Context, to, subject, _ string) (string, error) {
	c.logger.InfoContext(ctx, "Email composed", "to", to, "subject", subject)

	return "Composed email to " + to, nil
}

func (c *ConsoleAutomator) Notify(ctx context.Context, title, body string) (string, error) {
	c.logger.InfoContext(ctx, "Notification delivered", "title", title, "body", body)

	return "Delivered notification: " + title, nil
}

func (c *ConsoleAutomator) CreateNote(ctx context.Context, title, _, folder string) (string, error) {
	c.logger.InfoContext(ctx, "Note created", "title", title, "folder", folder)

	return "Created note: " + title, nil
}

func (c *ConsoleAutomator) CreateReminder(ctx context.Context, title, _, dueDate, list string) (string, error) {
	c.logger.InfoContext(ctx, "Reminder created", "title", title, "due_date", dueDate, "list", list)

	return "Created reminder: " + title, nil
}

func (c *ConsoleAutomator) CreateEvent(ctx context.Context, title, _, start, end, calendar string) (string, error) {
	c.logger.InfoContext(ctx, "Calendar event created",
		"title", title, "start", start, "end", end, "calendar", calendar)

	return "Created event: " + title, nil
}

func (c *ConsoleAutomator) SetClipboard(ctx context.Context, content string) (string, error) {
	c.logger.InfoContext(ctx, "Clipboard set", "length", len(content))

	return "Copied to clipboard", nil
}

var (
	_ protocol.MailComposer   = (*ConsoleAutomator)(nil)
	_ protocol.Notifier       = (*ConsoleAutomator)(nil)
	_ protocol.NotesWriter    = (*ConsoleAutomator)(nil)
	_ protocol.ReminderWriter = (*ConsoleAutomator)(nil)
	_ protocol.CalendarWriter = (*ConsoleAutomator)(nil)
	_ protocol.Clipboard      = (*ConsoleAutomator)(nil)
)
