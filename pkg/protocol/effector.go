// Package protocol defines the contracts between the workflow engine and its
// external collaborators. The engine never talks to a provider, the network
// or the operating system directly: every side effect goes through one of
// these narrow interfaces, each returning a short human-readable
// confirmation string or an error.
package protocol

import (
	"context"
	"time"
)

// GenerationRequest carries one text-generation call to a provider.
type GenerationRequest struct {
	Prompt      string
	Model       string
	Temperature float64
	TopP        float64
	MaxTokens   int
}

// Generator is the generation-provider effector.
type Generator interface {
	Generate(ctx context.Context, req GenerationRequest) (string, error)

	// ProviderID identifies the provider for run records.
	ProviderID() string

	// DefaultModel is used when a step does not pin a model.
	DefaultModel() string
}

// GeneratorFactory builds a Generator from raw configuration. Factories are
// registered by provider id in the registry.
type GeneratorFactory interface {
	Create(config map[string]any) (Generator, error)
	ID() string
}

// HTTPRequest is one outbound HTTP call.
type HTTPRequest struct {
	Method  string
	URL     string
	Headers map[string]string
	Body    []byte
}

// HTTPResponse is the raw outcome of an HTTP call. Interpreting the status
// (2xx = success) is the caller's concern.
type HTTPResponse struct {
	StatusCode int
	Body       string
}

// HTTPCaller is the HTTP effector. The implementation owns transport-level
// timeouts; the engine bounds the call only through ctx.
type HTTPCaller interface {
	Call(ctx context.Context, req HTTPRequest) (*HTTPResponse, error)
}

// MailComposer opens or sends an email with fully-resolved fields.
type MailComposer interface {
	ComposeEmail(ctx context.Context, to, subject, body string) (string, error)
}

// Notifier delivers a user-facing notification.
type Notifier interface {
	Notify(ctx context.Context, title, body string) (string, error)
}

// NotesWriter creates a note in the user's notes application.
type NotesWriter interface {
	CreateNote(ctx context.Context, title, body, folder string) (string, error)
}

// ReminderWriter creates a reminder, dueDate in ISO-8601 when set.
type ReminderWriter interface {
	CreateReminder(ctx context.Context, title, notes, dueDate, list string) (string, error)
}

// CalendarWriter creates a calendar event, dates in ISO-8601 when set.
type CalendarWriter interface {
	CreateEvent(ctx context.Context, title, notes, start, end, calendar string) (string, error)
}

// Clipboard replaces the system clipboard contents.
type Clipboard interface {
	SetClipboard(ctx context.Context, content string) (string, error)
}

// FileSaver writes resolved content to a local file.
type FileSaver interface {
	SaveFile(ctx context.Context, directory, filename, content string) (string, error)
}

// ShellRunner executes a local command. Implementations must enforce the
// wall-clock timeout and forcibly terminate the process past it; this is the
// one execution path with a hard bound owned by the engine's contract.
type ShellRunner interface {
	Run(ctx context.Context, command string, args []string, timeout time.Duration) (string, error)
}
