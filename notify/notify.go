package notify

import "fmt"

// Notifier delivers one alert digest per run. It is intentionally small
// so the orchestrator can depend on it without importing SMTP plumbing,
// and tests can substitute a recorder.
type Notifier interface {
	Send(subject, body string) error
}

// Console prints the digest instead of mailing it. Used for dry runs
// and when no mail credentials are configured.
type Console struct{}

func (Console) Send(subject, body string) error {
	fmt.Printf("--- %s ---\n%s\n", subject, body)
	return nil
}
