package notify

import (
	"context"
	"log"
)

// Notifier is the seam for assignment notifications. No external channel is
// wired in this deployment; LogNotifier records events to the server log and
// NoopNotifier silences them.
type Notifier interface {
	NotifyCaseCreated(ctx context.Context, e CaseCreatedEvent) error
	NotifyCaseAssigned(ctx context.Context, e CaseAssignedEvent) error
}

type NoopNotifier struct{}

func (NoopNotifier) NotifyCaseCreated(context.Context, CaseCreatedEvent) error   { return nil }
func (NoopNotifier) NotifyCaseAssigned(context.Context, CaseAssignedEvent) error { return nil }

type LogNotifier struct{}

func (LogNotifier) NotifyCaseCreated(_ context.Context, e CaseCreatedEvent) error {
	log.Printf("[notify] case %s created (priority %s, assignee %s)", e.CaseNumber, e.Priority, e.AssigneeName)
	return nil
}

func (LogNotifier) NotifyCaseAssigned(_ context.Context, e CaseAssignedEvent) error {
	log.Printf("[notify] case %s assigned to %s by %s", e.CaseNumber, e.AssigneeName, e.AssignerName)
	return nil
}
