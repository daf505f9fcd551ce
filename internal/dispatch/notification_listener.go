package dispatch

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/proc-track/workflow-service/internal/domain"
	"github.com/proc-track/workflow-service/internal/infrastructure/kafka"
)

// NotificationListener fans domain events out to the users they concern: it
// persists one in-app notification per recipient and publishes the event to
// Kafka for the external delivery channels.
type NotificationListener struct {
	Directory     domain.DirectoryRepository
	Notifications domain.NotificationRepository
	Publisher     *kafka.Publisher
	Now           domain.Clock
}

func NewNotificationListener(
	directory domain.DirectoryRepository,
	notifications domain.NotificationRepository,
	publisher *kafka.Publisher,
	now domain.Clock,
) *NotificationListener {
	return &NotificationListener{
		Directory:     directory,
		Notifications: notifications,
		Publisher:     publisher,
		Now:           now,
	}
}

// EventNames lists everything the listener wants to be subscribed to.
func (l *NotificationListener) EventNames() []string {
	return []string{
		domain.OutOfWorkflowEndorsement{}.EventName(),
		domain.TransactionReceived{}.EventName(),
		domain.TransactionCompleted{}.EventName(),
		domain.TransactionStatusChanged{}.EventName(),
		domain.TransactionOverdue{}.EventName(),
	}
}

func (l *NotificationListener) Handle(ctx context.Context, event domain.Event) {
	switch e := event.(type) {
	case domain.OutOfWorkflowEndorsement:
		l.handleOutOfWorkflow(ctx, e)
	case domain.TransactionReceived:
		l.handleReceived(ctx, e)
	case domain.TransactionCompleted:
		l.handleCompleted(ctx, e)
	case domain.TransactionStatusChanged:
		l.handleStatusChanged(ctx, e)
	case domain.TransactionOverdue:
		l.handleOverdue(ctx, e)
	}
}

func (l *NotificationListener) handleOutOfWorkflow(ctx context.Context, e domain.OutOfWorkflowEndorsement) {
	recipients := l.administratorIDs(ctx)
	if users, err := l.Directory.ListUsersByOffice(ctx, e.ExpectedOfficeID); err == nil {
		for _, u := range users {
			recipients = append(recipients, u.ID)
		}
	}

	toOffice := l.officeName(ctx, e.ToOfficeID)
	expected := l.officeName(ctx, e.ExpectedOfficeID)
	message := fmt.Sprintf("%s was endorsed to %s instead of the expected next office %s", e.Reference, toOffice, expected)

	l.deliver(ctx, domain.NotificationOutOfWorkflow, e.TransactionID, e.Reference, string(e.Category), message,
		recipients, toOffice, l.userName(ctx, e.ActorID))
}

func (l *NotificationListener) handleReceived(ctx context.Context, e domain.TransactionReceived) {
	if e.SenderID == "" {
		return
	}
	office := l.officeName(ctx, e.OfficeID)
	message := fmt.Sprintf("%s was received at %s by %s", e.Reference, office, l.userName(ctx, e.ReceiverID))
	l.deliver(ctx, domain.NotificationReceived, e.TransactionID, e.Reference, string(e.Category), message,
		[]string{e.SenderID}, office, l.userName(ctx, e.ReceiverID))
}

func (l *NotificationListener) handleCompleted(ctx context.Context, e domain.TransactionCompleted) {
	if e.CreatorID == "" {
		return
	}
	message := fmt.Sprintf("%s has completed its workflow", e.Reference)
	l.deliver(ctx, domain.NotificationCompleted, e.TransactionID, e.Reference, string(e.Category), message,
		[]string{e.CreatorID}, "", l.userName(ctx, e.ActorID))
}

func (l *NotificationListener) handleStatusChanged(ctx context.Context, e domain.TransactionStatusChanged) {
	// The creator already hears about completion through the dedicated event.
	if e.CreatorID == "" || e.NewStatus == domain.StatusCompleted {
		return
	}
	message := fmt.Sprintf("%s moved from %s to %s: %s", e.Reference, e.OldStatus, e.NewStatus, e.Reason)
	l.deliver(ctx, domain.NotificationStatusChanged, e.TransactionID, e.Reference, string(e.Category), message,
		[]string{e.CreatorID}, "", l.userName(ctx, e.ActorID))
}

func (l *NotificationListener) handleOverdue(ctx context.Context, e domain.TransactionOverdue) {
	recipients := l.administratorIDs(ctx)
	if e.HolderID != "" {
		recipients = append(recipients, e.HolderID)
	}
	office := l.officeName(ctx, e.OfficeID)
	message := fmt.Sprintf("%s is overdue by %d business day(s) at %s", e.Reference, e.DelayDays, office)
	l.deliver(ctx, domain.NotificationOverdue, e.TransactionID, e.Reference, string(e.Category), message,
		recipients, office, "")
}

func (l *NotificationListener) deliver(
	ctx context.Context,
	kind domain.NotificationKind,
	transactionID, reference, category, message string,
	recipientIDs []string,
	officeName, actorName string,
) {
	now := l.Now()
	seen := make(map[string]bool, len(recipientIDs))
	notifications := make([]*domain.Notification, 0, len(recipientIDs))
	for _, id := range recipientIDs {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		notifications = append(notifications, &domain.Notification{
			ID:            uuid.New().String(),
			RecipientID:   id,
			Kind:          kind,
			TransactionID: transactionID,
			Reference:     reference,
			Message:       message,
			CreatedAt:     now,
		})
	}
	if len(notifications) == 0 {
		return
	}

	if err := l.Notifications.CreateNotifications(ctx, notifications); err != nil {
		slog.Error("failed to persist notifications", "kind", kind, "transaction_id", transactionID, "error", err.Error())
	}

	if l.Publisher == nil {
		return
	}
	ids := make([]string, 0, len(notifications))
	for _, n := range notifications {
		ids = append(ids, n.RecipientID)
	}
	event := kafka.TransactionEvent{
		TransactionID: transactionID,
		Reference:     reference,
		Category:      category,
		Kind:          string(kind),
		Message:       message,
		OfficeName:    officeName,
		ActorName:     actorName,
		Recipients:    ids,
	}
	if err := l.Publisher.PublishTransactionEvent(ctx, event); err != nil {
		slog.Error("failed to publish transaction event", "kind", kind, "transaction_id", transactionID, "error", err.Error())
	}
}

func (l *NotificationListener) administratorIDs(ctx context.Context) []string {
	admins, err := l.Directory.ListAdministrators(ctx)
	if err != nil {
		slog.Error("failed to list administrators", "error", err.Error())
		return nil
	}
	ids := make([]string, 0, len(admins))
	for _, a := range admins {
		ids = append(ids, a.ID)
	}
	return ids
}

func (l *NotificationListener) officeName(ctx context.Context, id string) string {
	if id == "" {
		return ""
	}
	if office, err := l.Directory.GetOfficeByID(ctx, id); err == nil {
		return office.Name
	}
	return id
}

func (l *NotificationListener) userName(ctx context.Context, id string) string {
	if id == "" {
		return ""
	}
	if user, err := l.Directory.GetUserByID(ctx, id); err == nil {
		return user.Name
	}
	return id
}
