package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spec-kit/helpdesk/internal/config"
	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/events"
)

func TestNotificationHandlers(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	dispatcher := events.NewInMemoryDispatcher()
	svc := NewNotificationService(dispatcher, zap.New(core), config.NotificationConfig{
		EmailFrom:  "noreply@example.com",
		WebhookURL: "https://hooks.example.com/helpdesk",
	})
	svc.RegisterHandlers()
	ctx := context.Background()

	require.NoError(t, dispatcher.Publish(ctx, events.New(events.EventTicketCreated, 4, 1, events.TicketCreatedPayload{Title: "t", OwnerID: 1})))
	require.NoError(t, dispatcher.Publish(ctx, events.New(events.EventTicketStatusChanged, 4, 9,
		events.TicketStatusChangedPayload{OldStatus: domain.TicketStatusOpen, NewStatus: domain.TicketStatusClosed})))
	require.NoError(t, dispatcher.Publish(ctx, events.New(events.EventCommentAdded, 4, 9, events.CommentAddedPayload{CommentID: 2})))

	assert.Equal(t, 1, logs.FilterMessage("ticket created").Len())
	assert.Equal(t, 1, logs.FilterMessage("ticket status changed").Len())
	assert.Equal(t, 1, logs.FilterMessage("comment added").Len())
	assert.Equal(t, 3, logs.FilterMessage("email notification queued").Len())
	// Comments do not trigger the webhook.
	assert.Equal(t, 2, logs.FilterMessage("webhook notification queued").Len())

	entry := logs.FilterMessage("ticket created").All()[0]
	assert.Equal(t, int64(4), entry.ContextMap()["ticket_id"])
}

func TestNotificationStubsDisabled(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	dispatcher := events.NewInMemoryDispatcher()
	NewNotificationService(dispatcher, zap.New(core), config.NotificationConfig{}).RegisterHandlers()

	require.NoError(t, dispatcher.Publish(context.Background(), events.New(events.EventTicketCreated, 1, 1, nil)))
	assert.Equal(t, 0, logs.FilterMessage("email notification queued").Len())
	assert.Equal(t, 0, logs.FilterMessage("webhook notification queued").Len())
}
