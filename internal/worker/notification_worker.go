package worker

import (
	"github.com/spec-kit/helpdesk/internal/events"
	"github.com/spec-kit/helpdesk/internal/service"
)

// StartEventHandlers subscribes notification delivery and dashboard cache
// invalidation to ticket events. Handlers run synchronously on publish.
func StartEventHandlers(dispatcher events.Dispatcher, notifications *service.NotificationService, dashboard *service.DashboardService) {
	if notifications != nil {
		notifications.RegisterHandlers()
	}
	if dashboard != nil {
		dashboard.RegisterHandlers(dispatcher)
	}
}
