package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets. Any status may follow any other.
type TicketStatus string

const (
	TicketStatusOpen   TicketStatus = "open"
	TicketStatusPaused TicketStatus = "paused"
	TicketStatusClosed TicketStatus = "closed"
)

// TicketStatuses lists every status in dashboard order.
var TicketStatuses = []TicketStatus{TicketStatusOpen, TicketStatusPaused, TicketStatusClosed}

// Valid reports whether s is a known status.
func (s TicketStatus) Valid() bool {
	switch s {
	case TicketStatusOpen, TicketStatusPaused, TicketStatusClosed:
		return true
	}
	return false
}

// Ticket is a support request.
type Ticket struct {
	ID          int64
	Title       string
	Description string
	OwnerID     int64
	OwnerName   string
	Status      TicketStatus
	CreatedAt   time.Time
	// ResponseTime is stored but never written by any operation.
	ResponseTime time.Duration
}

// StatusCounts aggregates tickets per status.
type StatusCounts struct {
	Open   int `json:"open"`
	Paused int `json:"paused"`
	Closed int `json:"closed"`
}

// Set records n tickets for status s. Unknown statuses are ignored.
func (c *StatusCounts) Set(s TicketStatus, n int) {
	switch s {
	case TicketStatusOpen:
		c.Open = n
	case TicketStatusPaused:
		c.Paused = n
	case TicketStatusClosed:
		c.Closed = n
	}
}

// Total returns the number of tickets across all statuses.
func (c StatusCounts) Total() int {
	return c.Open + c.Paused + c.Closed
}
