package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTicketStatusValid(t *testing.T) {
	for _, s := range TicketStatuses {
		assert.True(t, s.Valid(), s)
	}
	assert.False(t, TicketStatus("aberto").Valid())
	assert.False(t, TicketStatus("").Valid())
}

func TestRoleValid(t *testing.T) {
	assert.True(t, RoleAdmin.Valid())
	assert.True(t, RoleClient.Valid())
	assert.False(t, Role("cliente").Valid())
}

func TestStatusCounts(t *testing.T) {
	var counts StatusCounts
	counts.Set(TicketStatusOpen, 3)
	counts.Set(TicketStatusPaused, 1)
	counts.Set(TicketStatusClosed, 2)
	counts.Set(TicketStatus("archived"), 9)

	assert.Equal(t, StatusCounts{Open: 3, Paused: 1, Closed: 2}, counts)
	assert.Equal(t, 6, counts.Total())
}

func TestIsAdmin(t *testing.T) {
	var nobody *User
	assert.False(t, nobody.IsAdmin())
	assert.True(t, (&User{Role: RoleAdmin}).IsAdmin())
	assert.False(t, (&User{Role: RoleClient}).IsAdmin())
}
