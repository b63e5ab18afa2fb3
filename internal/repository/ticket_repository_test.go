package repository

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spec-kit/helpdesk/internal/domain"
)

func TestBuildTicketListQuery(t *testing.T) {
	owner := int64(7)
	closed := domain.TicketStatusClosed

	tests := []struct {
		name   string
		filter TicketFilter
		where  string
		args   []any
	}{
		{
			name:   "unfiltered",
			filter: TicketFilter{},
			where:  "",
			args:   []any{},
		},
		{
			name:   "owner",
			filter: TicketFilter{OwnerID: &owner},
			where:  " WHERE t.owner_id = $1",
			args:   []any{int64(7)},
		},
		{
			name:   "status",
			filter: TicketFilter{Status: &closed},
			where:  " WHERE t.status = $1",
			args:   []any{"closed"},
		},
		{
			name:   "owner and status",
			filter: TicketFilter{OwnerID: &owner, Status: &closed},
			where:  " WHERE t.owner_id = $1 AND t.status = $2",
			args:   []any{int64(7), "closed"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			query, args := buildTicketListQuery(tc.filter)

			assert.True(t, strings.HasPrefix(query, ticketSelect), query)
			assert.Equal(t, ticketSelect+tc.where+" ORDER BY t.created_at DESC, t.id DESC", query)
			assert.Equal(t, tc.args, args)
		})
	}
}

func TestBuildTicketListQueryLimit(t *testing.T) {
	closed := domain.TicketStatusClosed

	query, args := buildTicketListQuery(TicketFilter{Status: &closed, Limit: 5})

	assert.True(t, strings.HasSuffix(query, " ORDER BY t.created_at DESC, t.id DESC LIMIT $2"), query)
	assert.Equal(t, []any{"closed", 5}, args)
}
