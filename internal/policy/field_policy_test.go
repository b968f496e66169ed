package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pedro-it/portal-api/internal/domain"
)

func TestTicketUpdateDecision(t *testing.T) {
	tests := []struct {
		name  string
		role  domain.Role
		field Field
		want  Decision
	}{
		{"admin sets status", domain.RoleAdmin, FieldStatus, Allow},
		{"admin sets priority", domain.RoleAdmin, FieldPriority, Allow},
		{"client status is dropped", domain.RoleClient, FieldStatus, Ignore},
		{"client sets priority", domain.RoleClient, FieldPriority, Allow},
		{"unknown role denied", domain.Role("GUEST"), FieldStatus, Deny},
		{"unknown field denied", domain.RoleAdmin, Field("assignee"), Deny},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TicketUpdateDecision(tt.role, tt.field))
		})
	}
}
