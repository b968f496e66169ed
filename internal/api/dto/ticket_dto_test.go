package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pedro-it/portal-api/internal/domain"
	apperrors "github.com/pedro-it/portal-api/pkg/util"
)

func TestValidateCreateTicketRequestAccepted(t *testing.T) {
	err := Validate(CreateTicketRequest{
		Title:       "Se cayó el servidor",
		Description: "El servidor de archivos no responde desde esta mañana.",
		Category:    "HARDWARE",
	})
	assert.NoError(t, err)

	// Explicit priority is accepted too.
	err = Validate(CreateTicketRequest{
		Title:       "Se cayó el servidor",
		Description: "El servidor de archivos no responde desde esta mañana.",
		Category:    "HARDWARE",
		Priority:    domain.TicketPriorityUrgent,
	})
	assert.NoError(t, err)
}

func TestValidateCreateTicketRequestFieldErrors(t *testing.T) {
	tests := []struct {
		name    string
		req     CreateTicketRequest
		field   string
		message string
	}{
		{
			name:    "title too short",
			req:     CreateTicketRequest{Title: "Ayu", Description: "La impresora no enciende.", Category: "HARDWARE"},
			field:   "title",
			message: "must be at least 5 characters",
		},
		{
			name:    "description too short",
			req:     CreateTicketRequest{Title: "Impresora rota", Description: "Ayuda", Category: "HARDWARE"},
			field:   "description",
			message: "must be at least 10 characters",
		},
		{
			name:    "category required",
			req:     CreateTicketRequest{Title: "Impresora rota", Description: "La impresora no enciende."},
			field:   "category",
			message: "is required",
		},
		{
			name: "priority outside the enum",
			req: CreateTicketRequest{
				Title:       "Impresora rota",
				Description: "La impresora no enciende.",
				Category:    "HARDWARE",
				Priority:    domain.TicketPriority("CRITICAL"),
			},
			field:   "priority",
			message: "must be one of: LOW MEDIUM HIGH URGENT",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.req)
			require.Error(t, err)
			de := apperrors.ToDomainError(err)
			assert.Equal(t, "VALIDATION_FAILED", de.Code)
			require.Contains(t, de.Details, tt.field)
			assert.Equal(t, tt.message, de.Details[tt.field])
		})
	}
}

func TestValidateEmptyRequestReportsEveryField(t *testing.T) {
	err := Validate(CreateTicketRequest{})
	require.Error(t, err)
	de := apperrors.ToDomainError(err)
	assert.Contains(t, de.Details, "title")
	assert.Contains(t, de.Details, "description")
	assert.Contains(t, de.Details, "category")
}
