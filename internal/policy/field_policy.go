// Package policy declares field-level authorization for mutable request
// fields: per (role, field) a request value is either applied, silently
// ignored, or denied. The silent-ignore outcome exists because clients
// including a ticket status in an update payload must have it dropped, not
// rejected.
package policy

import "github.com/pedro-it/portal-api/internal/domain"

// Decision is the outcome for one field of one role's request.
type Decision int

const (
	Allow Decision = iota
	Ignore
	Deny
)

// Field names ticket update payload fields subject to policy.
type Field string

const (
	FieldStatus   Field = "status"
	FieldPriority Field = "priority"
)

// ticketUpdatePolicy maps (role, field) to the decision applied before the
// update reaches the lifecycle engine.
var ticketUpdatePolicy = map[domain.Role]map[Field]Decision{
	domain.RoleAdmin: {
		FieldStatus:   Allow,
		FieldPriority: Allow,
	},
	domain.RoleClient: {
		FieldStatus:   Ignore,
		FieldPriority: Allow,
	},
}

// TicketUpdateDecision returns the decision for a role mutating the given
// ticket field. Unknown roles are denied everything.
func TicketUpdateDecision(role domain.Role, field Field) Decision {
	fields, ok := ticketUpdatePolicy[role]
	if !ok {
		return Deny
	}
	decision, ok := fields[field]
	if !ok {
		return Deny
	}
	return decision
}
