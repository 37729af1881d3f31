// internal/models/lead.go
package models

import "time"

// Lead is a raw pipeline record as provided by the lead source collaborator.
// Optional fields use pointers so missing data stays distinguishable from
// zero values; every scorer degrades gracefully when they are nil.
type Lead struct {
	ID        int64      `json:"id"`
	Name      string     `json:"name"`
	Phone     string     `json:"phone"`
	Email     *string    `json:"email,omitempty"`
	Source    string     `json:"source"`
	Budget    *float64   `json:"budget,omitempty"`
	Notes     *string    `json:"notes,omitempty"`
	Status    string     `json:"status"`
	CreatedAt time.Time  `json:"createdAt"`
	Followups []Followup `json:"followups"`
}

// Followup is a follow-up touch on a lead, ordered by creation time.
type Followup struct {
	ID        int64     `json:"id"`
	LeadID    int64     `json:"leadId"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}
