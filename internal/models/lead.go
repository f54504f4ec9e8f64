package models

import "time"

// LeadStatus tracks a prospective student through the sales funnel.
type LeadStatus string

const (
	LeadStatusPending   LeadStatus = "pending"
	LeadStatusContacted LeadStatus = "contacted"
	LeadStatusConverted LeadStatus = "converted"
	LeadStatusRejected  LeadStatus = "rejected"
)

// LeadStatuses lists every status in funnel order.
var LeadStatuses = []LeadStatus{LeadStatusPending, LeadStatusContacted, LeadStatusConverted, LeadStatusRejected}

// Valid reports whether s is a known lead status.
func (s LeadStatus) Valid() bool {
	for _, known := range LeadStatuses {
		if s == known {
			return true
		}
	}
	return false
}

var leadStatusLabels = map[LeadStatus]string{
	LeadStatusPending:   "في الانتظار",
	LeadStatusContacted: "تم التواصل",
	LeadStatusConverted: "تم التحويل",
	LeadStatusRejected:  "مرفوض",
}

// Label returns the Arabic display label, or the raw value for unknown statuses.
func (s LeadStatus) Label() string {
	if label, ok := leadStatusLabels[s]; ok {
		return label
	}
	return string(s)
}

// Lead is a prospective student registration.
type Lead struct {
	ID                 string     `json:"id"`
	Name               string     `json:"name"`
	Phone              string     `json:"phone"`
	SelectedProgram    string     `json:"selectedProgram"`
	LearningPreference string     `json:"learningPreference"`
	Message            string     `json:"message"`
	VoiceMessage       string     `json:"voiceMessage"`
	Status             LeadStatus `json:"status"`
	AdminNote          *string    `json:"adminNote"`
	CreatedAt          time.Time  `json:"createdAt"`
	UpdatedAt          time.Time  `json:"updatedAt"`
}

// CreateLeadRequest is the only payload that may carry phone and voice message.
type CreateLeadRequest struct {
	Name               string `json:"name"`
	Phone              string `json:"phone"`
	SelectedProgram    string `json:"selectedProgram"`
	LearningPreference string `json:"learningPreference"`
	Message            string `json:"message"`
	VoiceMessage       string `json:"voiceMessage"`
}

// UpdateLeadRequest omits phone and voice message, which are immutable after creation.
type UpdateLeadRequest struct {
	Name               string     `json:"name"`
	SelectedProgram    string     `json:"selectedProgram"`
	LearningPreference string     `json:"learningPreference"`
	Message            string     `json:"message"`
	Status             LeadStatus `json:"status,omitempty"`
}

// UpdateLeadStatusRequest changes only the status of a lead.
type UpdateLeadStatusRequest struct {
	Status LeadStatus `json:"status" validate:"required,oneof=pending contacted converted rejected"`
}

// LeadList is the payload of GET /api/v1/leads.
type LeadList struct {
	Total int    `json:"total"`
	Leads []Lead `json:"leads"`
}

// LeadFilter narrows a lead listing on the dashboard.
type LeadFilter struct {
	Search string
	Status LeadStatus
}
