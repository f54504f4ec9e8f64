package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/noah-isme/academy-admin/internal/models"
	"github.com/noah-isme/academy-admin/pkg/apiclient"
)

// LeadService wraps the platform lead endpoints.
type LeadService struct {
	client *apiclient.Client
	logger *zap.Logger
}

// NewLeadService constructs a LeadService.
func NewLeadService(client *apiclient.Client, logger *zap.Logger) *LeadService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LeadService{client: client, logger: logger}
}

// GetAllLeads returns the full lead list.
func (s *LeadService) GetAllLeads(ctx context.Context) (*models.LeadList, error) {
	env, err := apiclient.Get[models.LeadList](ctx, s.client, endpointLeads, nil)
	list, err := unwrap(s.logger, "get leads", env, err, "Failed to fetch leads")
	if err != nil {
		return nil, err
	}
	if list.Leads == nil {
		list.Leads = []models.Lead{}
	}
	return list, nil
}

// CreateLead registers a new lead.
func (s *LeadService) CreateLead(ctx context.Context, req models.CreateLeadRequest) (*models.Lead, error) {
	env, err := apiclient.Post[models.Lead](ctx, s.client, endpointLeads, req)
	return unwrap(s.logger, "create lead", env, err, "Failed to create lead")
}

// UpdateLead edits the mutable fields of a lead.
func (s *LeadService) UpdateLead(ctx context.Context, id string, req models.UpdateLeadRequest) (*models.Lead, error) {
	env, err := apiclient.Put[models.Lead](ctx, s.client, resourcePath(endpointLeads, id), req)
	return unwrap(s.logger, "update lead", env, err, "Failed to update lead")
}

// UpdateLeadStatus sends only the new status, through the same endpoint as UpdateLead.
func (s *LeadService) UpdateLeadStatus(ctx context.Context, id string, status models.LeadStatus) (*models.Lead, error) {
	body := models.UpdateLeadStatusRequest{Status: status}
	env, err := apiclient.Put[models.Lead](ctx, s.client, resourcePath(endpointLeads, id), body)
	return unwrap(s.logger, "update lead status", env, err, "Failed to update lead status")
}

// DeleteLead removes a lead.
func (s *LeadService) DeleteLead(ctx context.Context, id string) error {
	env, err := apiclient.Delete[apiclient.Ack](ctx, s.client, resourcePath(endpointLeads, id))
	return confirm(s.logger, "delete lead", env, err, "Failed to delete lead")
}
