package service

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/academy-admin/internal/models"
	"github.com/noah-isme/academy-admin/pkg/apiclient"
)

func TestLeadServiceGetAllLeads(t *testing.T) {
	up := newUpstream(t, ok(map[string]interface{}{
		"total": 1,
		"leads": []map[string]interface{}{{"id": "l1", "name": "Ali", "phone": "01012345678", "status": "pending"}},
	}))
	svc := NewLeadService(up.client, nil)

	list, err := svc.GetAllLeads(context.Background())
	require.NoError(t, err)
	assert.Equal(t, http.MethodGet, up.method)
	assert.Equal(t, "/api/v1/leads", up.path)
	assert.Equal(t, 1, list.Total)
	require.Len(t, list.Leads, 1)
	assert.Equal(t, models.LeadStatusPending, list.Leads[0].Status)
}

func TestLeadServiceGetAllLeadsNormalizesMissingList(t *testing.T) {
	up := newUpstream(t, ok(map[string]interface{}{"total": 0}))
	list, err := NewLeadService(up.client, nil).GetAllLeads(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, list.Leads)
	assert.Empty(t, list.Leads)
}

func TestLeadServiceRejectionUsesFallbackMessage(t *testing.T) {
	up := newUpstream(t, func(w http.ResponseWriter, _ *http.Request) {
		writeEnvelope(w, http.StatusOK, map[string]interface{}{"success": false})
	})
	_, err := NewLeadService(up.client, nil).GetAllLeads(context.Background())
	require.Error(t, err)
	assert.Equal(t, "Failed to fetch leads", err.Error())
	assert.True(t, errors.Is(err, apiclient.ErrRejected))
}

func TestLeadServiceRejectionPrefersServerMessage(t *testing.T) {
	up := newUpstream(t, func(w http.ResponseWriter, _ *http.Request) {
		writeEnvelope(w, http.StatusOK, map[string]interface{}{"success": false, "message": "Lead already exists", "error": map[string]string{"code": "DUPLICATE"}})
	})
	_, err := NewLeadService(up.client, nil).CreateLead(context.Background(), models.CreateLeadRequest{Name: "Ali"})
	require.Error(t, err)
	assert.Equal(t, "Lead already exists", err.Error())

	var rejected *apiclient.RejectedError
	require.True(t, errors.As(err, &rejected))
	assert.Equal(t, "DUPLICATE", rejected.Code)
}

func TestLeadServiceUpdateLeadStatusSendsOnlyStatus(t *testing.T) {
	up := newUpstream(t, ok(map[string]interface{}{"id": "l1", "status": "contacted"}))
	lead, err := NewLeadService(up.client, nil).UpdateLeadStatus(context.Background(), "l1", models.LeadStatusContacted)
	require.NoError(t, err)

	assert.Equal(t, http.MethodPut, up.method)
	assert.Equal(t, "/api/v1/leads/l1", up.path)
	assert.Equal(t, map[string]interface{}{"status": "contacted"}, up.body)
	assert.Equal(t, models.LeadStatusContacted, lead.Status)
}

func TestLeadServiceUpdateLeadNeverSendsPhone(t *testing.T) {
	up := newUpstream(t, ok(map[string]interface{}{"id": "l1"}))
	_, err := NewLeadService(up.client, nil).UpdateLead(context.Background(), "l1", models.UpdateLeadRequest{Name: "Ali", Message: "hello there"})
	require.NoError(t, err)
	assert.NotContains(t, up.body, "phone")
	assert.NotContains(t, up.body, "voiceMessage")
	assert.NotContains(t, up.body, "status")
}

func TestLeadServiceDeleteEscapesID(t *testing.T) {
	up := newUpstream(t, func(w http.ResponseWriter, _ *http.Request) {
		writeEnvelope(w, http.StatusOK, map[string]interface{}{"success": true, "message": "deleted"})
	})
	require.NoError(t, NewLeadService(up.client, nil).DeleteLead(context.Background(), "a/b"))
	assert.Equal(t, http.MethodDelete, up.method)
	assert.Equal(t, "/api/v1/leads/a%2Fb", up.path)
}

func TestLeadServiceTransportErrorsPassThrough(t *testing.T) {
	up := newUpstream(t, func(w http.ResponseWriter, _ *http.Request) {
		writeEnvelope(w, http.StatusNotFound, map[string]interface{}{"success": false, "message": "Lead not found"})
	})
	err := NewLeadService(up.client, nil).DeleteLead(context.Background(), "missing")
	apiErr, ok := apiclient.AsError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Equal(t, "Lead not found", apiErr.Message)
}

func TestLeadServiceDeleteIgnoresPayloadShape(t *testing.T) {
	for name, data := range map[string]interface{}{
		"string": "Lead deleted successfully",
		"bool":   true,
		"array":  []string{},
		"object": map[string]string{"id": "l1"},
	} {
		t.Run(name, func(t *testing.T) {
			up := newUpstream(t, ok(data))
			assert.NoError(t, NewLeadService(up.client, nil).DeleteLead(context.Background(), "l1"))
		})
	}
}

func TestLeadServiceDeleteRejectedByServer(t *testing.T) {
	up := newUpstream(t, func(w http.ResponseWriter, _ *http.Request) {
		writeEnvelope(w, http.StatusOK, map[string]interface{}{"success": false, "message": "not found"})
	})
	err := NewLeadService(up.client, nil).DeleteLead(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, "not found", err.Error())
	assert.True(t, errors.Is(err, apiclient.ErrRejected))
}
