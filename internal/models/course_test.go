package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCourseAvailabilityFollowsSeats(t *testing.T) {
	cases := []struct {
		seats  int
		status CourseStatus
		want   Availability
		label  string
	}{
		{seats: 12, status: CourseStatusInactive, want: AvailabilityAvailable, label: "متاح"},
		{seats: 0, status: CourseStatusActive, want: AvailabilityFull, label: "مكتمل"},
		{seats: -1, status: CourseStatusActive, want: AvailabilityUnavailable, label: "غير متاح"},
	}
	for _, tc := range cases {
		course := Course{AvailableSeats: tc.seats, Status: tc.status}
		assert.Equal(t, tc.want, course.Availability())
		assert.Equal(t, tc.label, course.Availability().Label())
	}
}

func TestCourseViewMarshalsDerivedFields(t *testing.T) {
	view := NewCourseView(Course{ID: "c1", Title: "Go", AvailableSeats: 0, Category: &CategoryRef{Name: "Backend"}})
	raw, err := json.Marshal(view)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, "c1", decoded["id"])
	assert.Equal(t, "full", decoded["availability"])
	assert.Equal(t, "مكتمل", decoded["availabilityLabel"])
	assert.Equal(t, "Backend", view.CategoryName())
	assert.Equal(t, "", Course{}.CategoryName())
}

func TestCategoryCourseCount(t *testing.T) {
	assert.Equal(t, 0, Category{}.CourseCount())
	assert.Equal(t, 2, Category{Courses: []Course{{ID: "a"}, {ID: "b"}}}.CourseCount())
}

func TestLeadStatusValid(t *testing.T) {
	assert.True(t, LeadStatusConverted.Valid())
	assert.False(t, LeadStatus("archived").Valid())
	assert.True(t, TestimonialStatusApproved.Valid())
	assert.False(t, TestimonialStatus("").Valid())
}

func TestExportParamsScan(t *testing.T) {
	var params ExportParams
	require.NoError(t, params.Scan([]byte(`{"format":"pdf","status":"pending"}`)))
	assert.Equal(t, ExportFormatPDF, params.Format)
	assert.Equal(t, LeadStatusPending, params.Status)

	require.NoError(t, params.Scan(nil))
	assert.Equal(t, ExportParams{}, params)
	assert.Error(t, params.Scan(42))
}
