package service

import (
	"strings"

	"github.com/noah-isme/academy-admin/internal/models"
)

// filterAll is the select value meaning "no constraint".
const filterAll = "all"

func unconstrained(value string) bool {
	return value == "" || value == filterAll
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

// FilterLeads keeps leads whose name or program contains search case-insensitively, or
// whose phone contains it verbatim, and whose status matches.
func FilterLeads(leads []models.Lead, f models.LeadFilter) []models.Lead {
	out := make([]models.Lead, 0, len(leads))
	for _, lead := range leads {
		matchesSearch := containsFold(lead.Name, f.Search) ||
			strings.Contains(lead.Phone, f.Search) ||
			containsFold(lead.SelectedProgram, f.Search)
		matchesStatus := unconstrained(string(f.Status)) || lead.Status == f.Status
		if matchesSearch && matchesStatus {
			out = append(out, lead)
		}
	}
	return out
}

// FilterCourses keeps courses whose title contains search and whose embedded category
// name equals the requested one.
func FilterCourses(courses []models.Course, f models.CourseFilter) []models.Course {
	out := make([]models.Course, 0, len(courses))
	for _, course := range courses {
		if !containsFold(course.Title, f.Search) {
			continue
		}
		if !unconstrained(f.Category) && course.CategoryName() != f.Category {
			continue
		}
		out = append(out, course)
	}
	return out
}

// FilterTestimonials applies the moderation screen filters. A zero rating matches all.
func FilterTestimonials(items []models.Testimonial, f models.TestimonialFilter) []models.Testimonial {
	out := make([]models.Testimonial, 0, len(items))
	for _, t := range items {
		matchesSearch := containsFold(t.StudentName, f.Search) ||
			containsFold(t.CourseName, f.Search) ||
			containsFold(t.Comment, f.Search)
		if !matchesSearch {
			continue
		}
		if !unconstrained(string(f.Status)) && t.Status != f.Status {
			continue
		}
		if !unconstrained(f.Course) && t.CourseName != f.Course {
			continue
		}
		if f.Rating != 0 && t.Rating != f.Rating {
			continue
		}
		out = append(out, t)
	}
	return out
}

// CountLeadsByStatus tallies leads per status, including statuses with no leads.
func CountLeadsByStatus(leads []models.Lead) map[models.LeadStatus]int {
	counts := make(map[models.LeadStatus]int, len(models.LeadStatuses))
	for _, status := range models.LeadStatuses {
		counts[status] = 0
	}
	for _, lead := range leads {
		counts[lead.Status]++
	}
	return counts
}
