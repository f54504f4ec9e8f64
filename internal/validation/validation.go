// Package validation checks lead form input and returns field-level errors with the
// Arabic messages shown on the dashboard forms.
package validation

import (
	"strings"
	"unicode/utf8"

	"github.com/noah-isme/academy-admin/internal/models"
)

const (
	nameMin    = 2
	nameMax    = 100
	messageMin = 10
	messageMax = 1000
)

// FieldError is a single failed rule.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Result aggregates the errors of one or more validators.
type Result struct {
	IsValid bool         `json:"isValid"`
	Errors  []FieldError `json:"errors"`
}

func result(errs ...FieldError) Result {
	if errs == nil {
		errs = []FieldError{}
	}
	return Result{IsValid: len(errs) == 0, Errors: errs}
}

func merge(results ...Result) Result {
	var errs []FieldError
	for _, r := range results {
		errs = append(errs, r.Errors...)
	}
	return result(errs...)
}

func blank(value string) bool {
	return strings.TrimSpace(value) == ""
}

func length(value string) int {
	return utf8.RuneCountInString(strings.TrimSpace(value))
}

// ValidateName requires 2 to 100 characters after trimming.
func ValidateName(name string) Result {
	switch n := length(name); {
	case n == 0:
		return result(FieldError{Field: "name", Message: "الاسم مطلوب"})
	case n < nameMin:
		return result(FieldError{Field: "name", Message: "الاسم يجب أن يكون على الأقل حرفين"})
	case n > nameMax:
		return result(FieldError{Field: "name", Message: "الاسم يجب أن يكون أقل من 100 حرف"})
	}
	return result()
}

// ValidateProgram requires a selected program.
func ValidateProgram(program string) Result {
	if blank(program) {
		return result(FieldError{Field: "selectedProgram", Message: "البرنامج المختار مطلوب"})
	}
	return result()
}

// ValidateLearningPreference requires a learning preference.
func ValidateLearningPreference(preference string) Result {
	if blank(preference) {
		return result(FieldError{Field: "learningPreference", Message: "تفضيل التعلم مطلوب"})
	}
	return result()
}

// ValidateMessage requires 10 to 1000 characters after trimming.
func ValidateMessage(message string) Result {
	switch n := length(message); {
	case n == 0:
		return result(FieldError{Field: "message", Message: "الرسالة مطلوبة"})
	case n < messageMin:
		return result(FieldError{Field: "message", Message: "الرسالة يجب أن تكون على الأقل 10 أحرف"})
	case n > messageMax:
		return result(FieldError{Field: "message", Message: "الرسالة يجب أن تكون أقل من 1000 حرف"})
	}
	return result()
}

// ValidateVoiceMessage requires a voice message reference. Only creation checks it.
func ValidateVoiceMessage(voiceMessage string) Result {
	if blank(voiceMessage) {
		return result(FieldError{Field: "voiceMessage", Message: "الرسالة الصوتية مطلوبة"})
	}
	return result()
}

// ValidateCreateLead runs every lead rule, including phone and voice message.
func ValidateCreateLead(req models.CreateLeadRequest) Result {
	return merge(
		ValidateName(req.Name),
		ValidatePhoneNumber(req.Phone),
		ValidateProgram(req.SelectedProgram),
		ValidateLearningPreference(req.LearningPreference),
		ValidateMessage(req.Message),
		ValidateVoiceMessage(req.VoiceMessage),
	)
}

// ValidateUpdateLead skips phone and voice message, which cannot change after creation.
func ValidateUpdateLead(req models.UpdateLeadRequest) Result {
	return merge(
		ValidateName(req.Name),
		ValidateProgram(req.SelectedProgram),
		ValidateLearningPreference(req.LearningPreference),
		ValidateMessage(req.Message),
	)
}

// FieldMessage returns the first message reported for field, or "" when it passed.
func FieldMessage(errs []FieldError, field string) string {
	for _, e := range errs {
		if e.Field == field {
			return e.Message
		}
	}
	return ""
}
