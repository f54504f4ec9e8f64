package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/academy-admin/internal/models"
)

func validCreate() models.CreateLeadRequest {
	return models.CreateLeadRequest{
		Name:               "Ali",
		Phone:              "01012345678",
		SelectedProgram:    "backend",
		LearningPreference: "online",
		Message:            "I would like to join the next cohort",
		VoiceMessage:       "voice/abc.webm",
	}
}

func fields(res Result) []string {
	out := make([]string, 0, len(res.Errors))
	for _, e := range res.Errors {
		out = append(out, e.Field)
	}
	return out
}

func TestValidateName(t *testing.T) {
	assert.Equal(t, "الاسم مطلوب", FieldMessage(ValidateName("   ").Errors, "name"))
	assert.Equal(t, "الاسم يجب أن يكون على الأقل حرفين", FieldMessage(ValidateName(" A ").Errors, "name"))
	assert.Equal(t, "الاسم يجب أن يكون أقل من 100 حرف", FieldMessage(ValidateName(strings.Repeat("a", 101)).Errors, "name"))
	assert.True(t, ValidateName("Al").IsValid)
	assert.True(t, ValidateName(strings.Repeat("ع", 100)).IsValid)
}

func TestValidateMessage(t *testing.T) {
	assert.Equal(t, "الرسالة مطلوبة", FieldMessage(ValidateMessage("").Errors, "message"))
	assert.Equal(t, "الرسالة يجب أن تكون على الأقل 10 أحرف", FieldMessage(ValidateMessage("short").Errors, "message"))
	assert.Equal(t, "الرسالة يجب أن تكون أقل من 1000 حرف", FieldMessage(ValidateMessage(strings.Repeat("x", 1001)).Errors, "message"))
	assert.True(t, ValidateMessage("   exactly10!   ").IsValid)
}

func TestValidateRequiredFields(t *testing.T) {
	assert.Equal(t, []string{"selectedProgram"}, fields(ValidateProgram(" ")))
	assert.Equal(t, []string{"learningPreference"}, fields(ValidateLearningPreference("")))
	assert.Equal(t, []string{"voiceMessage"}, fields(ValidateVoiceMessage("\t")))
	assert.True(t, ValidateProgram("frontend").IsValid)
}

func TestValidateCreateLeadShortMessageOnly(t *testing.T) {
	req := validCreate()
	req.Message = "hello"

	res := ValidateCreateLead(req)
	assert.False(t, res.IsValid)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, "message", res.Errors[0].Field)
}

func TestValidateCreateLeadUnionOfFailures(t *testing.T) {
	res := ValidateCreateLead(models.CreateLeadRequest{Name: "A", Phone: "123", Message: "long enough text"})
	assert.False(t, res.IsValid)
	assert.Equal(t, []string{"name", "phone", "selectedProgram", "learningPreference", "voiceMessage"}, fields(res))

	ok := ValidateCreateLead(validCreate())
	assert.True(t, ok.IsValid)
	assert.Empty(t, ok.Errors)
	assert.NotNil(t, ok.Errors)
}

func TestValidateUpdateLeadIgnoresImmutableFields(t *testing.T) {
	res := ValidateUpdateLead(models.UpdateLeadRequest{
		Name:               "Mona",
		SelectedProgram:    "backend",
		LearningPreference: "offline",
		Message:            "updated message text",
	})
	assert.True(t, res.IsValid)

	res = ValidateUpdateLead(models.UpdateLeadRequest{})
	for _, e := range res.Errors {
		assert.NotEqual(t, "phone", e.Field)
		assert.NotEqual(t, "voiceMessage", e.Field)
	}
	assert.Len(t, res.Errors, 4)
}

func TestValidatePhoneNumber(t *testing.T) {
	valid := []string{"01012345678", "+201112345678", "1212345678", "0155 123 4567", "+20 10 1234 5678"}
	for _, phone := range valid {
		assert.True(t, ValidatePhoneNumber(phone).IsValid, phone)
	}

	assert.Equal(t, "رقم الهاتف مطلوب", FieldMessage(ValidatePhoneNumber(" ").Errors, "phone"))
	invalid := []string{"01312345678", "0101234567", "+966512345678", "phone"}
	for _, phone := range invalid {
		res := ValidatePhoneNumber(phone)
		assert.Equal(t, "رقم الهاتف غير صحيح. يجب أن يكون بالتنسيق: +20 XX XXXX XXXX", FieldMessage(res.Errors, "phone"), phone)
	}
	assert.True(t, ValidatePhoneNumberIn("01012345678", Country("SA")).IsValid)
}

func TestFormatPhoneNumber(t *testing.T) {
	assert.Equal(t, "+20 10 1234 5678", FormatPhoneNumber("01012345678"))
	assert.Equal(t, "+20 11 1234 5678", FormatPhoneNumber("+201112345678"))
	assert.Equal(t, "+20 15 1234 5678", FormatPhoneNumber("15 1234 5678"))
	assert.Equal(t, "", FormatPhoneNumber(""))

	for _, raw := range []string{"12345", "0131 234 5678", "not a phone"} {
		assert.Equal(t, raw, FormatPhoneNumber(raw))
		assert.Equal(t, raw, FormatPhoneNumber(FormatPhoneNumber(raw)))
	}

	formatted := FormatPhoneNumber("01012345678")
	assert.True(t, IsPhoneNumber(formatted))
	assert.Equal(t, formatted, FormatPhoneNumber(formatted))
}

func TestNewValidatorReportsJSONFields(t *testing.T) {
	v := NewValidator()

	err := v.Struct(models.LoginRequest{Phone: "0123", Password: ""})
	errs := FromValidator(err)
	require.Len(t, errs, 2)
	assert.Equal(t, "phone", errs[0].Field)
	assert.Equal(t, "رقم الهاتف غير صحيح. يجب أن يكون بالتنسيق: +20 XX XXXX XXXX", errs[0].Message)
	assert.Equal(t, "password", errs[1].Field)
	assert.Equal(t, "هذا الحقل مطلوب", errs[1].Message)

	assert.NoError(t, v.Struct(models.LoginRequest{Phone: "01012345678", Password: "secret"}))
	assert.Nil(t, FromValidator(assert.AnError))
}

func TestNewValidatorNestedPaths(t *testing.T) {
	err := NewValidator().Struct(models.CreateCourseRequest{
		Title:       "Go",
		Summary:     "s",
		Description: "d",
		CategoryID:  "c",
		Features:    []string{"ok", ""},
	})
	errs := FromValidator(err)
	require.Len(t, errs, 1)
	assert.Equal(t, "features[1]", errs[0].Field)
}
