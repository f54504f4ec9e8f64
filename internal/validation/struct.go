package validation

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var tagMessages = map[string]string{
	"required": "هذا الحقل مطلوب",
	"min":      "القيمة أقل من الحد المسموح",
	"max":      "القيمة أكبر من الحد المسموح",
	"gte":      "القيمة أقل من الحد المسموح",
	"url":      "الرابط غير صحيح",
	"oneof":    "القيمة غير مسموحة",
	"egphone":  "رقم الهاتف غير صحيح. يجب أن يكون بالتنسيق: +20 XX XXXX XXXX",
}

// NewValidator returns a validator that reports JSON field names and understands the
// egphone tag.
func NewValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return field.Name
		}
		return name
	})
	_ = v.RegisterValidation("egphone", func(fl validator.FieldLevel) bool {
		return IsPhoneNumber(fl.Field().String())
	})
	return v
}

// FromValidator converts validator errors into field errors. Other errors yield nil.
func FromValidator(err error) []FieldError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		msg, ok := tagMessages[fe.Tag()]
		if !ok {
			msg = "القيمة غير صحيحة"
		}
		out = append(out, FieldError{Field: fieldPath(fe), Message: msg})
	}
	return out
}

// fieldPath drops the struct name from the namespace, keeping nested and indexed paths.
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}
