package validation

import (
	"regexp"
	"strings"
)

// Country selects a phone numbering plan.
type Country string

// CountryEgypt is the only plan implemented so far.
const CountryEgypt Country = "EG"

type phonePlan struct {
	pattern *regexp.Regexp
	format  string
}

var (
	whitespace = regexp.MustCompile(`\s+`)

	phonePlans = map[Country]phonePlan{
		CountryEgypt: {
			pattern: regexp.MustCompile(`^(\+20|0)?(1[0125])([0-9]{8})$`),
			format:  "+20 XX XXXX XXXX",
		},
	}
)

func compact(phone string) string {
	return whitespace.ReplaceAllString(phone, "")
}

// ValidatePhoneNumber checks an Egyptian mobile number. Whitespace is ignored.
func ValidatePhoneNumber(phone string) Result {
	return ValidatePhoneNumberIn(phone, CountryEgypt)
}

// ValidatePhoneNumberIn checks phone against the plan of country. Unknown countries fall
// back to the Egyptian plan.
func ValidatePhoneNumberIn(phone string, country Country) Result {
	if strings.TrimSpace(phone) == "" {
		return result(FieldError{Field: "phone", Message: "رقم الهاتف مطلوب"})
	}
	plan := planFor(country)
	if !plan.pattern.MatchString(compact(phone)) {
		return result(FieldError{Field: "phone", Message: "رقم الهاتف غير صحيح. يجب أن يكون بالتنسيق: " + plan.format})
	}
	return result()
}

// IsPhoneNumber reports whether phone is a valid Egyptian mobile number.
func IsPhoneNumber(phone string) bool {
	return ValidatePhoneNumber(phone).IsValid
}

// FormatPhoneNumber renders a valid Egyptian number as "+20 XX XXXX XXXX".
// Anything else is returned unchanged.
func FormatPhoneNumber(phone string) string {
	if phone == "" {
		return ""
	}
	m := planFor(CountryEgypt).pattern.FindStringSubmatch(compact(phone))
	if m == nil {
		return phone
	}
	prefix, number := m[2], m[3]
	return "+20 " + prefix + " " + number[:4] + " " + number[4:]
}

func planFor(country Country) phonePlan {
	if plan, ok := phonePlans[country]; ok {
		return plan
	}
	return phonePlans[CountryEgypt]
}
