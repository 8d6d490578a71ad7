// Package validation holds the field rules shared by the registration form
// and the registration service. Both sides read the same Schema so that the
// client hints and the server checks cannot drift apart.
package validation

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Kind is the value type a field is cast to before its rule runs.
type Kind int

const (
	KindString Kind = iota
	KindInt
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "String"
	case KindInt:
		return "Number"
	default:
		return "Unknown"
	}
}

// Rule describes one field of a record.
type Rule struct {
	Field       string
	Label       string
	Placeholder string
	// EmptyHint is shown by the form next to a blank field after submit.
	EmptyHint string

	Kind      Kind
	Required  bool
	Trim      bool
	Lowercase bool
	Min       *int
	Max       *int

	Pattern        *regexp.Regexp
	PatternMessage string
}

// Schema is an ordered set of rules.
type Schema []Rule

// Errors maps a field name to the first violation found for it.
type Errors map[string]string

func (e Errors) Error() string {
	parts := make([]string, 0, len(e))
	for _, field := range e.Fields() {
		parts = append(parts, field+": "+e[field])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Fields returns the failing field names in sorted order.
func (e Errors) Fields() []string {
	fields := make([]string, 0, len(e))
	for field := range e {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	return fields
}

func intPtr(v int) *int { return &v }

// EmailPattern is the loose local@domain.tld shape accepted for emails.
var EmailPattern = regexp.MustCompile(`.+@.+\..+`)

// UserSchema describes a registration record.
var UserSchema = Schema{
	{
		Field:       "firstName",
		Label:       "First Name",
		Placeholder: "First Name",
		EmptyHint:   "Please enter a first name",
		Kind:        KindString,
		Required:    true,
		Trim:        true,
	},
	{
		Field:       "lastName",
		Label:       "Last Name",
		Placeholder: "Last Name",
		EmptyHint:   "Please enter a last name",
		Kind:        KindString,
		Required:    true,
		Trim:        true,
	},
	{
		Field:       "age",
		Label:       "Age",
		Placeholder: "Age",
		EmptyHint:   "Please enter your age",
		Kind:        KindInt,
		Required:    true,
		Min:         intPtr(0),
		Max:         intPtr(120),
	},
	{
		Field:          "email",
		Label:          "Email",
		Placeholder:    "Email",
		EmptyHint:      "Please enter an email address",
		Kind:           KindString,
		Required:       true,
		Trim:           true,
		Lowercase:      true,
		Pattern:        EmailPattern,
		PatternMessage: "Please enter a valid email address",
	},
}

// Fields returns the field names in schema order.
func (s Schema) Fields() []string {
	fields := make([]string, 0, len(s))
	for _, rule := range s {
		fields = append(fields, rule.Field)
	}
	return fields
}

func (s Schema) Rule(field string) (Rule, bool) {
	for _, rule := range s {
		if rule.Field == field {
			return rule, true
		}
	}
	return Rule{}, false
}

// Blank reports which required fields hold a falsy value, in schema order.
// Numeric fields that parse to zero count as blank: a form left at age 0 is
// treated as if the age was never entered.
func (s Schema) Blank(values map[string]string) []string {
	blank := make([]string, 0)
	for _, rule := range s {
		if !rule.Required {
			continue
		}
		raw := values[rule.Field]
		if raw == "" {
			blank = append(blank, rule.Field)
			continue
		}
		if rule.Kind == KindInt {
			if n, ok := Number(raw); ok && n == 0 {
				blank = append(blank, rule.Field)
			}
		}
	}
	return blank
}

// Validate casts and normalizes doc according to the schema and collects one
// message per failing field. The returned document only carries fields that
// passed; it must not be persisted unless errs is empty.
func (s Schema) Validate(doc map[string]any) (map[string]any, Errors) {
	out := make(map[string]any, len(s))
	errs := Errors{}

	for _, rule := range s {
		raw, present := doc[rule.Field]
		if !present || raw == nil || (rule.Kind == KindInt && IsBlank(raw)) {
			if rule.Required {
				errs[rule.Field] = requiredMessage(rule.Field)
			}
			continue
		}

		switch rule.Kind {
		case KindString:
			value, ok := castString(raw)
			if !ok {
				errs[rule.Field] = castMessage(rule, raw)
				continue
			}
			if rule.Trim {
				value = strings.TrimSpace(value)
			}
			if rule.Lowercase {
				value = strings.ToLower(value)
			}
			if value == "" {
				if rule.Required {
					errs[rule.Field] = requiredMessage(rule.Field)
				}
				continue
			}
			if rule.Pattern != nil && !rule.Pattern.MatchString(value) {
				errs[rule.Field] = rule.PatternMessage
				continue
			}
			out[rule.Field] = value

		case KindInt:
			n, ok := Number(raw)
			if !ok {
				errs[rule.Field] = castMessage(rule, raw)
				continue
			}
			if n != math.Trunc(n) {
				errs[rule.Field] = fmt.Sprintf("%s must be a whole number", rule.Field)
				continue
			}
			if rule.Min != nil && n < float64(*rule.Min) {
				errs[rule.Field] = fmt.Sprintf("%s must be at least %d", rule.Field, *rule.Min)
				continue
			}
			if rule.Max != nil && n > float64(*rule.Max) {
				errs[rule.Field] = fmt.Sprintf("%s must be at most %d", rule.Field, *rule.Max)
				continue
			}
			out[rule.Field] = int(n)
		}
	}

	return out, errs
}

// IsBlank reports whether v is null or a string holding only whitespace.
// Such values count as missing for numeric fields.
func IsBlank(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(t) == ""
	default:
		return false
	}
}

// Number interprets v as a number. JSON numbers and numeric strings are
// accepted; blank strings, booleans and composite values are not.
func Number(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, !math.IsNaN(n) && !math.IsInf(n, 0)
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

func castString(v any) (string, bool) {
	switch s := v.(type) {
	case string:
		return s, true
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64), true
	case int:
		return strconv.Itoa(s), true
	case int64:
		return strconv.FormatInt(s, 10), true
	case json.Number:
		return s.String(), true
	case bool:
		return strconv.FormatBool(s), true
	default:
		return "", false
	}
}

func requiredMessage(field string) string {
	return fmt.Sprintf("%s is required", field)
}

func castMessage(rule Rule, v any) string {
	return fmt.Sprintf("Cast to %s failed for value %v at path %q", rule.Kind, v, rule.Field)
}
