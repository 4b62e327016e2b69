package validation

import (
	"fmt"
	"maps"
	"net/mail"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"
)

// ── Error bag ────────────────────────────────────────────────────────────────

// Errors collects messages per field. It encodes as
// {"errors": {"field": ["message"]}}.
type Errors struct {
	Bag map[string][]string `json:"errors"`
}

func (e *Errors) add(field, msg string) {
	if e.Bag == nil {
		e.Bag = make(map[string][]string)
	}
	e.Bag[field] = append(e.Bag[field], msg)
}

// Has reports whether any field failed.
func (e *Errors) Has() bool { return len(e.Bag) > 0 }

// First returns the first message for field, or "".
func (e *Errors) First(field string) string {
	if msgs := e.Bag[field]; len(msgs) > 0 {
		return msgs[0]
	}
	return ""
}

// Error joins the first message of every failed field, sorted by field.
func (e *Errors) Error() string {
	msgs := make([]string, 0, len(e.Bag))
	for _, field := range slices.Sorted(maps.Keys(e.Bag)) {
		msgs = append(msgs, e.First(field))
	}
	return strings.Join(msgs, " ")
}

// ── Rules ────────────────────────────────────────────────────────────────────

// Rules maps a field to its rule string, e.g. "required|max:50".
type Rules map[string]string

// check returns "" when value passes, the failure message otherwise.
type check func(data map[string]string, field, value, param string) string

var alphaDash = regexp.MustCompile(`^[\p{L}\p{N}_-]+$`)

var checks = map[string]check{
	"required": func(_ map[string]string, field, value, _ string) string {
		if strings.TrimSpace(value) == "" {
			return fmt.Sprintf("The %s field is required.", field)
		}
		return ""
	},
	"numeric": func(_ map[string]string, field, value, _ string) string {
		if _, err := strconv.ParseFloat(value, 64); err != nil {
			return fmt.Sprintf("The %s must be a number.", field)
		}
		return ""
	},
	"integer": func(_ map[string]string, field, value, _ string) string {
		if _, err := strconv.Atoi(value); err != nil {
			return fmt.Sprintf("The %s must be an integer.", field)
		}
		return ""
	},
	"email": func(_ map[string]string, field, value, _ string) string {
		if _, err := mail.ParseAddress(value); err != nil {
			return fmt.Sprintf("The %s must be a valid email address.", field)
		}
		return ""
	},
	"min": func(_ map[string]string, field, value, param string) string {
		if n := atoi(param); utf8.RuneCountInString(value) < n {
			return fmt.Sprintf("The %s must be at least %d characters.", field, n)
		}
		return ""
	},
	"max": func(_ map[string]string, field, value, param string) string {
		if n := atoi(param); utf8.RuneCountInString(value) > n {
			return fmt.Sprintf("The %s may not be greater than %d characters.", field, n)
		}
		return ""
	},
	"between": func(_ map[string]string, field, value, param string) string {
		lo, hi, _ := strings.Cut(param, ",")
		minLen, maxLen := atoi(lo), atoi(hi)
		if l := utf8.RuneCountInString(value); l < minLen || l > maxLen {
			return fmt.Sprintf("The %s must be between %d and %d characters.", field, minLen, maxLen)
		}
		return ""
	},
	"in": func(_ map[string]string, field, value, param string) string {
		for _, allowed := range strings.Split(param, ",") {
			if strings.TrimSpace(allowed) == value {
				return ""
			}
		}
		return fmt.Sprintf("The selected %s is invalid.", field)
	},
	"alpha_dash": func(_ map[string]string, field, value, _ string) string {
		if !alphaDash.MatchString(value) {
			return fmt.Sprintf("The %s may only contain letters, numbers, dashes and underscores.", field)
		}
		return ""
	},
	"same": func(data map[string]string, field, value, param string) string {
		if data[param] != value {
			return fmt.Sprintf("The %s and %s must match.", field, param)
		}
		return ""
	},
}

// ── Validator ────────────────────────────────────────────────────────────────

type rule struct {
	name, param string
}

// Validator checks one input map against its rules. The checks run once;
// later calls to Fails and Passes reuse the result.
type Validator struct {
	data   map[string]string
	fields []string
	rules  map[string][]rule
	errors *Errors
	ran    bool
}

// Make parses rules and returns a validator for data.
func Make(data map[string]string, rules Rules) *Validator {
	v := &Validator{
		data:   data,
		fields: slices.Sorted(maps.Keys(rules)),
		rules:  make(map[string][]rule, len(rules)),
		errors: &Errors{},
	}
	for field, spec := range rules {
		for _, part := range strings.Split(spec, "|") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			name, param, _ := strings.Cut(part, ":")
			if _, ok := checks[name]; !ok && name != "nullable" {
				panic(fmt.Sprintf("validation: unknown rule %q for field %q", name, field))
			}
			v.rules[field] = append(v.rules[field], rule{name: name, param: param})
		}
	}
	return v
}

// Fails reports whether any rule failed.
func (v *Validator) Fails() bool {
	v.validate()
	return v.errors.Has()
}

// Passes reports whether every rule passed.
func (v *Validator) Passes() bool { return !v.Fails() }

// Errors returns the error bag. It is empty until Fails or Passes ran.
func (v *Validator) Errors() *Errors { return v.errors }

func (v *Validator) validate() {
	if v.ran {
		return
	}
	v.ran = true
	for _, field := range v.fields {
		value := v.data[field]
		for _, r := range v.rules[field] {
			if r.name == "nullable" {
				if value == "" {
					break
				}
				continue
			}
			if msg := checks[r.name](v.data, field, value, r.param); msg != "" {
				v.errors.add(field, msg)
				break
			}
		}
	}
}

func atoi(s string) int {
	n, _ := strconv.Atoi(strings.TrimSpace(s))
	return n
}
