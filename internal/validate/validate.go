// Package validate holds the field-format rules applied to user drafts
// before any remote call is made, plus the username derivation rule.
// Everything here is pure: no network, no store access, inputs are
// never mutated.
package validate

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"user-console/internal/model"
)

var (
	emailPattern   = regexp.MustCompile(`(?i)^[A-Z0-9._%+-]+@[A-Z0-9.-]+\.[A-Z]{2,}$`)
	phonePattern   = regexp.MustCompile(`^\d{10}$`)
	websitePattern = regexp.MustCompile(`^(https?://)?([\da-z.-]+)\.([a-z.]{2,6})(/[\w.-]*)*/?$`)
	// Unicode whitespace, not just ASCII \s, so names separated by
	// non-breaking spaces still collapse.
	whitespacePattern = regexp.MustCompile(`[\s\p{Z}]+`)
)

// UsernamePrefix is prepended to every derived username.
const UsernamePrefix = "USER-"

// Draft validates the editable fields of a draft and returns one error
// message per failing field. An empty map means the draft is acceptable.
// Street and city are checked jointly under the "address" key.
func Draft(d model.Draft) map[string]string {
	errs := map[string]string{}

	if utf8.RuneCountInString(d.Name) < 3 {
		errs["name"] = "Name is required and should be at least 3 characters."
	}

	if d.Email == "" || !emailPattern.MatchString(d.Email) {
		errs["email"] = "A valid email is required."
	}

	if !phonePattern.MatchString(d.Phone) {
		errs["phone"] = "Phone number is required and should be 10 digits."
	}

	if d.Street == "" || d.City == "" {
		errs["address"] = "Street and City are required."
	}

	if d.CompanyName != "" && utf8.RuneCountInString(d.CompanyName) < 3 {
		errs["companyName"] = "Company name must be at least 3 characters."
	}

	if d.Website != "" && !websitePattern.MatchString(d.Website) {
		errs["website"] = "Website must be a valid URL."
	}

	return errs
}

// DeriveUsername computes the read-only username for a given name:
// "USER-" plus the lowercased name with all whitespace runs removed.
// It is applied whenever the name field of a draft changes and is the
// only way a username value is ever produced.
func DeriveUsername(name string) string {
	return UsernamePrefix + whitespacePattern.ReplaceAllString(strings.ToLower(name), "")
}
