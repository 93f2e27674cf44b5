package neighborhood

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/andydlo/neighborhood-connect/internal/store"
)

// Collection is the storage path for neighborhood records.
const Collection = "groupChats"

// ErrMalformedRecord marks a snapshot that is missing a required field or
// carries one of the wrong type. Decoding fails closed: no partial record is
// ever produced.
var ErrMalformedRecord = errors.New("malformed neighborhood record")

// AgeRange is a validated age band of the form "min-max" or "min+". The "+"
// form has no upper bound.
type AgeRange string

// ParseAgeRange validates the textual form. Bounded ranges must satisfy
// min <= max.
func ParseAgeRange(s string) (AgeRange, error) {
	s = strings.TrimSpace(s)

	if rest, ok := strings.CutSuffix(s, "+"); ok {
		if _, err := strconv.Atoi(rest); err != nil {
			return "", fmt.Errorf("invalid age range %q", s)
		}
		return AgeRange(s), nil
	}

	lo, hi, ok := strings.Cut(s, "-")
	if !ok {
		return "", fmt.Errorf("invalid age range %q", s)
	}
	min, err := strconv.Atoi(lo)
	if err != nil {
		return "", fmt.Errorf("invalid age range %q", s)
	}
	max, err := strconv.Atoi(hi)
	if err != nil {
		return "", fmt.Errorf("invalid age range %q", s)
	}
	if min > max {
		return "", fmt.Errorf("invalid age range %q: min exceeds max", s)
	}
	return AgeRange(s), nil
}

// Contains reports whether age falls inside the range, bounds inclusive.
// Unbounded ranges ("56+") match any age at or above the minimum.
func (r AgeRange) Contains(age int) bool {
	s := string(r)
	if rest, ok := strings.CutSuffix(s, "+"); ok {
		min, err := strconv.Atoi(rest)
		return err == nil && age >= min
	}

	lo, hi, ok := strings.Cut(s, "-")
	if !ok {
		return false
	}
	min, err1 := strconv.Atoi(lo)
	max, err2 := strconv.Atoi(hi)
	return err1 == nil && err2 == nil && age >= min && age <= max
}

// Neighborhood is a ZIP-code/age scoped group chat. Users and CreatorEmail
// hold user identifiers (emails). The creator is a member for the lifetime
// of the group; membership is the only thing that ever changes.
type Neighborhood struct {
	ID           string
	GroupName    string
	AgeRange     AgeRange
	ZipCode      string
	Users        []string
	CreatorEmail string
}

// Decode builds a Neighborhood from a stored snapshot. Returns
// ErrMalformedRecord (wrapped) when any required field is absent or
// mistyped.
func Decode(key string, f store.Fields) (*Neighborhood, error) {
	groupName, ok := f.String("groupName")
	if !ok {
		return nil, fmt.Errorf("%w %s: groupName", ErrMalformedRecord, key)
	}
	rawRange, ok := f.String("ageRange")
	if !ok {
		return nil, fmt.Errorf("%w %s: ageRange", ErrMalformedRecord, key)
	}
	ageRange, err := ParseAgeRange(rawRange)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %v", ErrMalformedRecord, key, err)
	}
	zipCode, ok := f.String("zipCode")
	if !ok {
		return nil, fmt.Errorf("%w %s: zipCode", ErrMalformedRecord, key)
	}
	users, ok := f.StringSlice("users")
	if !ok {
		return nil, fmt.Errorf("%w %s: users", ErrMalformedRecord, key)
	}
	creatorEmail, ok := f.String("creatorEmail")
	if !ok {
		return nil, fmt.Errorf("%w %s: creatorEmail", ErrMalformedRecord, key)
	}

	return &Neighborhood{
		ID:           key,
		GroupName:    groupName,
		AgeRange:     ageRange,
		ZipCode:      zipCode,
		Users:        users,
		CreatorEmail: creatorEmail,
	}, nil
}

// Encode converts the record to its persisted field map.
func (n *Neighborhood) Encode() store.Fields {
	return store.Fields{
		"groupName":    n.GroupName,
		"ageRange":     string(n.AgeRange),
		"zipCode":      n.ZipCode,
		"users":        append([]string(nil), n.Users...),
		"creatorEmail": n.CreatorEmail,
	}
}

// Matches reports whether the group serves the given ZIP code and age.
func (n *Neighborhood) Matches(zipCode string, age int) bool {
	return n.ZipCode == zipCode && n.AgeRange.Contains(age)
}

// IsMember reports whether email is on the membership list.
func (n *Neighborhood) IsMember(email string) bool {
	for _, u := range n.Users {
		if u == email {
			return true
		}
	}
	return false
}

// IsCreator reports whether email created the group.
func (n *Neighborhood) IsCreator(email string) bool {
	return n.CreatorEmail == email
}
