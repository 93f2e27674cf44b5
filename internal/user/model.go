package user

import (
	"errors"
	"fmt"

	"github.com/andydlo/neighborhood-connect/internal/store"
)

// Collection is the storage path for user profile records.
const Collection = "users"

// ErrMalformedRecord marks a profile snapshot missing a required field.
var ErrMalformedRecord = errors.New("malformed user record")

// Profile is a user's stored profile. UID is the record key; Email is the
// identity used on membership lists everywhere else in the system.
type Profile struct {
	UID          string
	Email        string
	Zip          string
	Username     string
	PasswordHash string
}

// Decode builds a Profile from a stored snapshot.
func Decode(key string, f store.Fields) (*Profile, error) {
	email, ok := f.String("email")
	if !ok {
		return nil, fmt.Errorf("%w %s: email", ErrMalformedRecord, key)
	}
	zip, ok := f.String("zip")
	if !ok {
		return nil, fmt.Errorf("%w %s: zip", ErrMalformedRecord, key)
	}
	username, ok := f.String("userID")
	if !ok {
		return nil, fmt.Errorf("%w %s: userID", ErrMalformedRecord, key)
	}
	hash, ok := f.String("passwordHash")
	if !ok {
		return nil, fmt.Errorf("%w %s: passwordHash", ErrMalformedRecord, key)
	}

	return &Profile{
		UID:          key,
		Email:        email,
		Zip:          zip,
		Username:     username,
		PasswordHash: hash,
	}, nil
}

// Encode converts the profile to its persisted field map.
func (p *Profile) Encode() store.Fields {
	return store.Fields{
		"email":        p.Email,
		"zip":          p.Zip,
		"userID":       p.Username,
		"passwordHash": p.PasswordHash,
	}
}
