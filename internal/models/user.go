// Package models defines the persisted domain types: user identities,
// per-user records, and admin settings.
package models

import (
	"regexp"
	"strings"
)

// Sex is the declared sex of a registered user. It participates in the
// derived user id, so changing it would change the identity.
type Sex string

const (
	SexMale   Sex = "male"
	SexFemale Sex = "female"
	SexOther  Sex = "other"
)

// Valid reports whether s is one of the three recognized values.
func (s Sex) Valid() bool {
	switch s {
	case SexMale, SexFemale, SexOther:
		return true
	}
	return false
}

// User is one entry of the credential document. Passwords are stored and
// compared as plain values; the store is a local test fixture by contract.
type User struct {
	Name     string `json:"name"`
	Sex      Sex    `json:"sex"`
	Password string `json:"password"`
}

var unsafeIDChars = regexp.MustCompile(`[^\w\-.]`)

// SafeUserID derives the stable user id from a display name and sex.
// The concatenation "name_sex" is normalized to a filesystem-safe token:
// every character outside [A-Za-z0-9_.-] is replaced with an underscore.
// The function is pure: equal inputs always produce the same id.
func SafeUserID(name string, sex Sex) string {
	raw := strings.TrimSpace(name) + "_" + strings.TrimSpace(string(sex))
	return unsafeIDChars.ReplaceAllString(raw, "_")
}
