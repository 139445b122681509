package models

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSafeUserID_Deterministic(t *testing.T) {
	a := SafeUserID("alice", SexFemale)
	b := SafeUserID("alice", SexFemale)
	assert.Equal(t, a, b)
	assert.Equal(t, "alice_female", a)
}

func TestSafeUserID_OnlySafeCharacters(t *testing.T) {
	safe := regexp.MustCompile(`^[A-Za-z0-9_.\-]*$`)

	tests := []struct {
		name string
		sex  Sex
	}{
		{"alice", SexFemale},
		{"john doe", SexMale},
		{"张三", SexMale},
		{"a/b\\c:d", SexOther},
		{"dots.and-dashes_ok", SexOther},
	}
	for _, tc := range tests {
		id := SafeUserID(tc.name, tc.sex)
		assert.True(t, safe.MatchString(id), "id %q for %q contains unsafe characters", id, tc.name)
	}
}

func TestSafeUserID_TrimsWhitespace(t *testing.T) {
	assert.Equal(t, SafeUserID("alice", SexFemale), SafeUserID("  alice  ", SexFemale))
}

func TestSex_Valid(t *testing.T) {
	assert.True(t, SexMale.Valid())
	assert.True(t, SexFemale.Valid())
	assert.True(t, SexOther.Valid())
	assert.False(t, Sex("unknown").Valid())
	assert.False(t, Sex("").Valid())
}
