package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSex(t *testing.T) {
	tests := []struct {
		in      string
		want    Sex
		wantErr bool
	}{
		{"M", SexMale, false},
		{"f", SexFemale, false},
		{" m ", SexMale, false},
		{"X", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := ParseSex(tt.in)
		if tt.wantErr {
			assert.Error(t, err, "ParseSex(%q)", tt.in)
			continue
		}
		require.NoError(t, err, "ParseSex(%q)", tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("01/31/1990")
	require.NoError(t, err)
	assert.True(t, d.Equal(time.Date(1990, time.January, 31, 0, 0, 0, 0, time.UTC)), "ParseDate = %v", d)
	assert.Equal(t, "01/31/1990", FormatDate(d))

	_, err = ParseDate("1990-01-31")
	assert.Error(t, err, "ISO layout")
}

func TestFields_Key(t *testing.T) {
	f := Fields{
		FirstName:   "  Jon ",
		LastName:    "SMITH",
		DateOfBirth: time.Date(1990, time.January, 1, 0, 0, 0, 0, time.UTC),
	}

	tests := []struct {
		kind IndexKind
		want string
	}{
		{IndexFirstName, "jon"},
		{IndexLastName, "smith"},
		{IndexDateOfBirth, "1990-01-01"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, f.Key(tt.kind), "Key(%s)", tt.kind)
	}
}

func TestFields_Equal(t *testing.T) {
	a := Fields{FirstName: "Jon", Salary: decimal.RequireFromString("1000.00")}
	b := Fields{FirstName: "Jon", Salary: decimal.NewFromInt(1000)}
	assert.True(t, a.Equal(b), "salaries with different scale compare equal")

	b.FirstName = "Jane"
	assert.False(t, a.Equal(b))
}

func TestSnapshot_Immutable(t *testing.T) {
	src := []Record{{ID: 1, Fields: Fields{FirstName: "Jon"}}}
	snap := NewSnapshot(src, time.Now())

	src[0].FirstName = "Changed"
	got := snap.Records()
	require.Equal(t, "Jon", got[0].FirstName, "snapshot observed source mutation")

	got[0].FirstName = "Changed"
	require.Equal(t, "Jon", snap.Records()[0].FirstName, "snapshot observed mutation of returned slice")
}
