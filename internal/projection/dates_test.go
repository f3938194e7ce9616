package projection

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateCoercer_Coerce(t *testing.T) {
	want := time.Date(2023, time.January, 2, 10, 0, 0, 0, time.UTC)
	native := want
	d := DateCoercer{}

	tests := []struct {
		name  string
		input any
	}{
		{name: "native timestamp", input: want},
		{name: "native pointer", input: &native},
		{name: "javascript toString", input: "Mon Jan 02 2023 10:00:00 GMT+0000"},
		{name: "javascript toString with zone name", input: "Mon Jan 02 2023 17:00:00 GMT+0700 (Indochina Time)"},
		{name: "colon offset", input: "Mon Jan 02 2023 17:00:00 GMT+07:00"},
		{name: "rfc3339", input: "2023-01-02T10:00:00Z"},
		{name: "general form without zone", input: "2023-01-02 10:00:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := d.Coerce(tt.input)
			require.NoError(t, err)
			assert.True(t, want.Equal(got), "got %s", got)
		})
	}
}

func TestDateCoercer_Coerce_Errors(t *testing.T) {
	d := DateCoercer{}
	var nilTime *time.Time

	for _, in := range []any{nil, nilTime, "", "   ", "not a date", "hello world"} {
		_, err := d.Coerce(in)
		assert.ErrorIs(t, err, ErrUnparsableDate, "input %#v", in)
	}
}

func TestDateCoercer_Location(t *testing.T) {
	loc := time.FixedZone("ICT", 7*3600)
	d := DateCoercer{Location: loc}

	got, err := d.Coerce("2023-01-02 17:00:00")

	require.NoError(t, err)
	assert.True(t, time.Date(2023, 1, 2, 10, 0, 0, 0, time.UTC).Equal(got))
}

func TestDisplayOffset_Apply(t *testing.T) {
	in := time.Date(2023, 1, 2, 10, 0, 0, 0, time.UTC)

	t.Run("rezones without moving the instant", func(t *testing.T) {
		got := DisplayOffset(7 * time.Hour).Apply(in)

		assert.True(t, in.Equal(got))
		assert.Equal(t, 17, got.Hour())
		name, off := got.Zone()
		assert.Equal(t, "UTC+07:00", name)
		assert.Equal(t, 7*3600, off)
	})

	t.Run("negative offset", func(t *testing.T) {
		got := DisplayOffset(-(5*time.Hour + 30*time.Minute)).Apply(in)

		name, _ := got.Zone()
		assert.Equal(t, "UTC-05:30", name)
		assert.Equal(t, 4, got.Hour())
		assert.Equal(t, 30, got.Minute())
	})

	t.Run("zero offset and zero time are untouched", func(t *testing.T) {
		assert.Equal(t, in, DisplayOffset(0).Apply(in))
		assert.True(t, DisplayOffset(7*time.Hour).Apply(time.Time{}).IsZero())
	})
}
