package projection

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/spf13/cast"
)

// ErrUnparsableDate is returned by DateCoercer when no encoding matches.
var ErrUnparsableDate = errors.New("unparsable date")

// Layouts produced by JavaScript's Date.prototype.toString once the trailing
// "(Zone Name)" is removed. The second form is what .NET writes for 'GMT'K.
var jsLayouts = []string{
	"Mon Jan 02 2006 15:04:05 GMT-0700",
	"Mon Jan 02 2006 15:04:05 GMT-07:00",
}

// DateCoercer turns a stored value of unknown shape into a timestamp. It tries
// the store's native timestamp, then the JavaScript toString form, then a
// general parse of the stringified value.
type DateCoercer struct {
	// Location is assumed for general-parse inputs that carry no zone. Nil means UTC.
	Location *time.Location
}

func (d DateCoercer) Coerce(v any) (time.Time, error) {
	switch t := v.(type) {
	case time.Time:
		return t, nil
	case *time.Time:
		if t != nil {
			return *t, nil
		}
		return time.Time{}, ErrUnparsableDate
	case nil:
		return time.Time{}, ErrUnparsableDate
	}

	s, err := cast.ToStringE(v)
	if err != nil {
		s = fmt.Sprint(v)
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, ErrUnparsableDate
	}

	js := s
	if i := strings.Index(js, " ("); i > 0 && strings.HasSuffix(js, ")") {
		js = js[:i]
	}
	for _, layout := range jsLayouts {
		if t, err := time.Parse(layout, js); err == nil {
			return t, nil
		}
	}

	loc := d.Location
	if loc == nil {
		loc = time.UTC
	}
	t, err := dateparse.ParseIn(s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrUnparsableDate, s)
	}
	return t, nil
}

// DisplayOffset is the fixed UTC offset of the timezone the client UI renders
// schedule dates in. Applying it changes the zone a time is expressed in, never
// the instant: 10:00Z becomes 17:00+07:00, not 17:00Z. Clients that print the
// wall clock as sent see the shifted hour; clients that convert back to UTC
// first see the stored instant, unlike a plain seven-hour addition.
type DisplayOffset time.Duration

// Apply re-zones t; zero times and a zero offset pass through unchanged.

func (o DisplayOffset) Apply(t time.Time) time.Time {
	if o == 0 || t.IsZero() {
		return t
	}
	return t.In(o.zone())
}

func (o DisplayOffset) zone() *time.Location {
	d := time.Duration(o)
	sign := "+"
	if d < 0 {
		sign = "-"
		d = -d
	}
	h := int(d / time.Hour)
	m := int((d % time.Hour) / time.Minute)
	return time.FixedZone(fmt.Sprintf("UTC%s%02d:%02d", sign, h, m), int(time.Duration(o)/time.Second))
}
