package moment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func clockAt(h, m int) Moment {
	return Moment{Time: Time{Hours: h, Minutes: m, MinuteOfDay: h*60 + m, SecondOfDay: (h*60 + m) * 60}}
}

func hijriOn(month, day int) Moment {
	return Moment{Hijri: Date{Month: month, DayOfMonth: day, WeekOfMonth: WeekOfMonth(day)}}
}

func minuteOfDay(n int) Condition {
	return Condition{Time: &TimeCondition{MinuteOfDay: Int(n)}}
}

func TestRangeMatches_WrapsAroundMidnight(t *testing.T) {
	r := Range{Start: minuteOfDay(22 * 60), End: minuteOfDay(2 * 60)}

	for mod := 0; mod < 24*60; mod++ {
		m := clockAt(mod/60, mod%60)
		want := mod >= 22*60 || mod <= 2*60
		assert.Equal(t, want, RangeMatches(r, m), "minute of day %d", mod)
	}
}

func TestRangeMatches_Hours(t *testing.T) {
	r := Range{
		Start: Condition{Time: &TimeCondition{Hours: Int(22)}},
		End:   Condition{Time: &TimeCondition{Hours: Int(2)}},
	}
	assert.True(t, RangeMatches(r, clockAt(23, 0)))
	assert.True(t, RangeMatches(r, clockAt(1, 0)))
	assert.False(t, RangeMatches(r, clockAt(12, 0)))
}

func TestRangeMatches_OneSidedFieldIgnored(t *testing.T) {
	r := Range{
		Start: Condition{Hijri: &CalendarCondition{Month: Int(9), DayOfMonth: Int(20)}},
		End:   Condition{Hijri: &CalendarCondition{Month: Int(9)}},
	}
	// Only the month is bounded on both ends.
	assert.True(t, RangeMatches(r, hijriOn(9, 1)))
	assert.False(t, RangeMatches(r, hijriOn(10, 1)))
}

func TestRangeMatches_FieldsAreIndependent(t *testing.T) {
	monthsOnly := Range{
		Start: Condition{Hijri: &CalendarCondition{Month: Int(7)}},
		End:   Condition{Hijri: &CalendarCondition{Month: Int(9)}},
	}
	assert.True(t, RangeMatches(monthsOnly, hijriOn(7, 1)))
	assert.True(t, RangeMatches(monthsOnly, hijriOn(9, 30)))
	assert.False(t, RangeMatches(monthsOnly, hijriOn(10, 1)))

	// Month 11 day 20 through month 1 day 5: day is checked on its own cycle,
	// so day 10 of month 12 is outside even though a composite date would be
	// inside.
	crossing := Range{
		Start: Condition{Hijri: &CalendarCondition{Month: Int(11), DayOfMonth: Int(20)}},
		End:   Condition{Hijri: &CalendarCondition{Month: Int(1), DayOfMonth: Int(5)}},
	}
	assert.True(t, RangeMatches(crossing, hijriOn(12, 25)))
	assert.True(t, RangeMatches(crossing, hijriOn(1, 3)))
	assert.False(t, RangeMatches(crossing, hijriOn(12, 10)))
	assert.False(t, RangeMatches(crossing, hijriOn(2, 3)))
}

func TestMatches_Point(t *testing.T) {
	c := Condition{Hijri: &CalendarCondition{Month: Int(7), DayOfMonth: Int(27)}}
	assert.True(t, Matches(hijriOn(7, 27), c))
	assert.False(t, Matches(hijriOn(7, 26), c))
	assert.False(t, Matches(hijriOn(8, 27), c))
}

func TestMatches_EmptyConditionMatchesEverything(t *testing.T) {
	assert.True(t, Matches(clockAt(3, 4), Condition{}))
}

func TestMultiCondition(t *testing.T) {
	when := MultiCondition{When: &Condition{Hijri: &CalendarCondition{Month: Int(9)}}}
	ranged := MultiCondition{
		Start: &Condition{Hijri: &CalendarCondition{Month: Int(9), DayOfMonth: Int(20)}},
		End:   &Condition{Hijri: &CalendarCondition{Month: Int(9), DayOfMonth: Int(30)}},
	}

	assert.True(t, when.Matches(hijriOn(9, 1)))
	assert.True(t, ranged.Matches(hijriOn(9, 21)))
	assert.False(t, ranged.Matches(hijriOn(9, 19)))
	assert.False(t, MultiCondition{}.Matches(hijriOn(9, 1)))

	assert.NoError(t, when.Validate())
	assert.NoError(t, ranged.Validate())
	assert.ErrorIs(t, MultiCondition{}.Validate(), ErrInvalidCondition)
	assert.ErrorIs(t, MultiCondition{Start: ranged.Start}.Validate(), ErrInvalidCondition)
	assert.ErrorIs(t, MultiCondition{When: when.When, Start: ranged.Start, End: ranged.End}.Validate(), ErrInvalidCondition)
}

func TestAnyOf(t *testing.T) {
	mondayOrThursday := AnyOf{
		{When: &Condition{Hijri: &CalendarCondition{DayOfWeek: Int(2)}}},
		{When: &Condition{Hijri: &CalendarCondition{DayOfWeek: Int(5)}}},
	}
	assert.True(t, mondayOrThursday.Matches(Moment{Hijri: Date{DayOfWeek: 2}}))
	assert.True(t, mondayOrThursday.Matches(Moment{Hijri: Date{DayOfWeek: 5}}))
	assert.False(t, mondayOrThursday.Matches(Moment{Hijri: Date{DayOfWeek: 6}}))
	assert.False(t, AnyOf(nil).Matches(Moment{}))
}
