// Package islamic holds the catalog of recurring Islamic calendar events.
package islamic

import (
	"sort"

	"github.com/smokyabdulrahman/masjidi/internal/moment"
)

// Event names an entry in a Catalog.
type Event string

const (
	FirstMondayRajab    Event = "FIRST_MONDAY_RAJAB"
	MondayThursday      Event = "MONDAY_THURSDAY"
	NewYear             Event = "NEW_YEAR"
	Ashura              Event = "ASHURA"
	ProphetBirthday     Event = "PROPHET_BIRTHDAY"
	IsraAndMiraj        Event = "ISRA_AND_MIRAJ"
	BattleOfBadr        Event = "BATTLE_OF_BADR"
	FathMecca           Event = "FATH_MECCA"
	Qadr                Event = "QADR"
	WhiteDays           Event = "WHITE_DAYS"
	Last10DaysRamadan   Event = "LAST_10_DAYS_RAMADAN"
	First10DaysZulhijah Event = "FIRST_10_DAYS_ZULHIJAH"
	Hajj                Event = "HAJJ"
	Arafah              Event = "ARAFAH"
	EidFitr             Event = "EID_FITR"
	EidAdha             Event = "EID_ADHA"
	Tashriq             Event = "TASHRIQ"
	Ramadan             Event = "RAMADAN"
)

// Catalog maps events to their definitions. A definition matches when any of
// its conditions matches.
type Catalog map[Event]moment.AnyOf

func on(month, day int) moment.MultiCondition {
	return moment.MultiCondition{When: &moment.Condition{Hijri: &moment.CalendarCondition{
		Month:      moment.Int(month),
		DayOfMonth: moment.Int(day),
	}}}
}

func between(month, fromDay, toDay int) moment.MultiCondition {
	return moment.MultiCondition{
		Start: &moment.Condition{Hijri: &moment.CalendarCondition{Month: moment.Int(month), DayOfMonth: moment.Int(fromDay)}},
		End:   &moment.Condition{Hijri: &moment.CalendarCondition{Month: moment.Int(month), DayOfMonth: moment.Int(toDay)}},
	}
}

func weekday(month, dow int) moment.MultiCondition {
	return moment.MultiCondition{When: &moment.Condition{Hijri: &moment.CalendarCondition{
		Month:     moment.Int(month),
		DayOfWeek: moment.Int(dow),
	}}}
}

// Default returns a fresh copy of the built-in catalog.
func Default() Catalog {
	firstMonday := weekday(7, 2)
	firstMonday.When.Hijri.WeekOfMonth = moment.Int(1)

	return Catalog{
		FirstMondayRajab: {firstMonday},
		MondayThursday:   {weekday(7, 2), weekday(7, 5)},
		NewYear:          {on(1, 1)},
		Ashura:           {on(1, 10)},
		ProphetBirthday:  {on(3, 12)},
		IsraAndMiraj:     {on(7, 27)},
		BattleOfBadr:     {on(9, 17)},
		FathMecca:        {on(9, 20)},
		Qadr:             {on(9, 27)},
		WhiteDays: {{
			Start: &moment.Condition{Hijri: &moment.CalendarCondition{DayOfMonth: moment.Int(13)}},
			End:   &moment.Condition{Hijri: &moment.CalendarCondition{DayOfMonth: moment.Int(15)}},
		}},
		Last10DaysRamadan:   {between(9, 20, 30)},
		First10DaysZulhijah: {between(12, 1, 10)},
		Hajj:                {on(12, 8)},
		Arafah:              {on(12, 9)},
		EidFitr:             {between(10, 1, 3)},
		EidAdha:             {between(12, 10, 13)},
		Tashriq:             {between(12, 11, 13)},
		Ramadan:             {{When: &moment.Condition{Hijri: &moment.CalendarCondition{Month: moment.Int(9)}}}},
	}
}

// Names returns the catalog's events in lexical order.
func (c Catalog) Names() []Event {
	names := make([]Event, 0, len(c))
	for e := range c {
		names = append(names, e)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}

// Merge returns a catalog holding c's events overlaid with extra's. Events in
// extra replace same-named ones.
func (c Catalog) Merge(extra Catalog) Catalog {
	out := make(Catalog, len(c)+len(extra))
	for e, d := range c {
		out[e] = d
	}
	for e, d := range extra {
		out[e] = d
	}
	return out
}

// Active returns the events matching m, in lexical order.
func (c Catalog) Active(m moment.Moment) []Event {
	var active []Event
	for _, e := range c.Names() {
		if c[e].Matches(m) {
			active = append(active, e)
		}
	}
	return active
}
