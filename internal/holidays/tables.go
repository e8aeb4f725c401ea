package holidays

import (
	"time"

	"github.com/teambition/rrule-go"

	"github.com/tartampluch/go-weekcalendar/internal/config"
)

// dutch is the table printed on the Dutch week calendar: public
// holidays plus the days people like to see on the kitchen wall.
var dutch = &Table{
	Name: config.HolidaysNL,
	fixed: []fixed{
		{time.January, 1, "Nieuwjaar"},
		{time.January, 6, "Drie Koningen"},
		{time.February, 14, "Valentijn"},
		{time.April, 27, "Koningsdag"},
		{time.May, 4, "Dodenherdenking"},
		{time.May, 5, "Bevrijdingsdag"},
		{time.July, 29, "Frikandellendag"},
		{time.October, 4, "Dierendag"},
		{time.December, 5, "Sinterklaas"},
		{time.December, 25, "Eerste Kerstdag"},
		{time.December, 26, "Tweede Kerstdag"},
		{time.December, 31, "Oudjaar"},
	},
	weekday: []nthWeekday{
		{time.March, rrule.SU, -1, "Zomertijd\nVergeet niet je klok een uur vooruit te zetten!"},
		{time.May, rrule.SU, 2, "Moederdag"},
		{time.June, rrule.SU, 3, "Vaderdag"},
		{time.September, rrule.TU, 3, "Prinsjesdag"},
		{time.October, rrule.SU, -1, "Wintertijd\nVergeet niet je klok een uur terug te zetten!"},
	},
	easter: []easterOffset{
		// Carnaval: the Sunday to Tuesday before Ash Wednesday.
		{-49, "Carnaval"},
		{-48, "Carnaval"},
		{-47, "Carnaval"},
		{-2, "Goede Vrijdag"},
		{0, "Eerste Paasdag"},
		{1, "Tweede Paasdag"},
		{39, "Hemelvaart"},
		{49, "Eerste Pinksterdag"},
		{50, "Tweede Pinksterdag"},
	},
}

// northRhineWestphalia holds the public holidays of NRW.
var northRhineWestphalia = &Table{
	Name: config.HolidaysDENRW,
	fixed: []fixed{
		{time.January, 1, "Neujahr"},
		{time.May, 1, "Tag der Arbeit"},
		{time.October, 3, "Tag der Deutschen Einheit"},
		{time.November, 1, "Allerheiligen"},
		{time.December, 25, "1. Weihnachtstag"},
		{time.December, 26, "2. Weihnachtstag"},
	},
	easter: []easterOffset{
		{-2, "Karfreitag"},
		{1, "Ostermontag"},
		{39, "Christi Himmelfahrt"},
		{50, "Pfingstmontag"},
		{60, "Fronleichnam"},
	},
}
