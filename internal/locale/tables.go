package locale

import "golang.org/x/text/language"

// localeData is the per-language display table: month and weekday names
// (weekdays starting Sunday), the first day of week in the 1..7 scheme
// (1 = Sunday) and whether the locale conventionally uses a 12-hour clock.
type localeData struct {
	months     [12]string
	weekdays   [7]string
	firstDay   int
	twelveHour bool
}

// supported lists the built-in display tables, index-aligned with tables.
// The first entry is the fallback, matching the original widget's behavior
// of falling back to the platform default symbols.
var supported = []language.Tag{
	language.AmericanEnglish,
	language.BritishEnglish,
	language.German,
	language.French,
	language.Spanish,
	language.Finnish,
	language.Swedish,
}

var tables = []localeData{
	{
		months: [12]string{"January", "February", "March", "April", "May", "June",
			"July", "August", "September", "October", "November", "December"},
		weekdays:   [7]string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"},
		firstDay:   1,
		twelveHour: true,
	},
	{
		months: [12]string{"January", "February", "March", "April", "May", "June",
			"July", "August", "September", "October", "November", "December"},
		weekdays:   [7]string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"},
		firstDay:   2,
		twelveHour: false,
	},
	{
		months: [12]string{"Januar", "Februar", "März", "April", "Mai", "Juni",
			"Juli", "August", "September", "Oktober", "November", "Dezember"},
		weekdays:   [7]string{"Sonntag", "Montag", "Dienstag", "Mittwoch", "Donnerstag", "Freitag", "Samstag"},
		firstDay:   2,
		twelveHour: false,
	},
	{
		months: [12]string{"janvier", "février", "mars", "avril", "mai", "juin",
			"juillet", "août", "septembre", "octobre", "novembre", "décembre"},
		weekdays:   [7]string{"dimanche", "lundi", "mardi", "mercredi", "jeudi", "vendredi", "samedi"},
		firstDay:   2,
		twelveHour: false,
	},
	{
		months: [12]string{"enero", "febrero", "marzo", "abril", "mayo", "junio",
			"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre"},
		weekdays:   [7]string{"domingo", "lunes", "martes", "miércoles", "jueves", "viernes", "sábado"},
		firstDay:   2,
		twelveHour: false,
	},
	{
		months: [12]string{"tammikuu", "helmikuu", "maaliskuu", "huhtikuu", "toukokuu", "kesäkuu",
			"heinäkuu", "elokuu", "syyskuu", "lokakuu", "marraskuu", "joulukuu"},
		weekdays:   [7]string{"sunnuntai", "maanantai", "tiistai", "keskiviikko", "torstai", "perjantai", "lauantai"},
		firstDay:   2,
		twelveHour: false,
	},
	{
		months: [12]string{"januari", "februari", "mars", "april", "maj", "juni",
			"juli", "augusti", "september", "oktober", "november", "december"},
		weekdays:   [7]string{"söndag", "måndag", "tisdag", "onsdag", "torsdag", "fredag", "lördag"},
		firstDay:   2,
		twelveHour: false,
	},
}

var matcher = language.NewMatcher(supported)
