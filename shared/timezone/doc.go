// Package timezone resolves APP_TIMEZONE once at import and keeps every
// timestamp the application produces in that zone.
//
// Services never call time.Now directly; they take a Clock:
//
//	clock := timezone.NewClock()         // production
//	clock := timezone.Fixed(someInstant) // tests
//
// Stays are calendar dates, not instants. Date and Today turn an instant into
// the calendar date it falls on, stored as midnight UTC so it compares with
// DATE columns:
//
//	today := timezone.Today(clock)
//	night := timezone.Date(instant, property)
//
// Only IANA names are accepted ("UTC", "Asia/Jakarta", "Europe/London").
// An unknown name falls back to UTC with a logged error.
package timezone
