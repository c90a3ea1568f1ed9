// Package timezone resolves IANA timezones.
//
// The application timezone comes from APP_TIMEZONE and is loaded on first
// use. Tenant timezones are resolved on demand and fall back to UTC.
//
//	now := timezone.Now()
//	loc := timezone.Resolve("Europe/Lisbon")
package timezone
