package timezone

import (
	"sync"
	"tablebook/config"
	"time"

	"github.com/rs/zerolog/log"
)

var (
	locations sync.Map

	// appLocation is APP_TIMEZONE, loaded on first use.
	appLocation = sync.OnceValue(func() *time.Location {
		name := config.Get().App.Timezone
		if name == "" {
			log.Warn().Msg("no application timezone configured, using UTC")
		}

		return Resolve(name)
	})
)

// Now returns the current time in the application timezone.
func Now() time.Time {
	return time.Now().In(appLocation())
}

// Location returns the application timezone.
func Location() *time.Location {
	return appLocation()
}

// Resolve loads a timezone by IANA name, caching successful lookups.
// Empty or unknown names resolve to UTC.
func Resolve(name string) *time.Location {
	if name == "" {
		return time.UTC
	}

	if cached, ok := locations.Load(name); ok {
		return cached.(*time.Location) //nolint:forcetypeassert
	}

	loc, err := time.LoadLocation(name)
	if err != nil {
		log.Warn().Err(err).Str("timezone", name).Msg("unknown timezone, using UTC")

		return time.UTC
	}

	locations.Store(name, loc)

	return loc
}
