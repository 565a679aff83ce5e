package viewstate

// Config carries the previously implicit engine defaults as explicit
// configuration.
type Config struct {
	// Distance is the half-width of the page window.
	Distance int
	// DefaultSortField is the fallback sort column, typically the
	// identity/primary-key field.
	DefaultSortField string
	// DefaultPageSize is the page size used when the caller supplies
	// none.
	DefaultPageSize int
}

// DefaultConfig returns the default engine configuration.
func DefaultConfig() Config {
	return Config{
		Distance:         DefaultDistance,
		DefaultSortField: "id",
		DefaultPageSize:  25,
	}
}

// Normalize returns cfg with zero or invalid values replaced by
// defaults.
func (c Config) Normalize() Config {
	def := DefaultConfig()
	if c.Distance < 1 {
		c.Distance = def.Distance
	}
	if c.DefaultSortField == "" {
		c.DefaultSortField = def.DefaultSortField
	}
	if c.DefaultPageSize < 1 {
		c.DefaultPageSize = def.DefaultPageSize
	}
	return c
}
