package filter

import "time"

// TimeUnit converts an integer magnitude into a signed duration.
type TimeUnit int

const (
	Second TimeUnit = iota
	Minute
	Hour
	Day
)

var timeUnitAliases = []aliasEntry[TimeUnit]{
	{"Second", Second},
	{"Minute", Minute},
	{"Hour", Hour},
	{"Day", Day},
	{"Seconds", Second},
	{"Minutes", Minute},
	{"Hours", Hour},
	{"Days", Day},
	{"sec", Second},
	{"min", Minute},
	{"s", Second},
	{"m", Minute},
	{"h", Hour},
	{"d", Day},
}

func init() {
	sortAliasesByLengthDesc(timeUnitAliases)
}

// Duration converts value (which may be negative) into a signed
// time.Duration.
func (u TimeUnit) Duration(value int64) time.Duration {
	switch u {
	case Second:
		return time.Duration(value) * time.Second
	case Minute:
		return time.Duration(value) * time.Minute
	case Hour:
		return time.Duration(value) * time.Hour
	case Day:
		return time.Duration(value) * 24 * time.Hour
	default:
		return time.Duration(value) * time.Second
	}
}
