package entity

type EventCategory string

const (
	CategoryClass EventCategory = "class"
	CategoryEvent EventCategory = "event"
)

// EventType classifies events into categories and named subtypes, e.g.
// (class, "Pole level 1") or (event, "Workshop"). The (category, subtype)
// pair is unique; block types and events both hang off it.
type EventType struct {
	Base
	Category EventCategory `db:"category"`
	Subtype  string        `db:"subtype"`
}
