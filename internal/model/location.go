package model

import (
	"strings"
	"time"
)

// LocationKind tells which concrete record backs a location.
type LocationKind string

// Location kinds.
const (
	LocationStock LocationKind = "stock"
	LocationStaff LocationKind = "staff"
)

// Location is a place or person that can hold goods. Exactly one of Stock
// and Staff is set, matching Kind.
type Location struct {
	ID        int64        `json:"id"`
	Kind      LocationKind `json:"kind"`
	CreatedAt time.Time    `json:"created_at"`

	Stock *Stock `json:"stock,omitempty"`
	Staff *Staff `json:"staff,omitempty"`
}

// Stock is a department holding goods.
type Stock struct {
	Department string `json:"department"`
	Code       *int   `json:"code,omitempty"`
}

// Staff is a person holding goods.
type Staff struct {
	Surname    string `json:"surname"`
	Forename   string `json:"forename"`
	Patronymic string `json:"patronymic,omitempty"`
}

// IsStaff reports whether the location is a staff member.
func (l *Location) IsStaff() bool {
	return l != nil && l.Kind == LocationStaff
}

// String returns the display name of the location.
func (l *Location) String() string {
	if l == nil {
		return ""
	}
	switch l.Kind {
	case LocationStock:
		if l.Stock != nil {
			return l.Stock.Department
		}
	case LocationStaff:
		if l.Staff != nil {
			return l.Staff.String()
		}
	}
	return ""
}

// String returns the surname followed by initials, e.g. "Ivanov I.P.".
func (s *Staff) String() string {
	var b strings.Builder
	b.WriteString(s.Surname)
	if initial, ok := firstRune(s.Forename); ok {
		b.WriteString(" ")
		b.WriteRune(initial)
		b.WriteString(".")
		if p, ok := firstRune(s.Patronymic); ok {
			b.WriteRune(p)
			b.WriteString(".")
		}
	}
	return b.String()
}

func firstRune(s string) (rune, bool) {
	for _, r := range s {
		return r, true
	}
	return 0, false
}
