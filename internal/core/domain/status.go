package domain

// Status is the lifecycle flag shared by categories, resources and users.
type Status string

const (
	StatusNormal Status = "NORMAL"
	StatusVoid   Status = "VOID"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	return s == StatusNormal || s == StatusVoid
}

// ParseStatus returns the status named by raw, or false when raw is not
// NORMAL or VOID.
func ParseStatus(raw string) (Status, bool) {
	s := Status(raw)
	if !s.Valid() {
		return "", false
	}
	return s, true
}
