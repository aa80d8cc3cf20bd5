package availability

// Status is the calendar state of a window of time. The zero value StatusUnset
// means no slot covers the window at all.
type Status string

const (
	StatusUnset       Status = ""
	StatusAvailable   Status = "available"
	StatusUnavailable Status = "unavailable"
	StatusBlocked     Status = "blocked"
)

// statusRank orders statuses by how strongly they constrain a window.
// An explicit block always beats a looser "available" declaration, so the
// calendar stays safe even when the provider's own slots contradict each other.
var statusRank = map[Status]int{
	StatusUnset:       0,
	StatusAvailable:   1,
	StatusUnavailable: 2,
	StatusBlocked:     3,
}

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusAvailable, StatusUnavailable, StatusBlocked:
		return true
	default:
		return false
	}
}

// Wins reports whether s takes priority over other when both cover a window.
func (s Status) Wins(other Status) bool {
	return statusRank[s] > statusRank[other]
}

// OwnerRole identifies which kind of provider a calendar belongs to.
type OwnerRole string

const (
	RoleGuide     OwnerRole = "guide"
	RoleTransport OwnerRole = "transport"
)

func (r OwnerRole) String() string {
	return string(r)
}

func (r OwnerRole) IsValid() bool {
	switch r {
	case RoleGuide, RoleTransport:
		return true
	default:
		return false
	}
}
