package hold

// Status is the lifecycle state of a booking hold. Pending is the only
// non-terminal state; every other status is final.
type Status string

const (
	StatusPending   Status = "pending"
	StatusAccepted  Status = "accepted"
	StatusDeclined  Status = "declined"
	StatusExpired   Status = "expired"
	StatusCancelled Status = "cancelled"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusAccepted, StatusDeclined, StatusExpired, StatusCancelled:
		return true
	default:
		return false
	}
}

func (s Status) IsTerminal() bool {
	return s.IsValid() && s != StatusPending
}

// RequesterRole identifies the kind of party placing holds.
type RequesterRole string

const (
	RoleAgency RequesterRole = "agency"
	RoleDMC    RequesterRole = "dmc"
)

func (r RequesterRole) String() string {
	return string(r)
}

func (r RequesterRole) IsValid() bool {
	switch r {
	case RoleAgency, RoleDMC:
		return true
	default:
		return false
	}
}

// Decision is the target's answer to a pending hold.
type Decision string

const (
	DecisionAccepted Decision = "accepted"
	DecisionDeclined Decision = "declined"
)

func (d Decision) IsValid() bool {
	return d == DecisionAccepted || d == DecisionDeclined
}
