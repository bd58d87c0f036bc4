package session

// Status is the lifecycle state of a parking session.
// PARKING -> EXIT_PENDING -> PAID -> CLOSED, with ERROR as an escape
// state. CLOSED is terminal.
type Status string

const (
	StatusParking     Status = "PARKING"
	StatusExitPending Status = "EXIT_PENDING"
	StatusPaid        Status = "PAID"
	StatusClosed      Status = "CLOSED"
	StatusError       Status = "ERROR"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusParking, StatusExitPending, StatusPaid, StatusClosed, StatusError:
		return true
	default:
		return false
	}
}

func (s Status) IsTerminal() bool {
	return s == StatusClosed
}

// CloseReason records why a session reached CLOSED.
type CloseReason string

const (
	CloseReasonMembershipValid CloseReason = "MEMBERSHIP_VALID"
	CloseReasonNormalExit      CloseReason = "NORMAL_EXIT"
	CloseReasonFreeExit        CloseReason = "FREE_EXIT"
	CloseReasonForceClosed     CloseReason = "FORCE_CLOSED"
)

func (r CloseReason) String() string {
	return string(r)
}

// Direction of a plate capture.
type Direction string

const (
	DirectionEntry Direction = "ENTRY"
	DirectionExit  Direction = "EXIT"
)

func (d Direction) IsValid() bool {
	return d == DirectionEntry || d == DirectionExit
}
