package trip

// AssignmentState makes the implicit "nullable driver_id + status" pair
// explicit. Rows are translated into one of three variants at the storage
// boundary; core logic switches on the variant, never on nullable fields.
type AssignmentState int

const (
	// AssignmentOpen: no driver assigned, status PENDING_ASSIGNMENT; the
	// trip is open to competing claims.
	AssignmentOpen AssignmentState = iota

	// AssignmentAssigned: a driver holds the trip; no further claims are valid.
	AssignmentAssigned

	// AssignmentTerminal: the trip is completed or cancelled.
	AssignmentTerminal
)

// Assignment is the tagged variant of a trip's assignment state.
type Assignment struct {
	State    AssignmentState
	DriverID string // set only for AssignmentAssigned
	Reason   Status // terminal status, set only for AssignmentTerminal
}

// AssignmentOf derives the assignment variant from the persisted
// (status, driver_id) pair.
func AssignmentOf(status Status, driverID *string) Assignment {
	if status.Terminal() {
		return Assignment{State: AssignmentTerminal, Reason: status}
	}
	if driverID != nil && *driverID != "" {
		return Assignment{State: AssignmentAssigned, DriverID: *driverID}
	}
	if status == StatusPendingAssignment {
		return Assignment{State: AssignmentOpen}
	}
	// status moved past PENDING_ASSIGNMENT without a driver reference;
	// treat as assigned-elsewhere so the trip is never claimable.
	return Assignment{State: AssignmentAssigned}
}

// Open reports whether the trip is open to competition.
func (a Assignment) Open() bool {
	return a.State == AssignmentOpen
}
