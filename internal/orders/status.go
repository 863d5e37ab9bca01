package orders

// Status is an order's position in the delivery lifecycle.
type Status string

const (
	StatusPending        Status = "pending"
	StatusConfirmed      Status = "confirmed"
	StatusPreparing      Status = "preparing"
	StatusReadyForPickup Status = "ready_for_pickup"
	StatusPickedUp       Status = "picked_up"
	StatusDelivered      Status = "delivered"
)

// statusRank orders the lifecycle. Transitions must move strictly forward;
// skipping ahead is allowed (a restaurant may mark a pending order
// ready_for_pickup directly) but moving backward is not.
var statusRank = map[Status]int{
	StatusPending:        0,
	StatusConfirmed:      1,
	StatusPreparing:      2,
	StatusReadyForPickup: 3,
	StatusPickedUp:       4,
	StatusDelivered:      5,
}

func (s Status) Valid() bool {
	_, ok := statusRank[s]
	return ok
}

// CanTransition reports whether an order may move from s to next.
func (s Status) CanTransition(next Status) bool {
	from, ok := statusRank[s]
	if !ok {
		return false
	}
	to, ok := statusRank[next]
	if !ok {
		return false
	}
	return to > from
}
