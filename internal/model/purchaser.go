package model

// Purchaser is the already-authenticated identity an order is placed for.
// It is supplied by the authentication collaborator and never derived from
// the purchase form.
type Purchaser struct {
	UserID uint64
	Role   string
}
