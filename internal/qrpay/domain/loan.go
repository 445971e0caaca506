package domain

import "time"

// Loan is the local read model of a loan managed by the lending platform.
// Amount is the total amount due.
type Loan struct {
	ID        string
	UserID    string
	SFDID     string
	Amount    float64
	Status    string
	CreatedAt time.Time
}
