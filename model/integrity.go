package model

// OrphanReport lists records pointing at a bus that no longer exists.
type OrphanReport struct {
	Schedules []Schedule `json:"schedules"`
	Tickets   []Ticket   `json:"tickets"`
}
