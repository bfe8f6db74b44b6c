package domain

import "time"

// Student is a master-data record managed by administrators.
type Student struct {
	ID          string
	Fullname    string
	NIM         string
	DateOfBirth time.Time
	Archived    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
