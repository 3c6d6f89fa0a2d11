package models

import "time"

// Status is the closed approval status taxonomy
type Status string

const (
	StatusApproved Status = "approved"
	// StatusExpired is part of the published taxonomy but no source text maps to it yet
	StatusExpired  Status = "expired"
	StatusRevoked  Status = "revoked"
	StatusRejected Status = "rejected"
)

// Valid reports whether s is one of the closed status values
func (s Status) Valid() bool {
	switch s {
	case StatusApproved, StatusExpired, StatusRevoked, StatusRejected:
		return true
	}
	return false
}

// WorshipCategory is the fixed category of every P.U.(A) record
const WorshipCategory = "Worship"

// RawRow is one data row of a listing table, as text
type RawRow struct {
	Index        int
	Variant      Variant
	ReferenceNum string
	Organization string
	Address      string
	Category     string
	StartDate    string
	EndDate      string
	Status       string
	Remarks      string
}

// Organization is one validated record of a section dataset
type Organization struct {
	ReferenceNum string
	Organization string
	Address      string
	Category     string
	StartDate    time.Time
	EndDate      time.Time
	Status       Status
	Remarks      *string
}
