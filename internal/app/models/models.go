package models

import "strings"

// Role defines the account role
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleStudent Role = "student"
)

// Valid reports whether r is a known role
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleStudent
}

// FeeStatus is the payment state of a fee. The set is open for extension;
// ParseFeeStatus is the single place that knows the accepted values.
type FeeStatus string

const (
	FeeStatusPending FeeStatus = "Pending"
	FeeStatusPaid    FeeStatus = "Paid"
	FeeStatusOverdue FeeStatus = "Overdue"
	FeeStatusWaived  FeeStatus = "Waived"
)

var feeStatuses = []FeeStatus{FeeStatusPending, FeeStatusPaid, FeeStatusOverdue, FeeStatusWaived}

// ParseFeeStatus matches s case-insensitively and returns the canonical value
func ParseFeeStatus(s string) (FeeStatus, bool) {
	s = strings.TrimSpace(s)
	for _, st := range feeStatuses {
		if strings.EqualFold(string(st), s) {
			return st, true
		}
	}
	return "", false
}

// AttendanceStatus is the mark recorded for a student on a date
type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "present"
	AttendanceAbsent  AttendanceStatus = "absent"
	AttendanceLate    AttendanceStatus = "late"
	AttendanceExcused AttendanceStatus = "excused"
)

// ParseAttendanceStatus matches s case-insensitively
func ParseAttendanceStatus(s string) (AttendanceStatus, bool) {
	switch st := AttendanceStatus(strings.ToLower(strings.TrimSpace(s))); st {
	case AttendancePresent, AttendanceAbsent, AttendanceLate, AttendanceExcused:
		return st, true
	}
	return "", false
}
