package scheduling

// AccessScope is computed once per request from the authenticated user
// and threaded through queries instead of re-deriving role checks at
// every call site.
type AccessScope struct {
	UserID uint
	Role   string
}

// IsDoctor reports whether the caller holds the doctor role.
func (s AccessScope) IsDoctor() bool {
	return s.Role == "doctor"
}

// CanActFor reports whether the caller may create or change bookings
// for the given doctor. Doctors manage only their own calendar;
// admin and receptionist act for everyone.
func (s AccessScope) CanActFor(doctorID uint) bool {
	if s.IsDoctor() {
		return s.UserID == doctorID
	}
	return true
}

// DoctorFilter returns the doctor id queries must restrict to. The
// second result is false when the caller sees all doctors.
func (s AccessScope) DoctorFilter() (uint, bool) {
	if s.IsDoctor() {
		return s.UserID, true
	}
	return 0, false
}
