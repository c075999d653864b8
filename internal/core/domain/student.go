package domain

// StudentStore identifies which federated per-cycle student dataset a student
// id belongs to. The platform keeps one independently keyed store per school
// cycle; an invoice carries the tag alongside the student id so the owning
// store can be dispatched to.
type StudentStore string

const (
	StoreEarlyYears  StudentStore = "EARLY_YEARS"
	StoreMiddleCycle StudentStore = "MIDDLE_CYCLE"
	StoreSeniorCycle StudentStore = "SENIOR_CYCLE"
)

// AllStudentStores lists the closed set of store tags.
func AllStudentStores() []StudentStore {
	return []StudentStore{StoreEarlyYears, StoreMiddleCycle, StoreSeniorCycle}
}

// ValidStudentStore reports whether s is one of the known store tags.
func ValidStudentStore(s StudentStore) bool {
	switch s {
	case StoreEarlyYears, StoreMiddleCycle, StoreSeniorCycle:
		return true
	}
	return false
}

// StudentRef is the composite reference an invoice or payment holds to a
// student: the id plus the tag of the store that owns it.
type StudentRef struct {
	StudentID       string       `json:"studentID"`
	StudentDatabase StudentStore `json:"studentDatabase"`
}

// StudentIdentity is the display-only projection of a student resolved from
// its federated store. It decorates listings and receipts; it is never used
// to authorize anything or to compute money.
type StudentIdentity struct {
	StudentID string       `json:"studentID"`
	Store     StudentStore `json:"store"`
	Name      string       `json:"name"`
	Matricule string       `json:"matricule"` // short code
}

// PlaceholderIdentity is returned when a student record cannot be resolved.
// Student records and invoices are not created in order in this federated
// design, so a missing record is a soft condition, not an error.
func PlaceholderIdentity(ref StudentRef) StudentIdentity {
	return StudentIdentity{
		StudentID: ref.StudentID,
		Store:     ref.StudentDatabase,
		Name:      "(unknown student)",
		Matricule: "",
	}
}
