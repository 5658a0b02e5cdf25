package model

// Role names embedded in JWT authority claims.  Each principal kind maps to
// exactly one role; the token carries the full list so that future accounts
// holding several roles keep working without a token format change.
const (
	RoleAdmin      = "ADMIN"
	RoleCustomer   = "CUSTOMER"
	RoleTechnician = "TECHNICIAN"
)

// TechnicianStatus is the lifecycle state of a technician account.  Only
// APPROVED technicians can log in.  SUSPENDED exists in the schema but has
// no transition endpoint in this service.
type TechnicianStatus string

const (
	StatusPending   TechnicianStatus = "PENDING"
	StatusApproved  TechnicianStatus = "APPROVED"
	StatusRejected  TechnicianStatus = "REJECTED"
	StatusSuspended TechnicianStatus = "SUSPENDED"
)
