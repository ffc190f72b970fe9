package domain

// Customer is the domain model for end-users who file issues. Identity
// attributes only; immutable after registration.
type Customer struct {
	ID    string
	Name  string
	Email string
}
