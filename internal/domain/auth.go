package domain

// CallerKind differentiates the two trust paths a request can arrive on.
type CallerKind string

const (
	// CallerUser marks requests authorized by a user-issued bearer token.
	CallerUser CallerKind = "USER"
	// CallerService marks requests authorized by the shared service token.
	// No user identity is attached on this path.
	CallerService CallerKind = "SERVICE"
)
