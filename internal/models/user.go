package models

// User is the locally persisted account record. It is written to the session
// store as JSON and reloaded at startup; IsInitialSetupComplete is always
// re-normalized before it is stored.
type User struct {
	ID                     FlexID   `json:"id"`
	Email                  string   `json:"email,omitempty"`
	Phone                  string   `json:"phone,omitempty"`
	Name                   string   `json:"name,omitempty"`
	Token                  string   `json:"token,omitempty"`
	BusinessID             FlexID   `json:"businessId,omitempty"`
	IsInitialSetupComplete FlexBool `json:"isInitialSetupComplete"`
}

// Session is the in-memory authentication state derived from the store.
type Session struct {
	IsAuthenticated bool
	User            *User
	Loading         bool
	Error           string
}

// VerificationContext carries the data passed from registration to the
// verification-code screen. It is never persisted.
type VerificationContext struct {
	Email      string
	BusinessID FlexID
	Phone      string
}
