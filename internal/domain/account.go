package domain

import "time"

// Account is the external identity record. BaseRevision is echoed in command
// responses and never mutated by the profile service.
type Account struct {
	AccountID    string    `json:"accountId"`
	DisplayName  string    `json:"displayName"`
	BaseRevision int       `json:"baseRevision"`
	CreatedAt    time.Time `json:"createdAt"`
}
