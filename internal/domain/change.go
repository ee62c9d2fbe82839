package domain

// ChangeType discriminates change records in a command response.
type ChangeType string

const (
	ChangeItemAdded    ChangeType = "itemAdded"
	ChangeItemRemoved  ChangeType = "itemRemoved"
	ChangeStatModified ChangeType = "statModified"
)

// ChangeRecord is one entry of the client-facing change list. Exactly the
// fields relevant to its ChangeType are populated. Record order within a
// response is significant and must be preserved as produced.
type ChangeRecord struct {
	ChangeType ChangeType  `json:"changeType"`
	ItemID     string      `json:"itemId,omitempty"`
	Item       *Item       `json:"item,omitempty"`
	Name       string      `json:"name,omitempty"`
	Value      interface{} `json:"value,omitempty"`
}

// CommandResponse is the envelope returned for every profile command.
type CommandResponse struct {
	ProfileRevision            int            `json:"profileRevision"`
	ProfileID                  string         `json:"profileId"`
	ProfileChangesBaseRevision int            `json:"profileChangesBaseRevision"`
	ProfileChanges             []ChangeRecord `json:"profileChanges"`
	ProfileCommandRevision     int            `json:"profileCommandRevision"`
	ServerTime                 string         `json:"serverTime"`
	ResponseVersion            int            `json:"responseVersion"`
}

// ResponseVersion is the fixed protocol version marker in command responses.
const ResponseVersion = 1
