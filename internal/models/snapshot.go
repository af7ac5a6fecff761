package models

// Snapshot is the wholesale persisted document: every collection the
// desk tracks, loaded in one piece at startup and rewritten in one
// piece after every committed change.
type Snapshot struct {
	Clients         []Client         `json:"clients"`
	Employees       []Employee       `json:"employees"`
	Rooms           []Room           `json:"rooms"`
	Stays           []Stay           `json:"stays"`
	ServiceRequests []ServiceRequest `json:"service_requests"`
	MenuItems       []MenuItem       `json:"menu_items"`
}
