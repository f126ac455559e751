package contract

// Runbook is a user-defined trigger/filter/action automation rule evaluated server-side
// against incoming findings.
type Runbook struct {
	Id          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Enabled     bool      `json:"enabled"`
	Triggers    []Trigger `json:"triggers"`
	Filters     []Filter  `json:"filters"`
	Actions     []Action  `json:"actions"`
}

// Configured reports whether the runbook has a complete trigger/filter/action pipeline.
// A runbook missing any of the three stages is inert regardless of Enabled.
func (r Runbook) Configured() bool {
	return len(r.Triggers) > 0 && len(r.Filters) > 0 && len(r.Actions) > 0
}

// Trigger reacts to a finding event. The set of valid trigger types is server-defined.
type Trigger struct {
	TriggerType string `json:"triggerType"`
}

// Filter narrows the findings a runbook reacts to. An absent state or severity matches any value.
type Filter struct {
	State    string `json:"state,omitempty"`
	Severity string `json:"severity,omitempty"`
}

// Action describes what a runbook does with a matched finding.
type Action struct {
	Update       *StateUpdate `json:"update,omitempty"`
	TicketCreate bool         `json:"ticketCreate"`
}

// StateUpdate moves a matched finding to the given state.
type StateUpdate struct {
	To string `json:"to"`
}

// RunbookStatus is the backend's view of a runbook's readiness.
type RunbookStatus struct {
	RunbookId  string `json:"runbookId"`
	Configured bool   `json:"configured"`
	Enabled    bool   `json:"enabled"`
}

type CreateRunbookRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ConfigureTriggersRequest replaces the full trigger configuration of a runbook.
type ConfigureTriggersRequest struct {
	RunbookId string    `json:"runbookId"`
	Triggers  []Trigger `json:"triggers"`
}

// ConfigureFiltersRequest replaces the full filter configuration of a runbook.
type ConfigureFiltersRequest struct {
	RunbookId string `json:"runbookId"`
	State     string `json:"state,omitempty"`
	Severity  string `json:"severity,omitempty"`
}

// ConfigureActionsRequest replaces the full action configuration of a runbook.
type ConfigureActionsRequest struct {
	RunbookId    string       `json:"runbookId"`
	Update       *StateUpdate `json:"update,omitempty"`
	TicketCreate bool         `json:"ticketCreate"`
}
