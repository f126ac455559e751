package contract

// Ticket tracks the remediation of a finding in an external ticket tracker.
type Ticket struct {
	TicketId             string `json:"ticketId"`
	Summary              string `json:"summary"`
	IssueTypeName        string `json:"issueTypeName"`
	IssueTypeDescription string `json:"issueTypeDescription"`
	StatusName           string `json:"statusName"`
	EsFindingId          string `json:"esFindingId,omitempty"`
}

// CreateTicketRequest is the body of the ticket creation mutation. The backend assigns the ticket id.
type CreateTicketRequest struct {
	FindingId   string `json:"findingId"`
	Summary     string `json:"summary"`
	Description string `json:"description"`
}
