package contract

import "strings"

// Finding states as reported by the backend.
const (
	FindingStateOpen          = "OPEN"
	FindingStateFalsePositive = "FALSE_POSITIVE"
	FindingStateSuppressed    = "SUPPRESSED"
	FindingStateFixed         = "FIXED"
)

// Finding is a single security issue reported by a scanning tool.
type Finding struct {
	Id                       string         `json:"id"`
	Title                    string         `json:"title"`
	Desc                     string         `json:"desc"`
	ToolType                 string         `json:"toolType"`
	Severity                 string         `json:"severity"`
	State                    string         `json:"state"`
	Cvss                     float64        `json:"cvss"`
	Cve                      string         `json:"cve"`
	FilePath                 string         `json:"filePath"`
	Cwes                     []string       `json:"cwes"`
	Suggestions              string         `json:"suggestions"`
	TicketId                 string         `json:"ticketId,omitempty"`
	UpdatedAt                string         `json:"updatedAt"`
	ToolAdditionalProperties map[string]any `json:"toolAdditionalProperties,omitempty"`
}

// FindingsPage is one page of a filtered findings query.
type FindingsPage struct {
	Findings   []Finding `json:"findings"`
	TotalHits  int       `json:"totalHits"`
	TotalPages int       `json:"totalPages"`
	Size       int       `json:"size"`
}

// UpdateFindingStateRequest is the body of the finding state mutation. AlertNumber stays 0 for
// findings without a tool-native numeric identifier.
type UpdateFindingStateRequest struct {
	Tool         string `json:"tool"`
	AlertNumber  int    `json:"alertNumber"`
	FindingState string `json:"findingState"`
	Id           string `json:"id"`
}

var openStates = []string{FindingStateOpen}
var closedStates = []string{FindingStateFalsePositive, FindingStateSuppressed, FindingStateFixed}

// PossibleNextStates returns the states a finding may transition to from the given state.
// An open finding can move to any closed state, a closed finding can only be reopened.
// An empty or unknown state yields the union of both sets.
func PossibleNextStates(currentState string) []string {
	switch strings.ToUpper(currentState) {
	case FindingStateOpen:
		return append([]string{}, closedStates...)
	case FindingStateFalsePositive, FindingStateSuppressed, FindingStateFixed:
		return append([]string{}, openStates...)
	}
	return append(append([]string{}, openStates...), closedStates...)
}
