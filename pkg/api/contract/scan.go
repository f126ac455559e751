package contract

// ScanRequest triggers a scan run across the given tool types, or across all of them.
type ScanRequest struct {
	ToolsToScan []string `json:"toolsToScan"`
	ScanAll     bool     `json:"scanAll"`
}
