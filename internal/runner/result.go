package runner

// Result holds the output of a captured command execution.
// Output and Error are always set, possibly to the empty string.
type Result struct {
	RunID     string `json:"run_id"`              // unique identifier for this run
	ExitCode  int    `json:"exit_code"`           // process exit code, never interpreted
	Output    string `json:"output"`              // captured stdout
	Error     string `json:"error"`               // captured stderr
	Truncated bool   `json:"truncated,omitempty"` // true if output exceeded the size cap
}
