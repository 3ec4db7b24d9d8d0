package generator

import "time"

// Status is a snapshot of the generation state machine, shaped for the
// status endpoint. It is always passed by value; callers cannot reach the
// coordinator's internal state through it.
type Status struct {
	IsGenerating  bool       `json:"isGenerating"`
	Progress      int        `json:"progress"`
	Status        string     `json:"status"`
	Error         string     `json:"error,omitempty"`
	LastGenerated *time.Time `json:"lastGenerated"`
	TotalProducts int        `json:"totalProducts"`
}

const (
	statusStarting  = "Starting"
	statusCompleted = "Completed"
	statusError     = "Error"
)
