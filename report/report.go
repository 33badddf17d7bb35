// Package report folds per-world tick outcomes into the structured record a
// dispatch cycle returns to its caller and observability sinks.
package report

import "github.com/sworn-game/daytick/tick"

// Dispatch modes.
const (
	ModeDirect      = "direct"
	ModeDistributed = "distributed"
)

// Summary counts outcomes by terminal state.
type Summary struct {
	Succeeded int `json:"succeeded"`
	Skipped   int `json:"skipped"`
	Failed    int `json:"failed"`
}

// Aggregate is a pure fold of outcomes into a Summary.
func Aggregate(outcomes []tick.Outcome) Summary {
	var s Summary
	for _, o := range outcomes {
		switch o.Status {
		case tick.StatusSucceeded:
			s.Succeeded++
		case tick.StatusSkipped:
			s.Skipped++
		case tick.StatusFailed:
			s.Failed++
		}
	}
	return s
}

// DispatchReport is the sole externally observable output of one scheduler
// run. Direct cycles carry the outcome list inline; distributed cycles carry
// only the submitted task ids, whose own reports arrive asynchronously.
type DispatchReport struct {
	Success        bool           `json:"success"`
	Mode           string         `json:"mode"`
	TotalWorlds    int            `json:"total_worlds"`
	BatchesCreated int            `json:"batches_created,omitempty"`
	Summary        Summary        `json:"summary"`
	Results        []tick.Outcome `json:"results,omitempty"`
	SubmittedTasks []string       `json:"submitted_tasks,omitempty"`
	Error          string         `json:"error,omitempty"`
}

// Direct builds the report for an in-process cycle.
func Direct(outcomes []tick.Outcome) *DispatchReport {
	s := Aggregate(outcomes)
	return &DispatchReport{
		Success:     s.Failed == 0,
		Mode:        ModeDirect,
		TotalWorlds: len(outcomes),
		Summary:     s,
		Results:     outcomes,
	}
}

// Distributed builds the report for a cycle that partitioned its worlds and
// submitted them to the worker queue.
func Distributed(totalWorlds, batchesCreated int, taskIDs []string) *DispatchReport {
	return &DispatchReport{
		Success:        true,
		Mode:           ModeDistributed,
		TotalWorlds:    totalWorlds,
		BatchesCreated: batchesCreated,
		SubmittedTasks: taskIDs,
	}
}
