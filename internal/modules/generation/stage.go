package generation

import "fmt"

// Stage is a pipeline run's position. Runs only move forward; Failed is
// terminal and reachable from any working stage.
type Stage string

const (
	StageIdle        Stage = "idle"
	StagePrompting   Stage = "prompting"
	StageAwaitingLLM Stage = "awaiting_llm"
	StageParsing     Stage = "parsing"
	StageValidating  Stage = "validating"
	StagePersisting  Stage = "persisting"
	StageDone        Stage = "done"
	StageFailed      Stage = "failed"
)

var stageOrder = map[Stage]int{
	StageIdle:        0,
	StagePrompting:   1,
	StageAwaitingLLM: 2,
	StageParsing:     3,
	StageValidating:  4,
	StagePersisting:  5,
	StageDone:        6,
}

func (s Stage) Terminal() bool { return s == StageDone || s == StageFailed }

// canTransition allows one step forward, or Failed from a working stage.
func canTransition(from, to Stage) bool {
	if from.Terminal() {
		return false
	}
	if to == StageFailed {
		return from != StageIdle
	}
	return stageOrder[to] == stageOrder[from]+1
}

// Transition is handed to observers on every stage change.
type Transition struct {
	Pipeline string
	From     Stage
	To       Stage
	Err      error
}

// StageError records where a run failed. Err carries the apperr code.
type StageError struct {
	Pipeline string
	Stage    Stage
	Err      error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s failed at %s: %v", e.Pipeline, e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }
