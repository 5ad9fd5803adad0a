// Package steps provides step definitions and dependency tracking for the
// company report pipeline.
package steps

import (
	"fmt"
)

// Step names, in execution order.
const (
	StepLoad      = "load"
	StepExtract   = "extract"
	StepEnrich    = "enrich"
	StepAggregate = "aggregate"
	StepWrite     = "write"
)

// Step categories.
const (
	CategoryInput      = "input"
	CategoryEnrichment = "enrichment"
	CategoryOutput     = "output"
)

// StepDefinition defines metadata for a pipeline step
type StepDefinition struct {
	Name         string
	Category     string
	Title        string
	Dependencies []string
}

// StepRegistry holds all step definitions
var StepRegistry = map[string]StepDefinition{
	StepLoad: {
		Name:         StepLoad,
		Category:     CategoryInput,
		Title:        "Loading problems",
		Dependencies: []string{},
	},
	StepExtract: {
		Name:         StepExtract,
		Category:     CategoryInput,
		Title:        "Extracting companies",
		Dependencies: []string{StepLoad},
	},
	StepEnrich: {
		Name:         StepEnrich,
		Category:     CategoryEnrichment,
		Title:        "Enriching problem metadata",
		Dependencies: []string{StepLoad},
	},
	StepAggregate: {
		Name:         StepAggregate,
		Category:     CategoryOutput,
		Title:        "Aggregating topic statistics",
		Dependencies: []string{StepExtract, StepEnrich},
	},
	StepWrite: {
		Name:         StepWrite,
		Category:     CategoryOutput,
		Title:        "Writing report",
		Dependencies: []string{StepAggregate},
	},
}

// Order lists every step in the order the pipeline runs them.
var Order = []string{StepLoad, StepExtract, StepEnrich, StepAggregate, StepWrite}

// DependencyError represents a dependency validation error
type DependencyError struct {
	Step                string
	MissingDependencies []string
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf("step %s: missing dependencies: %v", e.Step, e.MissingDependencies)
}

// Tracker records which steps of one run have completed.
type Tracker struct {
	completed map[string]bool
}

// NewTracker creates an empty Tracker.
func NewTracker() *Tracker {
	return &Tracker{completed: make(map[string]bool)}
}

// ValidateDependencies checks if all required dependencies for a step are completed
func (t *Tracker) ValidateDependencies(stepName string) error {
	def, ok := StepRegistry[stepName]
	if !ok {
		return fmt.Errorf("unknown step: %s", stepName)
	}

	var missing []string
	for _, dep := range def.Dependencies {
		if !t.completed[dep] {
			missing = append(missing, dep)
		}
	}

	if len(missing) > 0 {
		return &DependencyError{
			Step:                stepName,
			MissingDependencies: missing,
		}
	}
	return nil
}

// Begin validates a step's dependencies and returns its progress label,
// such as "Step 2/5: Extracting companies".
func (t *Tracker) Begin(stepName string) (string, error) {
	if err := t.ValidateDependencies(stepName); err != nil {
		return "", err
	}
	return Label(stepName), nil
}

// Complete marks a step as done.
func (t *Tracker) Complete(stepName string) {
	t.completed[stepName] = true
}

// Completed returns the finished steps in pipeline order.
func (t *Tracker) Completed() []string {
	var done []string
	for _, name := range Order {
		if t.completed[name] {
			done = append(done, name)
		}
	}
	return done
}

// Label formats the progress label for a step.
func Label(stepName string) string {
	for i, name := range Order {
		if name == stepName {
			return fmt.Sprintf("Step %d/%d: %s", i+1, len(Order), StepRegistry[name].Title)
		}
	}
	return stepName
}
