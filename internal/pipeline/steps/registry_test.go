package steps

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStepRegistry(t *testing.T) {
	require.Len(t, StepRegistry, len(Order))

	for _, stepName := range Order {
		def, ok := StepRegistry[stepName]
		require.True(t, ok, "Step %s should be in registry", stepName)
		assert.Equal(t, stepName, def.Name)
		assert.NotEmpty(t, def.Category)
		assert.NotEmpty(t, def.Title)
	}
}

func TestStepRegistry_DependenciesPrecede(t *testing.T) {
	position := make(map[string]int)
	for i, name := range Order {
		position[name] = i
	}

	for _, name := range Order {
		for _, dep := range StepRegistry[name].Dependencies {
			assert.Less(t, position[dep], position[name], "%s must run after %s", name, dep)
		}
	}
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "Step 1/5: Loading problems", Label(StepLoad))
	assert.Equal(t, "Step 5/5: Writing report", Label(StepWrite))
	assert.Equal(t, "mystery", Label("mystery"))
}

func TestTracker_BeginInOrder(t *testing.T) {
	tracker := NewTracker()

	for _, name := range Order {
		label, err := tracker.Begin(name)
		require.NoError(t, err)
		assert.Contains(t, label, StepRegistry[name].Title)
		tracker.Complete(name)
	}

	assert.Equal(t, Order, tracker.Completed())
}

func TestTracker_MissingDependencies(t *testing.T) {
	tracker := NewTracker()
	tracker.Complete(StepLoad)

	_, err := tracker.Begin(StepAggregate)
	require.Error(t, err)

	var depErr *DependencyError
	require.ErrorAs(t, err, &depErr)
	assert.Equal(t, StepAggregate, depErr.Step)
	assert.Equal(t, []string{StepExtract, StepEnrich}, depErr.MissingDependencies)
	assert.Contains(t, err.Error(), "missing dependencies")
}

func TestTracker_UnknownStep(t *testing.T) {
	err := NewTracker().ValidateDependencies("unknown_step")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown step")
}
