package models

import "time"

// OutputEntry is one (key, value) insertion produced by a completed step.
type OutputEntry struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// ExecutionContext is the per-run state threaded through the step loop. Step
// outputs live in an ordered insertion log, never a bare map: the
// PREVIOUS_OUTPUT/OUTPUT aliases must resolve to the most recently appended
// entry, which map iteration order cannot guarantee.
type ExecutionContext struct {
	Transcript string    `json:"transcript"`
	Title      string    `json:"title,omitempty"`
	Timestamp  time.Time `json:"timestamp"`

	// TriggerContext is the bounded word window around the last trigger
	// match; the intent extractor classifies against it.
	TriggerContext string `json:"trigger_context,omitempty"`

	// Intents holds the accepted intents of the last intentExtract step,
	// consumed by a later executeWorkflows step.
	Intents []ExtractedIntent `json:"intents,omitempty"`

	outputs []OutputEntry
}

func NewExecutionContext(transcript, title string, timestamp time.Time) *ExecutionContext {
	return &ExecutionContext{
		Transcript: transcript,
		Title:      title,
		Timestamp:  timestamp,
	}
}

// AppendOutput records a step output. Re-using a key appends a fresh entry;
// lookups scan from the tail so the last write wins.
func (c *ExecutionContext) AppendOutput(key, value string) {
	c.outputs = append(c.outputs, OutputEntry{Key: key, Value: value})
}

// LastOutput returns the value of the most recently appended entry.
func (c *ExecutionContext) LastOutput() (string, bool) {
	if len(c.outputs) == 0 {
		return "", false
	}

	return c.outputs[len(c.outputs)-1].Value, true
}

// Output returns the latest value recorded under key.
func (c *ExecutionContext) Output(key string) (string, bool) {
	for i := len(c.outputs) - 1; i >= 0; i-- {
		if c.outputs[i].Key == key {
			return c.outputs[i].Value, true
		}
	}

	return "", false
}

// Outputs returns a copy of the insertion log in append order.
func (c *ExecutionContext) Outputs() []OutputEntry {
	entries := make([]OutputEntry, len(c.outputs))
	copy(entries, c.outputs)

	return entries
}

// OutputMap flattens the log into key -> latest value.
func (c *ExecutionContext) OutputMap() map[string]string {
	outputs := make(map[string]string, len(c.outputs))
	for _, entry := range c.outputs {
		outputs[entry.Key] = entry.Value
	}

	return outputs
}

// OutputCount reports the insertion log length. A run over an inherited
// context records it up front to mark where its own outputs begin.
func (c *ExecutionContext) OutputCount() int {
	return len(c.outputs)
}

// OutputValues returns the latest value per key, ordered by each key's final
// insertion position. Used to assemble the joined run output.
func (c *ExecutionContext) OutputValues() []string {
	return c.OutputValuesFrom(0)
}

// OutputValuesFrom restricts OutputValues to entries appended at or after
// start, so a dispatched sub-workflow's run reports only its own step
// outputs, not what it inherited from the routing workflow.
func (c *ExecutionContext) OutputValuesFrom(start int) []string {
	if start < 0 {
		start = 0
	}

	seen := make(map[string]bool, len(c.outputs))
	values := make([]string, 0, len(c.outputs))

	for i := len(c.outputs) - 1; i >= start; i-- {
		if seen[c.outputs[i].Key] {
			continue
		}

		seen[c.outputs[i].Key] = true
		values = append(values, c.outputs[i].Value)
	}

	for i, j := 0, len(values)-1; i < j; i, j = i+1, j-1 {
		values[i], values[j] = values[j], values[i]
	}

	return values
}

// Clone copies the context for parallel fan-out. Each branch mutates its own
// copy; results are merged only after all branches join.
func (c *ExecutionContext) Clone() *ExecutionContext {
	clone := &ExecutionContext{
		Transcript:     c.Transcript,
		Title:          c.Title,
		Timestamp:      c.Timestamp,
		TriggerContext: c.TriggerContext,
		Intents:        make([]ExtractedIntent, len(c.Intents)),
		outputs:        make([]OutputEntry, len(c.outputs)),
	}
	copy(clone.Intents, c.Intents)
	copy(clone.outputs, c.outputs)

	return clone
}
