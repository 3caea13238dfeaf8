package pubsub

// DropdownEvent is the payload published by dropdown components.
type DropdownEvent struct {
	// ID identifies the dropdown instance.
	ID string
	// Name is the field name the dropdown was created with.
	Name string
	// Value is the selected value for ChangedEvent, else the current value.
	Value any
	// Label is the label shown on the trigger.
	Label string
	// HasValue is false while nothing has been selected.
	HasValue bool
}

// FormEvent is the payload published when a form is submitted.
type FormEvent struct {
	Values  map[string]any
	Invalid []string
}
