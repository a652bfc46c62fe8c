package core

// Markup is rendered HTML ready to be handed to a display sink.
type Markup string

// String returns the markup as a plain string.
func (m Markup) String() string { return string(m) }

// IsEmpty reports whether the markup has no content.
func (m Markup) IsEmpty() bool { return m == "" }
