package core

import "fmt"

// Entity kinds, used as registry names and in error messages.
const (
	KindConnection = "connection"
	KindDataset    = "dataset"
	KindChart      = "chart"
	KindDashboard  = "dashboard"
	KindWidget     = "widget"
)

// NotFoundError is returned when a name is not registered for a kind.
type NotFoundError struct {
	Kind string
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.Name)
}

// UnresolvedReferenceError is returned when an entity refers by name to
// another entity that is not (yet) registered.
type UnresolvedReferenceError struct {
	Kind    string // kind of the referring entity
	Name    string // name of the referring entity
	RefKind string
	Ref     string
	Err     error
}

func (e *UnresolvedReferenceError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("cannot find %s %q for %s", e.RefKind, e.Ref, e.Kind)
	}
	return fmt.Sprintf("cannot find %s %q for %s %q", e.RefKind, e.Ref, e.Kind, e.Name)
}

func (e *UnresolvedReferenceError) Unwrap() error { return e.Err }

// InvalidConfigError is returned when an entity is missing a required field.
type InvalidConfigError struct {
	Kind  string
	Name  string
	Field string
	Err   error
}

func (e *InvalidConfigError) Error() string {
	subject := e.Kind
	if e.Name != "" {
		subject = fmt.Sprintf("%s %q", e.Kind, e.Name)
	}
	if e.Field != "" {
		return fmt.Sprintf("invalid %s: %s: %v", subject, e.Field, e.Err)
	}
	return fmt.Sprintf("invalid %s: %v", subject, e.Err)
}

func (e *InvalidConfigError) Unwrap() error { return e.Err }

// MissingSectionError is returned when a required top-level document key is absent.
type MissingSectionError struct {
	Section string
}

func (e *MissingSectionError) Error() string {
	return fmt.Sprintf("missing required section %q\nHint: a document needs connections, datasets, charts and dashboards", e.Section)
}

// DocumentParseError is returned when the document is not well-formed.
type DocumentParseError struct {
	Path string
	Line int
	Err  error
}

func (e *DocumentParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("failed to parse %s:%d: %v", e.Path, e.Line, e.Err)
	}
	return fmt.Sprintf("failed to parse %s: %v", e.Path, e.Err)
}

func (e *DocumentParseError) Unwrap() error { return e.Err }

// ConnectionError is returned when a connection handle cannot be built.
// The backend error is reachable through errors.Unwrap.
type ConnectionError struct {
	Connection string
	Err        error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("connection %q: %v", e.Connection, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// QueryExecutionError is returned when a dataset's query fails.
// The backend error is reachable through errors.Unwrap.
type QueryExecutionError struct {
	Dataset string
	Err     error
}

func (e *QueryExecutionError) Error() string {
	return fmt.Sprintf("dataset %q: query failed: %v", e.Dataset, e.Err)
}

func (e *QueryExecutionError) Unwrap() error { return e.Err }
