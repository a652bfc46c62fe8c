// Package core defines the shared language of the Firefly system.
//
// This package contains:
//   - Result types (Table, Markup)
//   - Adapter configuration (AdapterConfig)
//   - Error kinds surfaced by loading and rendering
//
// The Golden Rule: pkg/core imports ONLY stdlib.
// All other packages depend on core, not the reverse.
package core
