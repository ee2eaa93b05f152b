// Package domain defines the core domain types and interfaces.
//
// Concept-oriented files (display.go, widget.go, errors.go) hold shared types
// and repository contracts. No implementation code lives here.
package domain
