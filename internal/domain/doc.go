// Package domain contains the core entities and error taxonomy for labelrec.
//
// This package is the innermost layer. It has no dependencies on serial
// devices, the file system, logging or the terminal, and holds only the
// values that flow between the capture session, the progress ledger and the
// session controller.
//
// # Entities
//
//   - [Checklist]: the in-memory CSV progress table (header + text cells)
//   - [LabelSnapshot]: the label banner shown to the operator
//   - [CommitResult]: the outcome of saving a take
//   - [Controls]: which operator controls are currently enabled
//
// # Errors
//
// Every failure the operator can see is one of the typed errors in errors.go.
// Each carries the dialog text and title it is reported with.
package domain
