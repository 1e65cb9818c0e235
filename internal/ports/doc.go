// Package ports defines the interfaces (ports) that connect the application
// layer to infrastructure adapters.
//
// # Port Interfaces
//
//   - [Channel]: an open serial connection with a blocking line read
//   - [Opener]: opens a Channel for a device
//   - [PortLister]: enumerates serial devices
//   - [ChecklistStore]: loads and persists the checklist table
//   - [SampleStore]: appends captured segments to per-label sample files
//   - [Surface]: display commands understood by the UI
//   - [Dialogs]: file and directory pickers
//   - [Logger]: structured logging abstraction
//
// # Usage
//
// The application layer (internal/app, internal/capture, internal/ledger)
// depends only on these interfaces. Infrastructure adapters
// (internal/adapters) implement them with go.bug.st/serial, the file system,
// zenity and zerolog; internal/tui implements Surface.
package ports
