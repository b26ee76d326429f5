// Package todo holds the task list store and the task slot document format.
//
// The store keeps three pieces of state and performs no I/O:
//
//   - the active list, in insertion order
//   - the completed list, append-only
//   - the form draft used to build or edit a task before it is committed
//
// Positional operations (DeleteAt, CompleteAt, EditAt) address tasks by their
// current index in the active list. Every task also carries a stable id, and
// the id-addressed variants (Delete, Complete, Edit) resolve that id to its
// current index first, so callers holding a stale position can avoid acting on
// the wrong task.
//
// # Slot Format
//
// The active list is stored as a JSON array of task records:
//
//	[
//	  {
//	    "id": "3f1c9a52-8d0e-4c1b-9a57-2f7e5f8d9b10",
//	    "title": "Buy milk",
//	    "description": "2%",
//	    "dueDate": "2024-01-01",
//	    "priority": "Low",
//	    "category": "Personal"
//	  }
//	]
//
// There is no schema version field. Records written without an "id" are
// accepted and receive a fresh id when hydrated.
//
// # Validation
//
// Two validation layers exist:
//
// 1. Task input (Add, SubmitDraft) is checked with go-playground/validator:
//   - title and description are required and must not be blank
//   - priority is one of High, Medium, Low (default Medium)
//   - category is one of Work, Personal, Urgent (default Work)
//   - dueDate is empty or a YYYY-MM-DD calendar date
//
// 2. Slot documents are checked against an embedded JSON Schema
// (draft 2020-12) during Hydrate. A document that is not a JSON array
// hydrates as an empty list. Otherwise each record is checked on its own:
// a bad id, dueDate, priority or category is cleared and defaulted, and a
// record without a usable title and description is dropped. Every task
// Hydrate returns also passes task input validation. Hydrate never fails.
//
// # File Format
//
// Encode writes the slot with:
//   - 2-space indentation
//   - Trailing newline
//   - An empty array (never null) for an empty list
package todo
