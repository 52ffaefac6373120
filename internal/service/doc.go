// Package service implements the taskdesk business rules on top of the
// entity store: task creation and field-diff authorized updates, the
// derived per-user reference sets kept in lockstep with task rows, the
// manual cascades on task and user deletion, and comment ownership.
//
// Every mutating operation runs inside a single store transaction, so a
// task write and its reference-set bookkeeping commit or roll back
// together. Rows are not versioned: two callers editing the same task
// concurrently are serialized by the store, but the later commit can
// overwrite fields the earlier one changed (a lost update). Callers that
// need stronger guarantees must coordinate externally.
package service
