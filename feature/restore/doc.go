// Package restore runs restore and retry passes of a backup file against an account.
//
// A pass is prepared first (load, normalize, pre-upload filter) so the caller can show
// the plan and ask for confirmation, then executed. Every executed pass gets a run id,
// is logged with it, and is recorded in the run journal.
package restore
