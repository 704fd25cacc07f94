// Package backup implements the backup store: reading, normalizing and writing list backups.
//
// Two document shapes are accepted and resolved once at load time:
//
//   - Keyed: {"anime": [...], "manga": [...]} as written by export.
//   - Flat: a legacy [...] where each entry carries media.type (anime when absent).
//
// Everything past Load works on a single normalized []reconcile.Entry; the shape is kept
// only so derived artifacts are written back the way the source was.
//
// # Derived artifacts
//
//   - <stem>.failed.json: entries that still need importing after a pass.
//   - leftout.json: entries never attempted because a pass was interrupted.
//
// Both are fully overwritten on every write. Artifacts implements reconcile.Artifacts and
// optionally mirrors each write to object storage through Mirror.
package backup
