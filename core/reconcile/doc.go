// Package reconcile restores a local snapshot of list entries into a remote account.
//
// A reconciliation pass has three stages:
//
// 1. Plan: the pre-upload filter. The complete remote id set is fetched once per kind
//    and entries are split into ToUpload and AlreadyPresent. The snapshot is taken at
//    the start of the pass and never refreshed mid-pass.
//
// 2. Upload: custom lists referenced by the batch are ensured up front, then entries are
//    uploaded one at a time in plan order. A rejection is recorded and the loop moves on.
//    Cancellation is honoured between uploads and inside rate-limit waits; entries never
//    attempted are persisted as the left-out artifact.
//
// 3. Verify: remote lists are fetched again and every attempted entry is checked for
//    presence. Rejected entries and entries missing after verification are merged into
//    the residual artifact, which feeds the next retry pass.
//
// # Collaborators
//
// Remote abstracts the list service (see feature/anilist). Artifacts abstracts where
// derived snapshots are written (see feature/backup). Both are interfaces so the engine
// can be driven by in-memory fakes in tests.
//
// # Usage
//
//	engine := reconcile.NewEngine(remote, artifacts, logger)
//	plan, err := engine.Plan(ctx, entries)
//	// report, confirm...
//	result, err := engine.Execute(ctx, plan)
//	if errors.Is(err, reconcile.ErrInterrupted) {
//	    fmt.Println("resume from", result.LeftOutPath)
//	}
package reconcile
