// Package ratelimit makes a single remote call look synchronous and eventually
// successful when the remote throttles us.
//
// A call signals throttling by returning a *LimitedError (Detect builds one from an
// HTTP response). The Controller waits for the server-provided hint, or DefaultWait
// when there is none, and re-issues the call. Every signal costs exactly one full wait.
// Any other error is handed back to the caller untouched.
//
// Waits are cancellable: when the context is cancelled mid-wait, Do returns the
// context error at once.
//
// A Controller also carries the per-run Stats (hits and total time waited), so one
// Controller should be created per restore pass.
package ratelimit
