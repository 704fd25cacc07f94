// Package anilist is the remote list service: a small client for the AniList GraphQL API.
//
// It covers what backup and restore need:
//
//   - Viewer and UserID lookups.
//   - Complete list reads through chunked MediaListCollection queries.
//   - SaveMediaListEntry uploads and custom list creation through UpdateUser.
//   - The OAuth authorization code exchange used by account login.
//
// Every request runs under a ratelimit.Controller. Rate-limit responses are waited out
// and re-issued; everything else surfaces as *APIError, ErrInvalidToken or, for uploads,
// an error wrapping ErrRejected.
//
// An authenticated Client satisfies reconcile.Remote.
package anilist
