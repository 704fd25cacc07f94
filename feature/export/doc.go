// Package export saves a user's AniList lists as backup files.
//
// Lists can be narrowed by status (codes or the 1-6 shortcuts) and by a title substring.
// Exports with a token include private entries.
package export
