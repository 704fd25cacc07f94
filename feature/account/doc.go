// Package account manages saved AniList logins.
//
// Accounts (username, token and the API client they were created with) live in the
// application database through gorm, so sqlite and mysql both work.
//
// Login follows the OAuth authorization code flow: the user opens the authorize URL,
// AniList redirects back with ?code=..., and the code is exchanged for a token. The code
// reaches us either through the local Callback server (account.callback_port) or as a
// pasted redirect URL handled by ExtractCode.
package account
