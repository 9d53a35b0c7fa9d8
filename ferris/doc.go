// Package ferris is a client for the FerrisChat API. It wraps the rest
// requester with the API's object model: guilds, channels, messages,
// users, members, roles and invites, an in-memory state cache, and
// token or email/password authentication.
package ferris
