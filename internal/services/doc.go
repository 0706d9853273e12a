// Package services implements typed clients for the Cinema Platform REST API.
//
// The package is organized around one transport and several resource services:
//
//   - [APIClient] : Raw HTTP transport with bearer auth, per-request timeout,
//     and response envelope handling. Every other service delegates to it.
//   - [AuthService] : Account lifecycle (register, login, logout, profile,
//     password recovery, account deletion).
//   - [MovieService] : Catalog listing and client-side search filtering.
//   - [FavoriteService] : The viewer's favorites join-records.
//   - [CommentService] : Per-movie comment threads.
//   - [RatingService] : The viewer's create-or-replace movie rating.
//
// Every response travels in the platform's envelope
// {success, message, data, errors}. The envelope is resolved here: callers
// receive decoded domain records or a sentinel-wrapped error, never raw
// payloads. Validation error strings arrive as "field: message"; the field
// prefix is stripped before the message reaches a user.
package services
