// Package models defines domain entities and persistence interfaces for the cinetx client.
//
// The package contains two categories of types:
//
// 1. Canonical domain records decoded from the Cinema Platform API:
//   - [User] : Account profile (firstName/lastName folded from legacy name fields)
//   - [Movie] : Catalog entry (averageRating folded from legacy rating field)
//   - [Favorite] : Join-record linking the viewer to a movie
//   - [Comment] : Viewer comment with an [AuthorRef] variant author
//   - [Rating] : The viewer's 1-5 rating for a movie
//
// 2. Persistence interfaces for the local cache:
//   - [Model] : Base interface with ID, timestamps, and validation
//   - [Repository] : Generic CRUD contract implemented in internal/repositories
//
// The backend has shipped several revisions with drifting field names
// (rating vs averageRating, name vs firstName, author as id string vs
// embedded object). All of that is resolved once, here, during decode;
// nothing downstream inspects raw payload shapes.
package models
