// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a multi-view workflow over the movie catalog:
//  1. [CatalogView] : Browse and filter the popular-movies catalog
//  2. [MovieView] : Movie details with favorites, ratings, and the comment thread
//  3. [ComposeView] : Write or edit a comment
//  4. [ConfirmView] : Confirm a comment deletion before anything is sent
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View
// pattern. All mutations route through the collections layer, so nothing on
// screen changes until the server confirms; transient outcomes surface
// through the notification banner at the top of every view.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, f, 1-5, q)
// with contextual help displayed via charmbracelet/bubbles/help.
package ui
