// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI browses one user's job records a page at a time:
//  1. [ListView] : The current page, most recently updated first
//  2. [SearchView] : Edit the search text applied to the list
//  3. [DetailView] : Every field of the selected record
//  4. [ConfirmView] : Confirm deleting the selected record
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving results of
// tracker calls via the Msg union type. Every read and delete goes through [tasks.Tracker] with the
// session the model was created for.
//
// Keyboard navigation uses vim-style bindings (j/k, n/p, /, d, y/n, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
