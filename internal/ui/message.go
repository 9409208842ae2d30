package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/jobtrack/internal/models"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgPageFetched MsgKind = iota
	MsgRecordDeleted
)

type pageFetched struct {
	page *models.Page
	err  error
}

type recordDeleted struct {
	id      string
	deleted bool
	err     error
}

// pageFetchedMsg is the constructor for [MsgPageFetched]
func pageFetchedMsg(page *models.Page, err error) Msg {
	return Msg{kind: MsgPageFetched, data: pageFetched{page, err}}
}

// recordDeletedMsg is the constructor for [MsgRecordDeleted]
func recordDeletedMsg(id string, deleted bool, err error) Msg {
	return Msg{kind: MsgRecordDeleted, data: recordDeleted{id, deleted, err}}
}
