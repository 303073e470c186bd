package model

import (
	"fmt"
	"sync/atomic"
)

// ItemID addresses a checklist item draft while it is being edited.
// Server-assigned (durable) ids and client-local (temporary) ids are
// distinct kinds of the same type, so code cannot accidentally submit
// a temporary id in a save payload: Payload construction only accepts
// the durable half, and temporary ids are discarded on submit.
type ItemID struct {
	durable string
	local   int64
}

var localCounter atomic.Int64

// DurableID wraps a server-assigned identifier.
func DurableID(id string) ItemID {
	return ItemID{durable: id}
}

// NextTemporaryID mints a fresh client-local identifier. Temporary ids
// exist only to key rows in the editor and are never persisted.
func NextTemporaryID() ItemID {
	return ItemID{local: localCounter.Add(1)}
}

// IsTemporary reports whether the id was generated locally.
func (id ItemID) IsTemporary() bool {
	return id.durable == ""
}

// Durable returns the server id and true, or "" and false for a
// temporary id.
func (id ItemID) Durable() (string, bool) {
	if id.durable == "" {
		return "", false
	}
	return id.durable, true
}

// String renders a display form. Temporary ids are prefixed so they
// cannot be mistaken for server ids in logs.
func (id ItemID) String() string {
	if id.durable != "" {
		return id.durable
	}
	return fmt.Sprintf("tmp-%d", id.local)
}
