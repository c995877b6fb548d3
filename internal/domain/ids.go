// Package domain contains entity types without logic, just meta-data.
package domain

import (
	"errors"

	"github.com/google/uuid"
)

const MaxRoomIDLen = 128

var (
	ErrRoomIDEmpty   = errors.New("room id empty")
	ErrRoomIDTooLong = errors.New("room id too long")
)

// ConnID identifies one live transport session. Assigned at accept time,
// unique for the connection's lifetime, meaningless afterwards.
type ConnID string

// UserID is the stable identifier the identity service resolves a
// credential to.
type UserID string

// ChatRoomID and VideoRoomID are opaque client-supplied names. They live in
// disjoint namespaces, so they get distinct types even though both are
// free-form strings on the wire.
type (
	ChatRoomID  string
	VideoRoomID string
)

func NewConnID() ConnID {
	return ConnID(uuid.NewString())
}

// Participant is the public view of one connection inside a video room.
type Participant struct {
	ConnID   ConnID `json:"connId"`
	UserID   UserID `json:"userId"`
	UserName string `json:"userName"`
}

func validateRoomID(s string) error {
	if len(s) == 0 {
		return ErrRoomIDEmpty
	}
	if len(s) > MaxRoomIDLen {
		return ErrRoomIDTooLong
	}
	return nil
}

func (id ChatRoomID) Validate() error  { return validateRoomID(string(id)) }
func (id VideoRoomID) Validate() error { return validateRoomID(string(id)) }
