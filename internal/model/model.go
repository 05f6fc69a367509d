package model

import (
	"strings"
	"time"
)

type Access string

const (
	AccessAdmin  Access = "admin"
	AccessPublic Access = "public"
)

// ParseAccess accepts "admin" or "public" (case-insensitive).
func ParseAccess(s string) (Access, bool) {
	switch Access(strings.ToLower(strings.TrimSpace(s))) {
	case AccessAdmin:
		return AccessAdmin, true
	case AccessPublic:
		return AccessPublic, true
	default:
		return "", false
	}
}

type Actor struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Note struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Body         string    `json:"body,omitempty"`
	Access       Access    `json:"access"`
	OwnerActorID string    `json:"ownerActorId"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// NoteView is a note as seen by one viewer.
type NoteView struct {
	Note
	ViewerCanEdit  bool `json:"viewerCanEdit"`
	ViewerCanShare bool `json:"viewerCanShare"`
}

type Event struct {
	ID       string    `json:"id"`
	TS       time.Time `json:"ts"`
	ActorID  string    `json:"actorId"`
	Type     string    `json:"type"`
	EntityID string    `json:"entityId"`
	Payload  any       `json:"payload,omitempty"`
}
