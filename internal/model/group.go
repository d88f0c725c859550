package model

import (
	"github.com/google/uuid"
)

// Group is a directory group synced via SCIM.
type Group struct {
	Base
	DisplayName string  `json:"display_name" db:"display_name"`
	ExternalID  *string `json:"external_id" db:"external_id"`
	MemberCount int     `json:"member_count" db:"member_count"`
}

// UserGroup is the membership join row.
type UserGroup struct {
	UserID  uuid.UUID `json:"user_id" db:"user_id"`
	GroupID uuid.UUID `json:"group_id" db:"group_id"`
}
