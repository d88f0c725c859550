package model

import (
	"github.com/google/uuid"
)

// TargetKind discriminates the target spec union.
type TargetKind string

const (
	TargetAll        TargetKind = "all"
	TargetGroup      TargetKind = "group"
	TargetIndividual TargetKind = "individual"
	TargetAttribute  TargetKind = "attribute"
)

// TargetSpec describes who a todo is assigned to. It is a tagged union over
// Kind; only the fields for the active kind are meaningful and resolution
// happens through a single exhaustive switch in the targeting package. A
// malformed spec (wrong fields for its kind) resolves to zero recipients
// rather than an error.
type TargetSpec struct {
	Kind           TargetKind  `json:"kind"`
	UserIDs        []uuid.UUID `json:"user_ids,omitempty"`
	GroupID        *uuid.UUID  `json:"group_id,omitempty"`
	AttributeKey   string      `json:"attribute_key,omitempty"`
	AttributeValue string      `json:"attribute_value,omitempty"`
}

func AllTarget() TargetSpec {
	return TargetSpec{Kind: TargetAll}
}

func GroupTarget(groupID uuid.UUID) TargetSpec {
	return TargetSpec{Kind: TargetGroup, GroupID: &groupID}
}

func IndividualTarget(userIDs ...uuid.UUID) TargetSpec {
	return TargetSpec{Kind: TargetIndividual, UserIDs: userIDs}
}

func AttributeTarget(key, value string) TargetSpec {
	return TargetSpec{Kind: TargetAttribute, AttributeKey: key, AttributeValue: value}
}
