package model

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestTargetRoundTrip(t *testing.T) {
	groupID := uuid.New()
	userA, userB := uuid.New(), uuid.New()

	tests := []struct {
		name string
		spec TargetSpec
	}{
		{"all", AllTarget()},
		{"group", GroupTarget(groupID)},
		{"individual", IndividualTarget(userA, userB)},
		{"attribute", AttributeTarget("department", "Engineering")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var todo Todo
			todo.SetTarget(tt.spec)
			got := todo.Target()

			assert.Equal(t, tt.spec.Kind, got.Kind)
			assert.Equal(t, tt.spec.GroupID, got.GroupID)
			assert.Equal(t, len(tt.spec.UserIDs), len(got.UserIDs))
			assert.Equal(t, tt.spec.AttributeKey, got.AttributeKey)
			assert.Equal(t, tt.spec.AttributeValue, got.AttributeValue)
		})
	}
}

// Changing the target must clear the columns of the previous kind so stale
// fields never leak into resolution.
func TestSetTargetClearsPreviousKind(t *testing.T) {
	var todo Todo
	todo.SetTarget(GroupTarget(uuid.New()))
	todo.SetTarget(AllTarget())

	assert.Nil(t, todo.TargetGroupID)
	assert.Nil(t, todo.TargetUserIDs)
	assert.Nil(t, todo.TargetAttributeKey)
	assert.Nil(t, todo.TargetAttributeValue)
}
