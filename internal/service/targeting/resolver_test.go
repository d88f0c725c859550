package targeting

import (
	"context"
	"errors"
	"io"
	"sort"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/miutaku/nugget/internal/model"
	"github.com/miutaku/nugget/pkg/logger"
)

type fakeDirectory struct {
	users  map[uuid.UUID]*model.User
	groups map[uuid.UUID][]uuid.UUID
	err    error
}

func (d *fakeDirectory) GetActiveUsers(ctx context.Context) ([]*model.User, error) {
	if d.err != nil {
		return nil, d.err
	}
	var out []*model.User
	for _, u := range d.users {
		if u.IsActive {
			out = append(out, u)
		}
	}
	return out, nil
}

func (d *fakeDirectory) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*model.User, error) {
	if d.err != nil {
		return nil, d.err
	}
	var out []*model.User
	for _, id := range ids {
		if u, ok := d.users[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (d *fakeDirectory) GetByAttribute(ctx context.Context, key, value string) ([]*model.User, error) {
	if d.err != nil {
		return nil, d.err
	}
	column, ok := model.AttributeColumn(key)
	if !ok {
		return nil, nil
	}
	var out []*model.User
	for _, u := range d.users {
		var attr *string
		switch column {
		case "department":
			attr = u.Department
		case "division":
			attr = u.Division
		case "job_title":
			attr = u.JobTitle
		case "employee_number":
			attr = u.EmployeeNumber
		case "cost_center":
			attr = u.CostCenter
		case "organization":
			attr = u.Organization
		}
		if attr != nil && *attr == value {
			out = append(out, u)
		}
	}
	return out, nil
}

func (d *fakeDirectory) GetMembers(ctx context.Context, groupID uuid.UUID) ([]*model.User, error) {
	if d.err != nil {
		return nil, d.err
	}
	var out []*model.User
	for _, id := range d.groups[groupID] {
		if u, ok := d.users[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func testLogger() *logger.Logger {
	return logger.NewLogger(&logger.Config{Level: logger.ErrorLevel, Output: io.Discard})
}

func newUser(active bool, mutate ...func(*model.User)) *model.User {
	u := &model.User{
		Email:    "user@example.com",
		Name:     "Test User",
		Role:     model.RoleUser,
		IsActive: active,
	}
	u.ID = uuid.New()
	for _, fn := range mutate {
		fn(u)
	}
	return u
}

func newResolver(dir *fakeDirectory) *Resolver {
	return NewResolver(dir, dir, testLogger())
}

func TestResolveAll(t *testing.T) {
	active1 := newUser(true)
	active2 := newUser(true)
	inactive := newUser(false)

	dir := &fakeDirectory{users: map[uuid.UUID]*model.User{
		active1.ID:  active1,
		active2.ID:  active2,
		inactive.ID: inactive,
	}}

	users, err := newResolver(dir).Resolve(context.Background(), model.AllTarget())
	require.NoError(t, err)
	require.Len(t, users, 2)
	for _, u := range users {
		assert.True(t, u.IsActive)
	}
}

func TestResolveIndividual(t *testing.T) {
	active := newUser(true)
	inactive := newUser(false)
	dir := &fakeDirectory{users: map[uuid.UUID]*model.User{
		active.ID:   active,
		inactive.ID: inactive,
	}}
	r := newResolver(dir)

	t.Run("filters inactive and unknown ids", func(t *testing.T) {
		users, err := r.Resolve(context.Background(),
			model.IndividualTarget(active.ID, inactive.ID, uuid.New()))
		require.NoError(t, err)
		require.Len(t, users, 1)
		assert.Equal(t, active.ID, users[0].ID)
	})

	t.Run("deduplicates repeated ids", func(t *testing.T) {
		users, err := r.Resolve(context.Background(),
			model.IndividualTarget(active.ID, active.ID, active.ID))
		require.NoError(t, err)
		assert.Len(t, users, 1)
	})

	t.Run("empty id list yields empty set", func(t *testing.T) {
		users, err := r.Resolve(context.Background(), model.IndividualTarget())
		require.NoError(t, err)
		assert.Empty(t, users)
	})
}

func TestResolveGroup(t *testing.T) {
	member := newUser(true)
	former := newUser(false)
	outsider := newUser(true)
	groupID := uuid.New()

	dir := &fakeDirectory{
		users: map[uuid.UUID]*model.User{
			member.ID:   member,
			former.ID:   former,
			outsider.ID: outsider,
		},
		groups: map[uuid.UUID][]uuid.UUID{
			groupID: {member.ID, former.ID},
		},
	}
	r := newResolver(dir)

	t.Run("returns active members only", func(t *testing.T) {
		users, err := r.Resolve(context.Background(), model.GroupTarget(groupID))
		require.NoError(t, err)
		require.Len(t, users, 1)
		assert.Equal(t, member.ID, users[0].ID)
	})

	t.Run("unknown group yields empty set", func(t *testing.T) {
		users, err := r.Resolve(context.Background(), model.GroupTarget(uuid.New()))
		require.NoError(t, err)
		assert.Empty(t, users)
	})

	t.Run("missing group id yields empty set", func(t *testing.T) {
		users, err := r.Resolve(context.Background(), model.TargetSpec{Kind: model.TargetGroup})
		require.NoError(t, err)
		assert.Empty(t, users)
	})
}

func TestResolveAttribute(t *testing.T) {
	sales := "Sales"
	eng := "Engineering"
	inSales := newUser(true, func(u *model.User) { u.Department = &sales })
	leftSales := newUser(false, func(u *model.User) { u.Department = &sales })
	inEng := newUser(true, func(u *model.User) { u.Department = &eng })

	dir := &fakeDirectory{users: map[uuid.UUID]*model.User{
		inSales.ID:   inSales,
		leftSales.ID: leftSales,
		inEng.ID:     inEng,
	}}
	r := newResolver(dir)

	t.Run("matches active users on the attribute", func(t *testing.T) {
		users, err := r.Resolve(context.Background(), model.AttributeTarget("department", "Sales"))
		require.NoError(t, err)
		require.Len(t, users, 1)
		assert.Equal(t, inSales.ID, users[0].ID)
	})

	t.Run("key comparison is case-insensitive", func(t *testing.T) {
		users, err := r.Resolve(context.Background(), model.AttributeTarget("DEPARTMENT", "Sales"))
		require.NoError(t, err)
		assert.Len(t, users, 1)
	})

	t.Run("value comparison is exact", func(t *testing.T) {
		users, err := r.Resolve(context.Background(), model.AttributeTarget("department", "sales"))
		require.NoError(t, err)
		assert.Empty(t, users)
	})

	t.Run("unrecognized key yields empty set", func(t *testing.T) {
		users, err := r.Resolve(context.Background(), model.AttributeTarget("favoriteColor", "blue"))
		require.NoError(t, err)
		assert.Empty(t, users)
	})

	t.Run("blank key or value yields empty set", func(t *testing.T) {
		users, err := r.Resolve(context.Background(), model.AttributeTarget("", "Sales"))
		require.NoError(t, err)
		assert.Empty(t, users)

		users, err = r.Resolve(context.Background(), model.AttributeTarget("department", ""))
		require.NoError(t, err)
		assert.Empty(t, users)
	})
}

func TestResolveUnknownKind(t *testing.T) {
	dir := &fakeDirectory{users: map[uuid.UUID]*model.User{}}
	users, err := newResolver(dir).Resolve(context.Background(), model.TargetSpec{Kind: "everyone"})
	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestResolveOrdersByID(t *testing.T) {
	dir := &fakeDirectory{users: map[uuid.UUID]*model.User{}}
	var ids []uuid.UUID
	for i := 0; i < 5; i++ {
		u := newUser(true)
		dir.users[u.ID] = u
		ids = append(ids, u.ID)
	}

	users, err := newResolver(dir).Resolve(context.Background(), model.IndividualTarget(ids...))
	require.NoError(t, err)
	require.Len(t, users, 5)
	assert.True(t, sort.SliceIsSorted(users, func(i, j int) bool {
		return users[i].ID.String() < users[j].ID.String()
	}))
}

func TestResolveStoreError(t *testing.T) {
	dir := &fakeDirectory{err: errors.New("connection refused")}
	_, err := newResolver(dir).Resolve(context.Background(), model.AllTarget())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to resolve target")
}
