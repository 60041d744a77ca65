package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"user-console/internal/model"
)

func newTestStore(t *testing.T, users ...model.User) *Store {
	t.Helper()
	s := New(zap.NewNop())
	s.Load(users)
	return s
}

func user(id int, name string) model.User {
	return model.User{ID: id, Name: name, Email: name + "@example.com"}
}

func ids(users []model.User) []int {
	out := make([]int, 0, len(users))
	for _, u := range users {
		out = append(out, u.ID)
	}
	return out
}

func TestLoad_ReplacesSequence(t *testing.T) {
	s := newTestStore(t, user(1, "Alice"), user(2, "Bob"))
	require.Equal(t, 2, s.Len())

	s.Load([]model.User{user(3, "Carol")})
	assert.Equal(t, []int{3}, ids(s.All()))
}

func TestLoad_DropsDuplicateIDs(t *testing.T) {
	s := newTestStore(t, user(1, "Alice"), user(1, "Imposter"), user(2, "Bob"))
	require.Equal(t, []int{1, 2}, ids(s.All()))

	got, ok := s.Get(1)
	require.True(t, ok)
	assert.Equal(t, "Alice", got.Name)
}

func TestAppend(t *testing.T) {
	s := newTestStore(t, user(1, "Alice"))

	require.NoError(t, s.Append(user(2, "Bob")))
	assert.Equal(t, []int{1, 2}, ids(s.All()))

	err := s.Append(user(2, "Other Bob"))
	assert.ErrorIs(t, err, ErrDuplicateID)
	assert.Equal(t, 2, s.Len())
}

func TestReplaceFields(t *testing.T) {
	s := newTestStore(t, user(1, "Alice"), user(2, "Bob"))

	d := model.Draft{
		Name:     "Alicia",
		Email:    "alicia@example.com",
		Phone:    "1234567890",
		Username: "USER-alicia",
		Street:   "Main",
		City:     "Springfield",
	}
	require.NoError(t, s.ReplaceFields(1, d))

	got, ok := s.Get(1)
	require.True(t, ok)
	assert.Equal(t, 1, got.ID, "id must stay immutable")
	assert.Equal(t, "Alicia", got.Name)
	assert.Equal(t, "USER-alicia", got.Username)

	// order is preserved under replacement
	assert.Equal(t, []int{1, 2}, ids(s.All()))
}

func TestReplaceFields_NotFound(t *testing.T) {
	s := newTestStore(t, user(1, "Alice"))
	err := s.ReplaceFields(99, model.Draft{Name: "Ghost"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRemove(t *testing.T) {
	s := newTestStore(t, user(1, "Alice"), user(5, "Eve"), user(9, "Ida"))

	require.NoError(t, s.Remove(5))
	assert.Equal(t, []int{1, 9}, ids(s.All()))

	_, ok := s.Get(5)
	assert.False(t, ok)

	err := s.Remove(5)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRemove_ThenAppendKeepsIndexConsistent(t *testing.T) {
	s := newTestStore(t, user(1, "Alice"), user(2, "Bob"), user(3, "Carol"))

	require.NoError(t, s.Remove(1))
	require.NoError(t, s.Append(user(4, "Dave")))

	got, ok := s.Get(3)
	require.True(t, ok)
	assert.Equal(t, "Carol", got.Name)
	assert.Equal(t, []int{2, 3, 4}, ids(s.All()))
}

func TestNoDuplicateIDsAfterMixedOps(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.Append(user(1, "Alice")))
	require.NoError(t, s.Append(user(2, "Bob")))
	require.NoError(t, s.Remove(1))
	require.NoError(t, s.Append(user(1, "Alice Again")))
	require.NoError(t, s.ReplaceFields(2, model.Draft{Name: "Robert"}))

	seen := map[int]bool{}
	for _, u := range s.All() {
		assert.False(t, seen[u.ID], "duplicate id %d", u.ID)
		seen[u.ID] = true
	}
}

func TestFilterByName(t *testing.T) {
	s := newTestStore(t,
		user(1, "Alice Smith"),
		user(2, "Bob Jones"),
		user(3, "alicia keys"),
		user(4, "Charlie"),
	)

	t.Run("empty term yields full sequence in order", func(t *testing.T) {
		assert.Equal(t, []int{1, 2, 3, 4}, ids(s.FilterByName("")))
	})

	t.Run("case-insensitive substring, order preserved", func(t *testing.T) {
		assert.Equal(t, []int{1, 3}, ids(s.FilterByName("ALI")))
	})

	t.Run("no matches yields empty view", func(t *testing.T) {
		assert.Empty(t, s.FilterByName("zzz"))
	})

	t.Run("filter never mutates the sequence", func(t *testing.T) {
		_ = s.FilterByName("bob")
		assert.Equal(t, []int{1, 2, 3, 4}, ids(s.All()))
	})
}
