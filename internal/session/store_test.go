package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/clinicdesk/internal/model"
)

func TestStore_PutCurrentClear(t *testing.T) {
	s := NewStore(0)

	_, ok := s.Current()
	assert.False(t, ok)

	sess := &model.Session{User: model.User{ID: "u_admin", Name: "admin", Role: "admin"}, StartedAt: time.Now()}
	require.NoError(t, s.Put(sess))

	sess.User.Role = "patient"
	got, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, "admin", got.User.Role)

	s.Clear()
	_, ok = s.Current()
	assert.False(t, ok)
}

func TestStore_Expires(t *testing.T) {
	s := NewStore(20 * time.Millisecond)
	require.NoError(t, s.Put(&model.Session{User: model.User{ID: "u_doc"}}))

	assert.Eventually(t, func() bool {
		_, ok := s.Current()
		return !ok
	}, time.Second, 10*time.Millisecond)
}
