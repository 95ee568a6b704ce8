package rp_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/insaplace/spresso/model"
	"github.com/insaplace/spresso/rp"
)

func TestSessionStoreSaveLoad(t *testing.T) {
	store := rp.NewSessionStore()
	session := &model.Session{Token: []byte("0123456789abcdef")}

	store.Save(session)

	got, ok := store.Load(session.Token)
	assert.True(t, ok)
	assert.Same(t, session, got)
}

func TestSessionStoreLoadMiss(t *testing.T) {
	store := rp.NewSessionStore()
	_, ok := store.Load([]byte("unknown-token-xx"))
	assert.False(t, ok)
}

func TestStoreAdapterDelegatesToSessionStore(t *testing.T) {
	store := rp.NewSessionStore()
	adapter := rp.NewStoreAdapter(store)

	session := &model.Session{Token: []byte("0123456789abcdef")}
	assert.NoError(t, adapter.SaveSession(session))

	got, ok := adapter.LoadSession(session.Token)
	assert.True(t, ok)
	assert.Same(t, session, got)
}
