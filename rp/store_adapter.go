package rp

import "github.com/insaplace/spresso/model"

// StoreAdapter is a *SessionStore-backed implementation of the
// session-persistence half of StartLoginSiteAdapter/RedirectSiteAdapter/
// LoginSiteAdapter. Host adapters that don't need anything fancier than
// an in-process map can embed it directly; adapters needing a
// cross-process store implement the interfaces from scratch.
type StoreAdapter struct {
	Store *SessionStore
}

// NewStoreAdapter wraps store.
func NewStoreAdapter(store *SessionStore) *StoreAdapter {
	return &StoreAdapter{Store: store}
}

// SaveSession implements StartLoginSiteAdapter and the persistence half
// of LoginSiteAdapter.
func (a *StoreAdapter) SaveSession(session *model.Session) error {
	a.Store.Save(session)
	return nil
}

// LoadSession implements RedirectSiteAdapter and the lookup half of
// LoginSiteAdapter.
func (a *StoreAdapter) LoadSession(token []byte) (*model.Session, bool) {
	return a.Store.Load(token)
}
