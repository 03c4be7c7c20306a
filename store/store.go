package store

import (
	"github.com/jsphweid/lightorchestra/model"
)

// SessionStore persists one session as a whole.
type SessionStore interface {
	Save(samples model.Session) error
	Load() (model.Session, error)
}
