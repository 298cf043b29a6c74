package securestore

import (
	"github.com/martinbockt/transcriber/internal/audit"
)

// Audited wraps a Store and records every operation to the audit log.
type Audited struct {
	inner Store
	log   *audit.Logger
	actor string // "cli" or "daemon"
}

// NewAudited wraps an existing store with audit logging.
func NewAudited(inner Store, log *audit.Logger, actor string) *Audited {
	return &Audited{inner: inner, log: log, actor: actor}
}

func (a *Audited) Set(key, value string) error {
	if err := a.inner.Set(key, value); err != nil {
		return err
	}
	// Audit logging is best-effort; a failure to log never blocks the operation.
	a.log.Log(audit.Entry{Action: audit.ActionSecretWrite, Key: key, Actor: a.actor})
	return nil
}

func (a *Audited) Get(key string) (string, error) {
	val, err := a.inner.Get(key)
	if err != nil {
		return "", err
	}
	a.log.Log(audit.Entry{Action: audit.ActionSecretRead, Key: key, Actor: a.actor})
	return val, nil
}

func (a *Audited) Delete(key string) error {
	if err := a.inner.Delete(key); err != nil {
		return err
	}
	a.log.Log(audit.Entry{Action: audit.ActionSecretDelete, Key: key, Actor: a.actor})
	return nil
}
