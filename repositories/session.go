package repositories

import (
	"context"

	"gorm.io/gorm"
)

// changeOp is a single queued mutation. It is applied against the
// session's current connection when the unit of work saves.
type changeOp struct {
	apply func(conn *gorm.DB) (int64, error)
}

// Session owns one database handle, the in-flight transaction (if
// any) and the pending change queue. All repositories created from
// the same unit of work share one session, so queued mutations across
// entity kinds flush and commit together. A session belongs to a
// single request and is not safe for concurrent use.
type Session struct {
	db      *gorm.DB
	tx      *gorm.DB
	pending []changeOp
}

func newSession(db *gorm.DB) *Session {
	return &Session{db: db}
}

// conn returns the transaction when one is active, the base handle
// otherwise.
func (s *Session) conn() *gorm.DB {
	if s.tx != nil {
		return s.tx
	}
	return s.db
}

func (s *Session) enqueue(apply func(conn *gorm.DB) (int64, error)) {
	s.pending = append(s.pending, changeOp{apply: apply})
}

// flush applies the queued changes in order. Inside a caller
// transaction the changes go straight into it; without one the batch
// runs in an implicit transaction so a mid-flush failure persists
// nothing. On failure the failing op and the remainder stay queued for
// the caller to discard or roll back.
func (s *Session) flush(ctx context.Context) (int64, error) {
	if len(s.pending) == 0 {
		return 0, nil
	}
	if s.tx != nil {
		return s.apply(s.tx.WithContext(ctx))
	}
	var affected int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		n, applyErr := s.apply(tx)
		affected = n
		return applyErr
	})
	if err != nil {
		return 0, err
	}
	return affected, nil
}

func (s *Session) apply(conn *gorm.DB) (int64, error) {
	var affected int64
	for i, op := range s.pending {
		n, err := op.apply(conn)
		if err != nil {
			s.pending = s.pending[i:]
			return affected, err
		}
		affected += n
	}
	s.pending = s.pending[:0]
	return affected, nil
}

// autoFlush pushes queued writes into the open transaction before a
// read, so reads issued through this session observe earlier queued
// writes. Outside a transaction queued writes stay pending until the
// unit of work saves.
func (s *Session) autoFlush(ctx context.Context) error {
	if s.tx == nil || len(s.pending) == 0 {
		return nil
	}
	_, err := s.flush(ctx)
	return err
}

func (s *Session) discard() {
	s.pending = s.pending[:0]
}
