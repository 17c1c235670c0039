package repositories

import (
	"context"

	"github.com/wingtip/wingtip-api/models"
	"gorm.io/gorm"
)

// UnitOfWork owns one session and at most one in-flight transaction.
// All five repositories are constructed up front against the shared
// session, so mutations queued through any of them flush and commit
// together. A unit of work belongs to a single request; it must not
// be shared across goroutines.
type UnitOfWork struct {
	session *Session
	closed  bool

	Products     *ProductRepository
	Categories   *CategoryRepository
	CartItems    *CartRepository
	Orders       *OrderRepository
	OrderDetails *Repository[models.OrderDetail]
}

func NewUnitOfWork(db *gorm.DB) *UnitOfWork {
	session := newSession(db)
	return &UnitOfWork{
		session:      session,
		Products:     NewProductRepository(session),
		Categories:   NewCategoryRepository(session),
		CartItems:    NewCartRepository(session),
		Orders:       NewOrderRepository(session),
		OrderDetails: NewRepository[models.OrderDetail](session),
	}
}

// BeginTransaction opens a database transaction. Fails with
// ErrTransactionInProgress if one is already active.
func (u *UnitOfWork) BeginTransaction(ctx context.Context) error {
	if u.session.tx != nil {
		return ErrTransactionInProgress
	}
	tx := u.session.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return &PersistenceError{Op: "begin", Err: tx.Error}
	}
	u.session.tx = tx
	return nil
}

// SaveChanges flushes every queued mutation to storage and returns
// the number of affected rows. On failure inside a transaction the
// transaction is rolled back and released before the wrapped error
// propagates.
func (u *UnitOfWork) SaveChanges(ctx context.Context) (int64, error) {
	n, err := u.session.flush(ctx)
	if err != nil {
		u.session.discard()
		if u.session.tx != nil {
			u.session.tx.Rollback()
			u.session.tx = nil
		}
		return n, &PersistenceError{Op: "save", Err: err}
	}
	return n, nil
}

// CommitTransaction flushes queued mutations and commits. On any
// failure the transaction rolls back instead. The transaction handle
// is released on every exit path.
func (u *UnitOfWork) CommitTransaction(ctx context.Context) error {
	if u.session.tx == nil {
		return ErrNoTransaction
	}
	tx := u.session.tx
	defer func() { u.session.tx = nil }()

	if _, err := u.session.flush(ctx); err != nil {
		u.session.discard()
		tx.Rollback()
		return &PersistenceError{Op: "commit", Err: err}
	}
	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		return &PersistenceError{Op: "commit", Err: err}
	}
	return nil
}

// RollbackTransaction discards queued mutations and rolls the
// transaction back. Fails with ErrNoTransaction when idle.
func (u *UnitOfWork) RollbackTransaction() error {
	if u.session.tx == nil {
		return ErrNoTransaction
	}
	u.session.discard()
	err := u.session.tx.Rollback().Error
	u.session.tx = nil
	if err != nil {
		return &PersistenceError{Op: "rollback", Err: err}
	}
	return nil
}

// Close releases the unit of work, rolling back a still-active
// transaction and dropping queued mutations. Calling Close twice is
// a no-op.
func (u *UnitOfWork) Close() error {
	if u.closed {
		return nil
	}
	u.closed = true
	u.session.discard()
	if u.session.tx != nil {
		u.session.tx.Rollback()
		u.session.tx = nil
	}
	return nil
}
