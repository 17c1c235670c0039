package repositories

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// QueryOption customizes a read, for example to eagerly include
// related rows or apply an ordering.
type QueryOption func(tx *gorm.DB) *gorm.DB

// WithRelated eagerly loads the named associations.
func WithRelated(associations ...string) QueryOption {
	return func(tx *gorm.DB) *gorm.DB {
		for _, a := range associations {
			tx = tx.Preload(a)
		}
		return tx
	}
}

// WithOrder applies an ORDER BY clause.
func WithOrder(order string) QueryOption {
	return func(tx *gorm.DB) *gorm.DB {
		return tx.Order(order)
	}
}

// Repository is the generic store for one entity kind. Reads go to
// the session's current connection; mutations queue on the session
// and persist when the owning unit of work saves.
type Repository[T any] struct {
	session *Session
}

func NewRepository[T any](session *Session) *Repository[T] {
	return &Repository[T]{session: session}
}

func (r *Repository[T]) reader(ctx context.Context, opts ...QueryOption) (*gorm.DB, error) {
	if err := r.session.autoFlush(ctx); err != nil {
		return nil, err
	}
	tx := r.session.conn().WithContext(ctx)
	for _, opt := range opts {
		tx = opt(tx)
	}
	return tx, nil
}

// GetByID returns the entity with the given primary key, or
// ErrNotFound.
func (r *Repository[T]) GetByID(ctx context.Context, id any, opts ...QueryOption) (*T, error) {
	tx, err := r.reader(ctx, opts...)
	if err != nil {
		return nil, err
	}
	var entity T
	if err := tx.First(&entity, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: id %v", ErrNotFound, id)
		}
		return nil, err
	}
	return &entity, nil
}

// GetAll returns every row of the entity kind.
func (r *Repository[T]) GetAll(ctx context.Context, opts ...QueryOption) ([]T, error) {
	tx, err := r.reader(ctx, opts...)
	if err != nil {
		return nil, err
	}
	var entities []T
	if err := tx.Find(&entities).Error; err != nil {
		return nil, err
	}
	return entities, nil
}

// Find returns the rows matching the given condition, e.g.
// Find(ctx, "category_id = ?", 3).
func (r *Repository[T]) Find(ctx context.Context, query any, args ...any) ([]T, error) {
	tx, err := r.reader(ctx)
	if err != nil {
		return nil, err
	}
	var entities []T
	if err := tx.Where(query, args...).Find(&entities).Error; err != nil {
		return nil, err
	}
	return entities, nil
}

// SingleOrDefault returns the one row matching the condition, nil if
// there is none, and an error if there is more than one.
func (r *Repository[T]) SingleOrDefault(ctx context.Context, query any, args ...any) (*T, error) {
	tx, err := r.reader(ctx)
	if err != nil {
		return nil, err
	}
	var entities []T
	if err := tx.Where(query, args...).Limit(2).Find(&entities).Error; err != nil {
		return nil, err
	}
	switch len(entities) {
	case 0:
		return nil, nil
	case 1:
		return &entities[0], nil
	default:
		return nil, fmt.Errorf("more than one row matches condition %v", query)
	}
}

// Add queues an insert of the entity.
func (r *Repository[T]) Add(entity *T) error {
	if entity == nil {
		return fmt.Errorf("%w: nil entity", ErrInvalidArgument)
	}
	r.session.enqueue(func(conn *gorm.DB) (int64, error) {
		result := conn.Create(entity)
		return result.RowsAffected, result.Error
	})
	return nil
}

// AddRange queues inserts of all entities. An empty slice is a no-op.
func (r *Repository[T]) AddRange(entities []T) error {
	if entities == nil {
		return fmt.Errorf("%w: nil entities", ErrInvalidArgument)
	}
	if len(entities) == 0 {
		return nil
	}
	r.session.enqueue(func(conn *gorm.DB) (int64, error) {
		result := conn.Create(&entities)
		return result.RowsAffected, result.Error
	})
	return nil
}

// Remove queues a delete of the entity.
func (r *Repository[T]) Remove(entity *T) error {
	if entity == nil {
		return fmt.Errorf("%w: nil entity", ErrInvalidArgument)
	}
	r.session.enqueue(func(conn *gorm.DB) (int64, error) {
		result := conn.Delete(entity)
		return result.RowsAffected, result.Error
	})
	return nil
}

// RemoveRange queues deletes of all entities.
func (r *Repository[T]) RemoveRange(entities []T) error {
	if entities == nil {
		return fmt.Errorf("%w: nil entities", ErrInvalidArgument)
	}
	if len(entities) == 0 {
		return nil
	}
	r.session.enqueue(func(conn *gorm.DB) (int64, error) {
		result := conn.Delete(&entities)
		return result.RowsAffected, result.Error
	})
	return nil
}

// Update queues a write of the whole replacement row. There is no
// hidden dirty tracking; callers hand over the entity they want
// stored.
func (r *Repository[T]) Update(entity *T) error {
	if entity == nil {
		return fmt.Errorf("%w: nil entity", ErrInvalidArgument)
	}
	r.session.enqueue(func(conn *gorm.DB) (int64, error) {
		result := conn.Save(entity)
		return result.RowsAffected, result.Error
	})
	return nil
}
