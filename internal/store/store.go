package store

import (
	"context"
	"reflect"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Filter maps a column to a required value. A slice value becomes an IN
// disjunction, anything else an equality.
type Filter map[string]any

// Order is one sort key.
type Order struct {
	Field string
	Desc  bool
}

// Query describes one read against a collection. Scopes carry fixed filters
// that need joins (e.g. enrollment membership) and are supplied by the owning
// repository, never by request input.
type Query struct {
	Filter       Filter
	SearchTerm   string
	SearchFields []string
	Sort         []Order
	Skip         int
	Limit        int
	Scopes       []func(*gorm.DB) *gorm.DB
}

// Store is the uniform persistence adapter for one entity collection.
type Store[T any] struct {
	db *gorm.DB
}

func New[T any](db *gorm.DB) *Store[T] {
	return &Store[T]{db: db}
}

// likeEscaper neutralizes LIKE wildcards so the search term matches as a
// literal substring.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (q Query) applyConditions(tx *gorm.DB) *gorm.DB {
	for _, scope := range q.Scopes {
		tx = scope(tx)
	}

	for field, value := range q.Filter {
		col := clause.Column{Name: field}
		rv := reflect.ValueOf(value)
		if value != nil && rv.Kind() == reflect.Slice {
			values := make([]any, rv.Len())
			for i := 0; i < rv.Len(); i++ {
				values[i] = rv.Index(i).Interface()
			}
			tx = tx.Where(clause.IN{Column: col, Values: values})
		} else {
			tx = tx.Where(clause.Eq{Column: col, Value: value})
		}
	}

	if q.SearchTerm != "" && len(q.SearchFields) > 0 {
		pattern := "%" + likeEscaper.Replace(q.SearchTerm) + "%"
		var sb strings.Builder
		args := make([]any, 0, len(q.SearchFields))
		for i, field := range q.SearchFields {
			if i > 0 {
				sb.WriteString(" OR ")
			}
			sb.WriteString(`"` + field + `" ILIKE ?`)
			args = append(args, pattern)
		}
		tx = tx.Where("("+sb.String()+")", args...)
	}

	return tx
}

func (q Query) apply(tx *gorm.DB) *gorm.DB {
	tx = q.applyConditions(tx)

	for _, order := range q.Sort {
		tx = tx.Order(clause.OrderByColumn{
			Column: clause.Column{Name: order.Field},
			Desc:   order.Desc,
		})
	}

	if q.Skip > 0 {
		tx = tx.Offset(q.Skip)
	}
	if q.Limit > 0 {
		tx = tx.Limit(q.Limit)
	}

	return tx
}

func (s *Store[T]) Find(ctx context.Context, q Query) ([]T, error) {
	var items []T
	if err := q.apply(s.db.WithContext(ctx).Model(new(T))).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store[T]) FindOne(ctx context.Context, q Query) (*T, error) {
	var item T
	if err := q.apply(s.db.WithContext(ctx).Model(new(T))).Take(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store[T]) FindByID(ctx context.Context, id uuid.UUID) (*T, error) {
	var item T
	if err := s.db.WithContext(ctx).Where("id = ?", id).Take(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// Count evaluates the query's conditions only; sort and pagination are
// irrelevant to a count.
func (s *Store[T]) Count(ctx context.Context, q Query) (int64, error) {
	var total int64
	tx := q.applyConditions(s.db.WithContext(ctx).Model(new(T)))
	if err := tx.Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

func (s *Store[T]) Create(ctx context.Context, item *T) error {
	return s.db.WithContext(ctx).Create(item).Error
}

// UpdateByID applies the given column changes and returns the fresh record.
func (s *Store[T]) UpdateByID(ctx context.Context, id uuid.UUID, fields map[string]any) (*T, error) {
	res := s.db.WithContext(ctx).Model(new(T)).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return s.FindByID(ctx, id)
}

func (s *Store[T]) DeleteByID(ctx context.Context, id uuid.UUID) (bool, error) {
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(new(T))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (s *Store[T]) DeleteMany(ctx context.Context, q Query) (int64, error) {
	res := q.applyConditions(s.db.WithContext(ctx)).Delete(new(T))
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

// DB exposes the underlying handle for repository-specific queries and
// transactions that the generic surface cannot express.
func (s *Store[T]) DB() *gorm.DB {
	return s.db
}
