package query

import (
	"context"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"arka.dev/learnhub/internal/store"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	// MaxLimit bounds a single page so a caller cannot request the whole
	// collection in one query.
	MaxLimit = 100
)

// Collection is the slice of the store adapter the builder needs.
type Collection[T any] interface {
	Find(ctx context.Context, q store.Query) ([]T, error)
	Count(ctx context.Context, q store.Query) (int64, error)
}

// Options is the declarative query surface exposed to callers. Filters and
// Scopes are fixed by the calling service; SearchTerm, Page and Limit come
// from request input and are normalized here.
type Options struct {
	Filters      store.Filter
	SearchTerm   string
	SearchFields []string
	Sort         []store.Order
	Page         int
	Limit        int
	Scopes       []func(*gorm.DB) *gorm.DB
}

type Meta struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"totalPages"`
}

type Page[T any] struct {
	Data []T  `json:"data"`
	Meta Meta `json:"meta"`
}

func normalize(opts Options) Options {
	if opts.Page <= 0 {
		opts.Page = DefaultPage
	}
	if opts.Limit <= 0 {
		opts.Limit = DefaultLimit
	}
	if opts.Limit > MaxLimit {
		opts.Limit = MaxLimit
	}
	if len(opts.Sort) == 0 {
		opts.Sort = []store.Order{{Field: "created_at", Desc: true}}
	}
	// secondary tie-break so equal sort keys page deterministically
	if opts.Sort[len(opts.Sort)-1].Field != "id" {
		opts.Sort = append(opts.Sort, store.Order{Field: "id"})
	}
	return opts
}

// Paginate runs the page query and the matching count concurrently and
// assembles the page metadata.
func Paginate[T any](ctx context.Context, coll Collection[T], opts Options) (*Page[T], error) {
	opts = normalize(opts)

	q := store.Query{
		Filter:       opts.Filters,
		SearchTerm:   opts.SearchTerm,
		SearchFields: opts.SearchFields,
		Sort:         opts.Sort,
		Skip:         (opts.Page - 1) * opts.Limit,
		Limit:        opts.Limit,
		Scopes:       opts.Scopes,
	}

	var (
		items []T
		total int64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		items, err = coll.Find(gctx, q)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = coll.Count(gctx, q)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if items == nil {
		items = []T{}
	}

	return &Page[T]{
		Data: items,
		Meta: Meta{
			Total:      total,
			Page:       opts.Page,
			Limit:      opts.Limit,
			TotalPages: totalPages(total, opts.Limit),
		},
	}, nil
}

func totalPages(total int64, limit int) int {
	if limit <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}
