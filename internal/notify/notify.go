// Package notify carries row-change events between writers and the live
// caches. Delivery is at-most-once; consumers treat every event as "something
// in this table changed" and refetch.
package notify

import (
	"context"
	"time"
)

type Op string

const (
	OpInsert Op = "INSERT"
	OpUpdate Op = "UPDATE"
	OpDelete Op = "DELETE"
)

// Table names used as notification scopes.
const (
	TableSections = "portfolio_content"
	TableProjects = "projects"
	TableArticles = "articles"
)

type Event struct {
	Table string    `json:"table"`
	Op    Op        `json:"op"`
	ID    string    `json:"id"`
	At    time.Time `json:"at"`
}

// Handler must not block; it runs on the delivery goroutine.
type Handler func(Event)

type Subscription interface {
	Close() error
}

type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}

type Subscriber interface {
	Subscribe(ctx context.Context, table string, h Handler) (Subscription, error)
}

type Bus interface {
	Publisher
	Subscriber
}

var (
	_ Bus = (*Broker)(nil)
	_ Bus = (*RedisBus)(nil)
)
