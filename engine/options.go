package engine

import (
	"github.com/Konsultn-Engineering/tablemgr/batch"
	"github.com/Konsultn-Engineering/tablemgr/dialect"
	"github.com/Konsultn-Engineering/tablemgr/schema"
	"github.com/rs/zerolog"
)

type options struct {
	dialect   dialect.Dialect
	describer schema.Describer
	template  string
	batchSize int
	policy    batch.Policy
	logger    zerolog.Logger
	observers []Observer
}

type Option func(*options)

// WithDialect sets the backend dialect. It drives placeholder rebinding and
// the default describe query. Without it statements keep ? placeholders.
func WithDialect(d dialect.Dialect) Option {
	return func(o *options) { o.dialect = d }
}

// WithDescriber replaces the SQL describer with d.
func WithDescriber(d schema.Describer) Option {
	return func(o *options) { o.describer = d }
}

// WithDescribeTemplate makes the SQL describer run tmpl; see
// database.Describer.WithTemplate.
func WithDescribeTemplate(tmpl string) Option {
	return func(o *options) { o.template = tmpl }
}

// WithBatchSize sets the initial batch size; 0 sends all rows as one batch.
func WithBatchSize(n int) Option {
	return func(o *options) { o.batchSize = n }
}

func WithPolicy(p batch.Policy) Option {
	return func(o *options) { o.policy = p }
}

func WithLogger(l zerolog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithObserver adds an observer notified after every batch.
func WithObserver(obs Observer) Option {
	return func(o *options) { o.observers = append(o.observers, obs) }
}
