// Package gormlog adapts the zerolog global logger to gorm's logger interface.
package gormlog

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Adapter implements gormlogger.Interface on top of zerolog.
type Adapter struct {
	// SlowThreshold marks queries taking longer as warnings. Zero disables it.
	SlowThreshold time.Duration

	// SkipErrRecordNotFound suppresses gorm.ErrRecordNotFound logging.
	SkipErrRecordNotFound bool
}

// New creates a gorm logger adapter with sane defaults.
func New() *Adapter {
	return &Adapter{
		SlowThreshold:         200 * time.Millisecond, //nolint:mnd
		SkipErrRecordNotFound: true,
	}
}

// LogMode is a no op, the level is controlled by the global zerolog level.
func (a *Adapter) LogMode(_ gormlogger.LogLevel) gormlogger.Interface {
	return a
}

// Info logs gorm info messages.
func (a *Adapter) Info(_ context.Context, msg string, data ...interface{}) {
	log.Info().Msgf(msg, data...)
}

// Warn logs gorm warning messages.
func (a *Adapter) Warn(_ context.Context, msg string, data ...interface{}) {
	log.Warn().Msgf(msg, data...)
}

// Error logs gorm error messages.
func (a *Adapter) Error(_ context.Context, msg string, data ...interface{}) {
	log.Error().Msgf(msg, data...)
}

// Trace logs finished queries with their duration and affected rows.
func (a *Adapter) Trace(_ context.Context, begin time.Time, fc func() (string, int64), err error) {
	elapsed := time.Since(begin)
	sql, rows := fc()

	switch {
	case err != nil && (!a.SkipErrRecordNotFound || !errors.Is(err, gorm.ErrRecordNotFound)):
		log.Error().Err(err).Dur("elapsed", elapsed).Int64("rows", rows).Str("sql", sql).Msg("query failed")
	case a.SlowThreshold != 0 && elapsed > a.SlowThreshold:
		log.Warn().Dur("elapsed", elapsed).Int64("rows", rows).Str("sql", sql).Msg("slow query")
	default:
		log.Trace().Dur("elapsed", elapsed).Int64("rows", rows).Str("sql", sql).Msg("query")
	}
}
