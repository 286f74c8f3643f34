// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package ctxlog passes a logrus logger through context.Context.
//
package ctxlog

import (
	"context"
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// key is the context key of the logger.
//
type key struct{}

// WithLogger returns a new context with the provided logger embedded.
//
func WithLogger(ctx context.Context, l logrus.FieldLogger) context.Context {
	return context.WithValue(ctx, key{}, l)
}

// FromContext extracts the logger from a context. It panics if there is none.
//
func FromContext(ctx context.Context) logrus.FieldLogger {
	if l, ok := ctx.Value(key{}).(logrus.FieldLogger); ok {
		return l
	}
	panic("ctxlog: logger missing from context")
}

// New creates a logger writing to w. level is one of logrus' level names
// and format is either "text" or "json".
//
func New(level, format string, w io.Writer) (*logrus.Logger, error) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, errors.Wrap(err, "invalid log level")
	}
	l := logrus.New()
	l.SetOutput(w)
	l.SetLevel(lvl)
	switch strings.ToLower(format) {
	case "text":
		l.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	case "json":
		l.SetFormatter(&logrus.JSONFormatter{})
	default:
		return nil, errors.Errorf("invalid log format %q: must be 'text' or 'json'", format)
	}
	return l, nil
}
