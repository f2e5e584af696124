package broker

import (
	"errors"
	"log/slog"
)

// Option - registry setup option.
type Option func(r *Registry) error

func setup(r *Registry, options ...Option) error {
	for _, option := range options {
		if option == nil {
			continue
		}
		if err := option(r); err != nil {
			return err
		}
	}
	return nil
}

// WithLogger - overwrites default logger of the registry.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) error {
		if logger == nil {
			return errors.New("broker.WithLogger: logger is nil")
		}
		r.logger = logger
		return nil
	}
}
