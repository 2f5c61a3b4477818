// Package command is the dispatch layer between user input and the address
// book: it parses command lines, runs the matching handler and persists the
// book after every successful mutation.
package command

import (
	"sync"

	"go.uber.org/zap"

	"github.com/smileynet/addrbook/internal/book"
	"github.com/smileynet/addrbook/internal/contact"
)

// Saver persists the full book.
type Saver interface {
	Save(b *book.Book) error
}

// Session owns the in-memory book for the lifetime of the process.
type Session struct {
	mu    sync.Mutex
	book  *book.Book
	saver Saver
	reg   *Registry
	log   *zap.Logger
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the logger for command outcomes.
func WithLogger(l *zap.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.log = l
		}
	}
}

// WithRegistry replaces the default command table.
func WithRegistry(r *Registry) Option {
	return func(s *Session) {
		if r != nil {
			s.reg = r
		}
	}
}

// NewSession creates a Session over b that saves through saver.
func NewSession(b *book.Book, saver Saver, opts ...Option) *Session {
	s := &Session{
		book:  b,
		saver: saver,
		reg:   DefaultRegistry(),
		log:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Book returns the session's book.
func (s *Session) Book() *book.Book { return s.book }

// Commands returns the names and aliases the session accepts, sorted.
func (s *Session) Commands() []string { return s.reg.Names() }

// Execute parses line and runs it.
func (s *Session) Execute(line string) (Reply, error) {
	name, args := Parse(line)
	return s.Run(name, args)
}

// Run executes the named command. A mutating command and the save that
// follows it run under one lock, so concurrent callers cannot interleave
// between a change and its persistence.
func (s *Session) Run(name string, args []string) (Reply, error) {
	cmd, err := s.reg.Lookup(name)
	if err != nil {
		s.log.Info("command.unknown", zap.String("command", name))
		return Reply{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rep, err := cmd.Run(s, args)
	if err != nil {
		s.log.Info("command.failed",
			zap.String("command", cmd.Name),
			zap.String("kind", string(contact.KindOf(err))),
			zap.Error(err))
		return Reply{}, err
	}

	if cmd.Mutates {
		if err := s.saver.Save(s.book); err != nil {
			s.log.Error("command.save_failed", zap.String("command", cmd.Name), zap.Error(err))
			return Reply{}, err
		}
	}

	s.log.Debug("command.done",
		zap.String("command", cmd.Name),
		zap.String("outcome", string(rep.Outcome)),
		zap.String("contact", rep.Name))
	return rep, nil
}
