package mem

import (
	"context"
	"fmt"
	"sync"

	it "payflow/intent/intent"
)

// Scanner is an in-memory code reader. Payloads pushed with Emit appear on
// the capture channel while the scanner is active. It records acquisitions
// and releases so resource discipline is observable.
type Scanner struct {
	mu     sync.Mutex
	ch     chan string
	active bool
	starts int
	stops  int
}

func NewScanner() *Scanner {
	return &Scanner{}
}

func (s *Scanner) Start(_ context.Context) (<-chan string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active {
		return nil, fmt.Errorf("scanner already acquired")
	}
	s.ch = make(chan string, 8)
	s.active = true
	s.starts++
	return s.ch, nil
}

// Stop releases the scanner and closes the capture channel. Idempotent.
func (s *Scanner) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.active {
		return nil
	}
	s.active = false
	s.stops++
	close(s.ch)
	return nil
}

// Emit pushes one raw payload to the active capture channel. Returns false
// when the scanner is not acquired.
func (s *Scanner) Emit(payload string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.active {
		return false
	}
	select {
	case s.ch <- payload:
		return true
	default:
		return false
	}
}

func (s *Scanner) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// Stops reports how many times the scanner has been released.
func (s *Scanner) Stops() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stops
}

// Validator resolves payloads against a registered table. Unregistered
// payloads are rejected with ErrInvalidPayload.
type Validator struct {
	mu      sync.RWMutex
	intents map[string]it.QRIntent
}

func NewValidator() *Validator {
	return &Validator{intents: make(map[string]it.QRIntent)}
}

// Register maps a raw payload to the intent it decodes to.
func (v *Validator) Register(payload string, qi it.QRIntent) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.intents[payload] = qi
}

func (v *Validator) Validate(_ context.Context, rawPayload string) (*it.QRIntent, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	qi, ok := v.intents[rawPayload]
	if !ok {
		return nil, fmt.Errorf("%w: unrecognised payload", it.ErrInvalidPayload)
	}
	out := qi
	return &out, nil
}
