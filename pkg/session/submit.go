package session

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"
)

// SubmissionResult is produced once per submit attempt. It is ephemeral and
// never persisted.
type SubmissionResult struct {
	Success       bool   `json:"success"`
	Message       string `json:"message"`
	TransactionID string `json:"transactionId,omitempty"`
}

// Submitter performs the actual submission. A returned error is treated as a
// rejection (processor decline, transport failure); the session surfaces the
// failure and leaves field state untouched. Implementations must honour ctx.
type Submitter interface {
	Submit(ctx context.Context, values map[string]string) (SubmissionResult, error)
}

// SubmitterFunc adapts a function to the Submitter interface.
type SubmitterFunc func(ctx context.Context, values map[string]string) (SubmissionResult, error)

func (f SubmitterFunc) Submit(ctx context.Context, values map[string]string) (SubmissionResult, error) {
	return f(ctx, values)
}

// ErrDeclined marks a simulated processor rejection.
var ErrDeclined = errors.New("session: payment declined")

// SimulatedProcessor stands in for a real backend: it waits for Delay, then
// succeeds or declines according to DeclineRate. The zero value submits
// instantly and always succeeds.
type SimulatedProcessor struct {
	Delay       time.Duration
	DeclineRate float64

	mu  sync.Mutex
	rng *rand.Rand
}

// NewSimulatedProcessor seeds a processor with its own RNG so concurrent
// sessions do not share the global source.
func NewSimulatedProcessor(delay time.Duration, declineRate float64) *SimulatedProcessor {
	return &SimulatedProcessor{
		Delay:       delay,
		DeclineRate: declineRate,
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Submit implements Submitter.
func (p *SimulatedProcessor) Submit(ctx context.Context, values map[string]string) (SubmissionResult, error) {
	if p.Delay > 0 {
		timer := time.NewTimer(p.Delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return SubmissionResult{}, ctx.Err()
		case <-timer.C:
		}
	}

	if p.DeclineRate > 0 && p.roll() < p.DeclineRate {
		return SubmissionResult{
			Message: "Your payment could not be processed. Please try again.",
		}, ErrDeclined
	}

	return SubmissionResult{
		Success:       true,
		Message:       "Thank you! Your submission was received.",
		TransactionID: p.transactionID(),
	}, nil
}

func (p *SimulatedProcessor) roll() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.rng == nil {
		p.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return p.rng.Float64()
}

func (p *SimulatedProcessor) transactionID() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.rng == nil {
		p.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return fmt.Sprintf("TXN-%d-%04d", time.Now().Unix(), p.rng.Intn(10000))
}
