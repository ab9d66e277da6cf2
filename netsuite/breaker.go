package netsuite

import (
	"errors"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker/v2"

	"github.com/pragadastech/wms-ai-py2/config"
	"github.com/pragadastech/wms-ai-py2/utils"
)

const (
	defaultFailureThreshold = 5
	defaultOpenTimeout      = 60 * time.Second
)

// Breaker guards the NetSuite restlet. One instance is built per process and
// shared by the sync orchestrator and the bin-count relay, so a failing
// upstream trips the breaker for both.
type Breaker struct {
	cb *gobreaker.CircuitBreaker[interface{}]
}

func NewBreaker(name string) *Breaker {
	threshold := uint32(utils.IntFromEnv("NETSUITE_BREAKER_FAILURE_THRESHOLD", defaultFailureThreshold))
	timeout := time.Duration(utils.IntFromEnv("NETSUITE_BREAKER_OPEN_TIMEOUT_SECONDS", int(defaultOpenTimeout/time.Second))) * time.Second
	return newBreaker(name, threshold, timeout)
}

func newBreaker(name string, failureThreshold uint32, openTimeout time.Duration) *Breaker {
	logger := config.GetLogger()
	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     openTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failureThreshold
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.WithFields(logrus.Fields{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			}).Warn("circuit breaker state change")
		},
	}
	return &Breaker{cb: gobreaker.NewCircuitBreaker[interface{}](settings)}
}

func (b *Breaker) Execute(op func() (interface{}, error)) (interface{}, error) {
	return b.cb.Execute(op)
}

func (b *Breaker) State() gobreaker.State {
	return b.cb.State()
}

// isBreakerRejection reports a fail-fast from the breaker itself, meaning the
// wrapped operation never ran.
func isBreakerRejection(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}
