// Package oracle provides a client for the external pricing service,
// abstracted behind an interface for testability.
package oracle

import (
	"context"
	"errors"
	"fmt"
	"syscall"

	domain "github.com/luticapital/arbitrage-helper/pkg/types"
)

// Route names used in metrics and errors.
const (
	RouteMarket = "market"
	RouteFull   = "full"
)

// ErrNoData is returned when the oracle answered but has no usable quote for
// the item (error indicator, missing fields, or insufficient history).
var ErrNoData = errors.New("oracle has no data for item")

// TransportError is returned when the oracle could not be reached or its
// reply could not be read.
type TransportError struct {
	Route string
	// Refused is set when the connection was refused, which means the oracle
	// service is not running.
	Refused bool
	Err     error
}

func (e *TransportError) Error() string {
	if e.Refused {
		return fmt.Sprintf("oracle %s route: service not running: %v", e.Route, e.Err)
	}
	return fmt.Sprintf("oracle %s route: %v", e.Route, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

func newTransportError(route string, err error) *TransportError {
	return &TransportError{Route: route, Refused: isConnectionRefused(err), Err: err}
}

// Client defines the two oracle request shapes. Neither method retries.
type Client interface {
	QueryMarket(ctx context.Context, id domain.ItemIdentity) (domain.MarketQuote, error)
	QueryFull(ctx context.Context, id domain.ItemIdentity) (domain.FullQuote, error)
}

// Outcome is the classification of an oracle call.
type Outcome string

// Outcome constants.
const (
	OutcomeSuccess          Outcome = "success"
	OutcomeNoData           Outcome = "no_data"
	OutcomeTransportFailure Outcome = "transport_failure"
)

// Classify maps an error returned by a Client to its outcome. Errors that are
// neither ErrNoData nor a TransportError count as transport failures.
func Classify(err error) Outcome {
	if err == nil {
		return OutcomeSuccess
	}
	if errors.Is(err, ErrNoData) {
		return OutcomeNoData
	}
	return OutcomeTransportFailure
}

// FailureState maps a failed call to the decision state it drives.
func FailureState(err error) domain.DecisionState {
	if Classify(err) == OutcomeNoData {
		return domain.StateNoMarketData
	}
	return domain.StateOracleOffline
}

func isConnectionRefused(err error) bool {
	return errors.Is(err, syscall.ECONNREFUSED)
}
