package match

import "github.com/vovakirdan/blockduel/internal/games/duel/payload"

// Telemetry observes a match. observability.Metrics implements it.
type Telemetry interface {
	payload.Telemetry
	AttackResolved(source string)
	RuleTableDegraded(degraded bool)
	MatchFinished(reason string)
}

type nopTelemetry struct{}

func (nopTelemetry) PayloadEnqueued(string)  {}
func (nopTelemetry) UnitsLanded(string, int) {}
func (nopTelemetry) UnitConverted(string)    {}
func (nopTelemetry) PlacementOverflow()      {}
func (nopTelemetry) PayloadDropped()         {}
func (nopTelemetry) AttackResolved(string)   {}
func (nopTelemetry) RuleTableDegraded(bool)  {}
func (nopTelemetry) MatchFinished(string)    {}
