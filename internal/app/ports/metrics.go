package ports

type DiscoveryMetrics interface {
	RecordDiscovery()
	RecordDiscoveryFailure()
	RecordTravel(outcome string)
	RecordInvalidation(reason string)
}

const (
	TravelResolved         = "resolved"
	TravelNotDiscovered    = "not_discovered"
	TravelWorldUnavailable = "world_unavailable"
	TravelFailed           = "failed"
)
