package contracts

// Exchanges
const (
	ExchangeClaimTopic  = "claim_topic"
	ExchangeReviewTopic = "review_topic"
)

// Queues
const (
	QueueClaimSubmitted = "claim_submitted"
	QueueClaimStatus    = "claim_status"
	QueueOfferDecisions = "offer_decisions"
)

// Routing patterns
const (
	RouteClaimSubmittedPrefix = "claim.submitted."  // {trip_id}
	RouteClaimStatusPrefix    = "claim.status."     // {status}
	RouteOfferDecisionPrefix  = "review.decision."  // {booking_id}
)
