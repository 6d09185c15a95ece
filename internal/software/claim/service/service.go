package service

import (
	"trip-claims/internal/domain/claim"
	"trip-claims/internal/general/logger"
	"trip-claims/internal/general/rabbitmq"
	"trip-claims/internal/general/websocket"
	"trip-claims/internal/ports"
)

// claimService holds all dependencies required by the Claim service.
type claimService struct {
	logger    *logger.Logger
	uow       ports.UnitOfWork
	trips     ports.TripRepository
	drivers   ports.DriverRepository
	claims    ports.ClaimRepository
	events    ports.ClaimEventRepository
	pub       *rabbitmq.MQPublisher
	rabbitmq  *rabbitmq.Client
	websocket *websocket.WebSocket
	policy    claim.Policy
}

// NewClaimService constructs the service with required dependencies.
func NewClaimService(
	logger *logger.Logger,
	uow ports.UnitOfWork,
	trips ports.TripRepository,
	drivers ports.DriverRepository,
	claims ports.ClaimRepository,
	events ports.ClaimEventRepository,
	pub *rabbitmq.MQPublisher,
	rabbitmq *rabbitmq.Client,
	ws *websocket.WebSocket,
	policy claim.Policy,
) ports.ClaimService {
	return &claimService{
		logger:    logger,
		uow:       uow,
		trips:     trips,
		drivers:   drivers,
		claims:    claims,
		events:    events,
		pub:       pub,
		rabbitmq:  rabbitmq,
		websocket: ws,
		policy:    policy,
	}
}
