package service

import (
	"trip-claims/internal/general/logger"
	"trip-claims/internal/general/rabbitmq"
	"trip-claims/internal/ports"
)

// reviewService holds all dependencies required by the Review service.
type reviewService struct {
	logger   *logger.Logger
	uow      ports.UnitOfWork
	bookings ports.BookingRepository
	offers   ports.OfferRepository
	events   ports.ClaimEventRepository
	pub      *rabbitmq.MQPublisher
	rabbitmq *rabbitmq.Client
}

// NewReviewService constructs the service with required dependencies.
func NewReviewService(
	logger *logger.Logger,
	uow ports.UnitOfWork,
	bookings ports.BookingRepository,
	offers ports.OfferRepository,
	events ports.ClaimEventRepository,
	pub *rabbitmq.MQPublisher,
	rabbitmq *rabbitmq.Client,
) ports.ReviewService {
	return &reviewService{
		logger:   logger,
		uow:      uow,
		bookings: bookings,
		offers:   offers,
		events:   events,
		pub:      pub,
		rabbitmq: rabbitmq,
	}
}
