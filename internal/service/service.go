package service

import (
	"time"

	"github.com/ArleDjinn/AjedrezRecreativo/internal/repository"
)

// Services bundles every domain service for the API layer.
type Services struct {
	Events   *EventService
	Checkout *CheckoutService
	Payments *PaymentService
	Auth     *AuthService
}

func NewServices(repos *repository.Repositories, gateway PaymentGateway, publisher Publisher, returnURL, jwtSecret string, sessionTTL time.Duration) *Services {
	return &Services{
		Events:   NewEventService(repos.Events, repos.Occurrences, repos.Purchases),
		Checkout: NewCheckoutService(repos.Events, repos.Occurrences, repos.Purchases, publisher),
		Payments: NewPaymentService(repos.Events, repos.Purchases, gateway, publisher, returnURL),
		Auth:     NewAuthService(repos.Admins, jwtSecret, sessionTTL),
	}
}
