package service

import (
	"github.com/rs/zerolog"

	"webshop/internal/events"
	"webshop/internal/repository"
	"webshop/internal/session"
)

// Shop bundles every webshop operation behind one value.
type Shop struct {
	AuthService
	CatalogService
	PurchaseService
	AdminService
}

// NewShop wires the services over one store and session tracker. publisher
// may be nil.
func NewShop(store repository.Store, sessions *session.Tracker, publisher events.Publisher, logger zerolog.Logger) *Shop {
	return &Shop{
		AuthService:     NewAuthService(store, sessions, logger),
		CatalogService:  NewCatalogService(store),
		PurchaseService: NewPurchaseService(store, sessions, publisher, logger),
		AdminService:    NewAdminService(store, sessions, logger),
	}
}
