package service

import (
	"github.com/novadent/novadent/internal/config"
	"github.com/novadent/novadent/storefront/internal/catalog"
	"github.com/novadent/novadent/storefront/internal/session"
)

type StorefrontService struct {
	sessions *session.Manager
	catalog  *catalog.Catalog
	backend  config.Backend
}

func NewStorefrontService(
	sessions *session.Manager,
	catalog *catalog.Catalog,
	backend config.Backend,
) StorefrontService {
	return StorefrontService{sessions: sessions, catalog: catalog, backend: backend}
}
