package internal

import (
	"avekl/folio-api/internal/service"
	"avekl/folio-api/internal/store"
	"avekl/folio-api/pkg/security"

	"gorm.io/gorm"
)

// Deps holds everything the handlers need. Built once in the router
// and passed down explicitly, there are no package-level singletons.
type Deps struct {
	DB       *gorm.DB
	Tokens   *security.TokenIssuer
	Refresh  *store.RefreshStore
	Visitors *store.VisitorCounter
	Verif    *service.Verification
	Avatars  service.Uploader
}
