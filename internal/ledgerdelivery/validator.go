package ledgerdelivery

import (
	"github.com/go-playground/validator/v10"

	"github.com/acmebank/ledger/internal/domain"
)

// ValidCardTier checks that a request field holds a supported card tier.
var ValidCardTier validator.Func = func(fl validator.FieldLevel) bool {
	if tier, ok := fl.Field().Interface().(string); ok {
		return domain.IsSupportedTier(tier)
	}

	return false
}
