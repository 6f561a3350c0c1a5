// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"patrimony/internal/ledger"
	"patrimony/internal/models"
)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		RegisterOn(v)
	}
}

// RegisterOn registers the validators on v.
func RegisterOn(v *validator.Validate) {
	_ = v.RegisterValidation("category", validateCategory)
	_ = v.RegisterValidation("currency", validateCurrency)
	_ = v.RegisterValidation("pru_currency", validatePRUCurrency)
	_ = v.RegisterValidation("scope", validateScope)
	_ = v.RegisterValidation("direction", validateDirection)
	_ = v.RegisterValidation("sort_key", validateSortKey)
	_ = v.RegisterValidation("mode", validateMode)
}

func validateCategory(fl validator.FieldLevel) bool {
	return models.Category(fl.Field().String()).Valid()
}

func validateCurrency(fl validator.FieldLevel) bool {
	return containsCurrency(models.Currencies, fl.Field().String())
}

func validatePRUCurrency(fl validator.FieldLevel) bool {
	return containsCurrency(models.PRUCurrencies, fl.Field().String())
}

func containsCurrency(list []models.Currency, v string) bool {
	for _, c := range list {
		if string(c) == v {
			return true
		}
	}
	return false
}

func validateScope(fl validator.FieldLevel) bool {
	switch models.Scope(fl.Field().String()) {
	case models.ScopeInvestment, models.ScopeCrypto, models.ScopeStocks, models.ScopeBudget, models.ScopeCredit:
		return true
	}
	return false
}

func validateDirection(fl validator.FieldLevel) bool {
	switch ledger.Direction(fl.Field().String()) {
	case ledger.Up, ledger.Down:
		return true
	}
	return false
}

func validateSortKey(fl validator.FieldLevel) bool {
	return ledger.SortKey(fl.Field().String()).Valid()
}

func validateMode(fl validator.FieldLevel) bool {
	return ledger.Mode(fl.Field().String()).Valid()
}
