package handlers

import (
	"fmt"

	"github.com/fireflow/fireflow_backend/internal/core/domain"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// RegisterValidators adds the domain enum validators used in binding tags.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected binding validator engine %T", binding.Validator.Engine())
	}
	if err := v.RegisterValidation("txntype", validateTransactionType); err != nil {
		return fmt.Errorf("register txntype validator: %w", err)
	}
	if err := v.RegisterValidation("frequency", validateFrequency); err != nil {
		return fmt.Errorf("register frequency validator: %w", err)
	}
	return nil
}

func validateTransactionType(fl validator.FieldLevel) bool {
	return domain.TransactionType(fl.Field().String()).IsValid()
}

func validateFrequency(fl validator.FieldLevel) bool {
	return domain.Frequency(fl.Field().String()).IsValid()
}
