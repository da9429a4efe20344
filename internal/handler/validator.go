package handler

import (
    "net/http"

    "github.com/go-playground/validator/v10"
    "github.com/labstack/echo/v4"
)

// Validator adapts go-playground/validator to Echo's Validator
// interface so request DTOs are checked right after binding.
type Validator struct {
    v *validator.Validate
}

// NewValidator returns a Validator ready to register on the Echo
// instance.
func NewValidator() *Validator {
    return &Validator{v: validator.New()}
}

// Validate implements echo.Validator.  Failures surface as 400s with
// the validator's message.
func (cv *Validator) Validate(i interface{}) error {
    if err := cv.v.Struct(i); err != nil {
        return echo.NewHTTPError(http.StatusBadRequest, err.Error())
    }
    return nil
}
