package handlers

import (
	"github.com/go-playground/validator/v10"
)

// CustomValidator wraps the go-playground/validator library to implement Echo's Validator interface.
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator creates a new CustomValidator.
func NewValidator() *CustomValidator {
	return &CustomValidator{validator: validator.New()}
}

// Validate implements the echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

// PageRequest addresses a page instance.
type PageRequest struct {
	PageID string `param:"page" validate:"required,uuid"`
}

// RowRequest addresses one row of a page's grid.
type RowRequest struct {
	PageID string `param:"page" validate:"required,uuid"`
	Row    int    `param:"row" validate:"min=0"`
}

// PostRequest asks for an account's latest post.
type PostRequest struct {
	PageID string `param:"page" validate:"required,uuid"`
	Actor  string `query:"actor" validate:"required,max=253"`
}
