package config

import (
	"github.com/go-playground/validator/v10"
)

// Shared dependencies used across handlers.
var (
	Validate = validator.New()
)
