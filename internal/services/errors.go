package services

import (
	domainagg "github.com/yungbote/tidyhome-backend/internal/domain/aggregates"
)

func notFound(op, what string) error {
	return domainagg.NewError(domainagg.CodeNotFound, op, what+" not found", nil)
}

func invalid(op, msg string) error {
	return domainagg.NewError(domainagg.CodeValidation, op, msg, nil)
}
