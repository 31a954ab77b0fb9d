package jwttoken

import (
	id "livegate/pkg/domain"
)

// JWTServiceAdapter bridges the JWT service to the auth middleware's
// validator interface, mapping token claims to a typed user ID.
type JWTServiceAdapter struct {
	service *JWTService
}

func NewJWTServiceAdapter(service *JWTService) *JWTServiceAdapter {
	return &JWTServiceAdapter{service: service}
}

func (a *JWTServiceAdapter) ValidateToken(tokenString string) (id.UserID, error) {
	claims, err := a.service.ValidateToken(tokenString)
	if err != nil {
		return id.UserID{}, err
	}
	return id.ParseUserID(claims.UserID)
}
