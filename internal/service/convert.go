package service

import (
	"github.com/mmynk/budgetwise/internal/auth"
	"github.com/mmynk/budgetwise/internal/models"
	"github.com/mmynk/budgetwise/pkg/api"
)

func userToAPI(u *models.User) *api.User {
	return &api.User{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		Phone:       u.Phone,
		PhotoURL:    u.PhotoURL,
		CreatedAt:   u.CreatedAt,
	}
}

func claimsToAPI(c auth.Claims) *api.User {
	return &api.User{
		ID:          c.UserID,
		Email:       c.Email,
		DisplayName: c.DisplayName,
		Phone:       c.Phone,
		PhotoURL:    c.PhotoURL,
		Guest:       c.Guest,
	}
}
