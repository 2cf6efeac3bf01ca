package handlers

import (
	"strings"

	"github.com/google/uuid"

	"backend/internal/apperr"
	"backend/internal/models"
)

type addressRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Street    string `json:"street"`
	City      string `json:"city"`
	State     string `json:"state"`
	Zipcode   string `json:"zipcode"`
	Country   string `json:"country"`
	Phone     string `json:"phone"`
}

// buildAddress validates a new address and assigns it an id. Every
// field except state is required.
func buildAddress(req addressRequest) (models.Address, error) {
	addr := models.Address{
		ID:        uuid.NewString(),
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Email:     strings.TrimSpace(req.Email),
		Street:    strings.TrimSpace(req.Street),
		City:      strings.TrimSpace(req.City),
		State:     strings.TrimSpace(req.State),
		Zipcode:   strings.TrimSpace(req.Zipcode),
		Country:   strings.TrimSpace(req.Country),
		Phone:     strings.TrimSpace(req.Phone),
	}

	if addr.FirstName == "" || addr.LastName == "" || addr.Email == "" ||
		addr.Street == "" || addr.City == "" || addr.Zipcode == "" ||
		addr.Country == "" || addr.Phone == "" {
		return models.Address{}, apperr.New(apperr.InvalidArgument, "All address fields are required.")
	}

	return addr, nil
}

// applyAddressUpdate overwrites only the provided (non-empty) fields.
func applyAddressUpdate(addr *models.Address, req addressRequest) {
	if v := strings.TrimSpace(req.FirstName); v != "" {
		addr.FirstName = v
	}
	if v := strings.TrimSpace(req.LastName); v != "" {
		addr.LastName = v
	}
	if v := strings.TrimSpace(req.Email); v != "" {
		addr.Email = v
	}
	if v := strings.TrimSpace(req.Street); v != "" {
		addr.Street = v
	}
	if v := strings.TrimSpace(req.City); v != "" {
		addr.City = v
	}
	if v := strings.TrimSpace(req.State); v != "" {
		addr.State = v
	}
	if v := strings.TrimSpace(req.Zipcode); v != "" {
		addr.Zipcode = v
	}
	if v := strings.TrimSpace(req.Country); v != "" {
		addr.Country = v
	}
	if v := strings.TrimSpace(req.Phone); v != "" {
		addr.Phone = v
	}
}

func findAddressIndex(addresses []models.Address, addressID string) int {
	for i, addr := range addresses {
		if addr.ID == addressID {
			return i
		}
	}
	return -1
}
