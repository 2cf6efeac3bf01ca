package handlers

import (
	"testing"

	"backend/internal/apperr"
	"backend/internal/models"
)

func validAddressRequest() addressRequest {
	return addressRequest{
		FirstName: "Alice",
		LastName:  "Nguyen",
		Email:     "a@x.com",
		Street:    "1 Main St",
		City:      "Hanoi",
		Zipcode:   "100000",
		Country:   "Vietnam",
		Phone:     "0901234567",
	}
}

func TestBuildAddressAssignsID(t *testing.T) {
	addr, err := buildAddress(validAddressRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if addr.ID == "" {
		t.Fatal("expected a generated address id")
	}
}

func TestBuildAddressStateOptional(t *testing.T) {
	req := validAddressRequest()
	req.State = ""
	if _, err := buildAddress(req); err != nil {
		t.Fatalf("state should be optional, got error: %v", err)
	}
}

func TestBuildAddressMissingRequiredField(t *testing.T) {
	cases := []func(*addressRequest){
		func(r *addressRequest) { r.FirstName = "" },
		func(r *addressRequest) { r.LastName = "" },
		func(r *addressRequest) { r.Email = "" },
		func(r *addressRequest) { r.Street = "" },
		func(r *addressRequest) { r.City = "" },
		func(r *addressRequest) { r.Zipcode = "" },
		func(r *addressRequest) { r.Country = "" },
		func(r *addressRequest) { r.Phone = "  " },
	}
	for i, mutate := range cases {
		req := validAddressRequest()
		mutate(&req)
		if _, err := buildAddress(req); apperr.KindOf(err) != apperr.InvalidArgument {
			t.Fatalf("case %d: expected InvalidArgument, got %v", i, err)
		}
	}
}

func TestApplyAddressUpdatePartial(t *testing.T) {
	addr := models.Address{
		ID:        "addr-1",
		FirstName: "Alice",
		LastName:  "Nguyen",
		City:      "Hanoi",
		Country:   "Vietnam",
	}

	applyAddressUpdate(&addr, addressRequest{City: "Da Nang"})

	if addr.City != "Da Nang" {
		t.Fatalf("expected city updated, got %q", addr.City)
	}
	if addr.FirstName != "Alice" || addr.Country != "Vietnam" {
		t.Fatal("expected untouched fields to keep their values")
	}
}

func TestFindAddressIndex(t *testing.T) {
	addresses := []models.Address{{ID: "a"}, {ID: "b"}}
	if got := findAddressIndex(addresses, "b"); got != 1 {
		t.Fatalf("expected index 1, got %d", got)
	}
	if got := findAddressIndex(addresses, "missing"); got != -1 {
		t.Fatalf("expected -1 for missing id, got %d", got)
	}
}
