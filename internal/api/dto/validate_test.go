package dto

import (
	"net/http"
	"testing"

	apperrors "github.com/crowdinfra/crowdinfra-api/pkg/util/errorutil"
)

func TestValidateSignup(t *testing.T) {
	valid := SignupRequest{
		Name: "Ravi", Email: "ravi@example.com", Password: "secret1",
		Phone: "9876543210", Address: "Sector 5", Gender: "Female",
	}
	if err := Validate(valid); err != nil {
		t.Fatalf("valid request rejected: %v", err)
	}

	cases := []struct {
		name   string
		field  string
		mutate func(*SignupRequest)
	}{
		{"short password", "password", func(r *SignupRequest) { r.Password = "12345" }},
		{"bad email", "email", func(r *SignupRequest) { r.Email = "ravi" }},
		{"unknown gender", "gender", func(r *SignupRequest) { r.Gender = "male" }},
		{"missing phone", "phone", func(r *SignupRequest) { r.Phone = "" }},
		{"missing address", "address", func(r *SignupRequest) { r.Address = "" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := valid
			tc.mutate(&req)
			err := Validate(req)
			if err == nil {
				t.Fatal("expected validation error")
			}
			domainErr := apperrors.ToDomainError(err)
			if domainErr.HTTPStatus != http.StatusBadRequest {
				t.Errorf("status = %d", domainErr.HTTPStatus)
			}
			if _, ok := domainErr.Details[tc.field]; !ok {
				t.Errorf("details %v missing %q", domainErr.Details, tc.field)
			}
		})
	}
}

func TestValidateDemandCategory(t *testing.T) {
	req := CreateDemandRequest{Title: "t", Description: "d", Category: "healthcare"}
	if err := Validate(req); err != nil {
		t.Fatalf("valid request rejected: %v", err)
	}
	req.Status = "not_fulfilled"
	if err := Validate(req); err != nil {
		t.Fatalf("valid status rejected: %v", err)
	}
	req.Category = "parks"
	if err := Validate(req); err == nil {
		t.Fatal("expected unknown category to fail")
	}
}

func TestValidateRating(t *testing.T) {
	cases := []struct {
		name  string
		req   SubmitRatingRequest
		valid bool
	}{
		{"ok", SubmitRatingRequest{Email: "a@b.co", Rating: 5, Review: "great"}, true},
		{"zero rating", SubmitRatingRequest{Email: "a@b.co", Rating: 0, Review: "great"}, false},
		{"rating above five", SubmitRatingRequest{Email: "a@b.co", Rating: 6, Review: "great"}, false},
		{"missing review", SubmitRatingRequest{Email: "a@b.co", Rating: 3}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := Validate(tc.req)
			if tc.valid && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tc.valid && err == nil {
				t.Fatal("expected error")
			}
		})
	}
}
