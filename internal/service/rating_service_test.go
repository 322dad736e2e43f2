package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/crowdinfra/crowdinfra-api/internal/repository"
)

func TestRatingSubmitUpserts(t *testing.T) {
	svc := NewRatingService(repository.NewMemoryRatingRepository(), nil, nil)
	ctx := context.Background()

	first, created, err := svc.Submit(ctx, "Asha@Example.com ", 4, "Useful map")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if !created {
		t.Error("first submission should create")
	}
	if first.Email != "asha@example.com" {
		t.Errorf("email = %q", first.Email)
	}

	second, created, err := svc.Submit(ctx, "asha@example.com", 5, "Even better now")
	if err != nil {
		t.Fatalf("resubmit: %v", err)
	}
	if created {
		t.Error("second submission should update")
	}
	if second.ID != first.ID {
		t.Errorf("id changed from %s to %s", first.ID, second.ID)
	}

	all, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 1 || all[0].Rating != 5 {
		t.Errorf("ratings = %+v", all)
	}
}

func TestRatingSubmitValidation(t *testing.T) {
	cases := []struct {
		name   string
		email  string
		rating int
		review string
	}{
		{"missing email", "", 3, "ok"},
		{"missing review", "a@b.co", 3, ""},
		{"missing rating", "a@b.co", 0, "ok"},
		{"rating too high", "a@b.co", 6, "ok"},
		{"rating negative", "a@b.co", -1, "ok"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := NewRatingService(repository.NewMemoryRatingRepository(), nil, nil)
			_, _, err := svc.Submit(context.Background(), tc.email, tc.rating, tc.review)
			assertStatus(t, err, http.StatusBadRequest)
		})
	}
}
