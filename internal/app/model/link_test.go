package model

import (
	"testing"
	"time"
)

func TestLink_IsActive(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Minute)
	future := now.Add(time.Minute)

	cases := []struct {
		name      string
		expiresAt *time.Time
		want      bool
	}{
		{"no expiry", nil, true},
		{"future expiry", &future, true},
		{"past expiry", &past, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			l := &Link{ExpiresAt: tc.expiresAt}
			if got := l.IsActive(now); got != tc.want {
				t.Fatalf("IsActive = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestLink_ShortURL(t *testing.T) {
	l := &Link{ShortCode: "Xy9kP2"}
	if got := l.ShortURL("https://sho.rt/"); got != "https://sho.rt/Xy9kP2" {
		t.Fatalf("ShortURL = %q", got)
	}
	if got := l.ShortURL("https://sho.rt"); got != "https://sho.rt/Xy9kP2" {
		t.Fatalf("ShortURL without trailing slash = %q", got)
	}
}

func TestLink_OwnedBy(t *testing.T) {
	owner := "user-1"
	anonymous := &Link{}
	owned := &Link{OwnerID: &owner}

	if !anonymous.OwnedBy("anyone") {
		t.Fatal("anonymous links are manageable by anyone")
	}
	if !owned.OwnedBy(owner) {
		t.Fatal("owner must pass the ownership check")
	}
	if owned.OwnedBy("user-2") {
		t.Fatal("non-owner must fail the ownership check")
	}
}
