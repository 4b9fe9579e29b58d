package model

import (
	"testing"
	"time"
)

func TestAccessLevelSatisfies(t *testing.T) {
	levels := []AccessLevel{AccessSuspended, AccessRead, AccessWrite, AccessAdmin}
	for _, have := range levels {
		for _, need := range levels {
			got := have.Satisfies(need)
			want := have >= need
			if got != want {
				t.Errorf("%s.Satisfies(%s) = %v, want %v", have, need, got, want)
			}
		}
	}
}

func TestParseAccessLevel(t *testing.T) {
	cases := []struct {
		in   int
		want AccessLevel
		ok   bool
	}{
		{0, AccessSuspended, true},
		{1, AccessRead, true},
		{2, AccessWrite, true},
		{3, AccessAdmin, true},
		{-1, 0, false},
		{4, 0, false},
		{255, 0, false},
	}
	for _, c := range cases {
		got, ok := ParseAccessLevel(c.in)
		if ok != c.ok || got != c.want {
			t.Errorf("ParseAccessLevel(%d) = (%v,%v), want (%v,%v)", c.in, got, ok, c.want, c.ok)
		}
	}
}

func TestAccessLevelString(t *testing.T) {
	if AccessAdmin.String() != "admin" || AccessSuspended.String() != "suspended" {
		t.Errorf("unexpected level names: %s, %s", AccessAdmin, AccessSuspended)
	}
	if AccessLevel(42).String() != "unknown" {
		t.Errorf("out-of-range level should stringify as unknown")
	}
}

func TestParseStatus(t *testing.T) {
	for _, s := range []string{"active", "done", "hidden"} {
		if _, ok := ParseStatus(s); !ok {
			t.Errorf("ParseStatus(%q) rejected a valid status", s)
		}
	}
	for _, s := range []string{"", "archived", "Done", "ACTIVE"} {
		if _, ok := ParseStatus(s); ok {
			t.Errorf("ParseStatus(%q) accepted an invalid status", s)
		}
	}
}

func TestListStatusFor(t *testing.T) {
	cases := []struct {
		name      string
		current   Status
		nonHidden int
		done      int
		want      Status
	}{
		{"all done promotes", StatusActive, 3, 3, StatusDone},
		{"one open demotes", StatusDone, 3, 2, StatusActive},
		{"single task done", StatusActive, 1, 1, StatusDone},
		{"no visible tasks keeps active", StatusActive, 0, 0, StatusActive},
		{"no visible tasks keeps done", StatusDone, 0, 0, StatusDone},
		{"hidden list untouched", StatusHidden, 2, 2, StatusHidden},
		{"done stays done", StatusDone, 2, 2, StatusDone},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := ListStatusFor(c.current, c.nonHidden, c.done); got != c.want {
				t.Errorf("ListStatusFor(%s,%d,%d) = %s, want %s", c.current, c.nonHidden, c.done, got, c.want)
			}
		})
	}
}

func TestAccessGrantExpired(t *testing.T) {
	now := time.Now().UTC()

	forever := AccessGrant{}
	if forever.Expired(now) {
		t.Error("grant without expiry must never expire")
	}

	past := now.Add(-time.Minute)
	if !(AccessGrant{ExpiresAt: &past}).Expired(now) {
		t.Error("grant past its expiry must be expired")
	}

	future := now.Add(time.Minute)
	if (AccessGrant{ExpiresAt: &future}).Expired(now) {
		t.Error("grant before its expiry must not be expired")
	}

	// Expiry boundary counts as expired.
	if !(AccessGrant{ExpiresAt: &now}).Expired(now) {
		t.Error("grant expiring exactly now must be expired")
	}
}

func TestInviteExpired(t *testing.T) {
	now := time.Now().UTC()
	if (Invite{ExpiresAt: now.Add(time.Hour)}).Expired(now) {
		t.Error("pending invite must not be expired")
	}
	if !(Invite{ExpiresAt: now.Add(-time.Hour)}).Expired(now) {
		t.Error("lapsed invite must be expired")
	}
	if !(Invite{ExpiresAt: now}).Expired(now) {
		t.Error("invite expiring exactly now must be expired")
	}
}
