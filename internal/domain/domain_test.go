package domain

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestValidateUsername(t *testing.T) {
	cases := []struct {
		name string
		want error
	}{
		{"ada", nil},
		{"   ", ErrUsernameEmpty},
		{strings.Repeat("x", 37), ErrUsernameTooLong},
		{" " + strings.Repeat("x", 36) + " ", nil},
	}
	for _, tc := range cases {
		if got := ValidateUsername(tc.name); !errors.Is(got, tc.want) {
			t.Errorf("ValidateUsername(%q) = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestValidateUserUUID(t *testing.T) {
	if err := ValidateUserUUID(""); !errors.Is(err, ErrUserUUIDEmpty) {
		t.Fatalf("empty: %v", err)
	}
	if err := ValidateUserUUID(strings.Repeat("u", MaxUserUUIDLen+1)); !errors.Is(err, ErrUserUUIDTooLong) {
		t.Fatalf("long: %v", err)
	}
	if err := ValidateUserUUID("t1"); err != nil {
		t.Fatalf("valid: %v", err)
	}
}

func TestNewRemoteError(t *testing.T) {
	cases := []struct {
		code int
		kind error
	}{
		{CodeUnauthorized, ErrAuth},
		{CodeForbidden, ErrAuth},
		{CodeStreamConcurrencyOut, ErrConcurrencyConflict},
		{500, ErrRemoteRejected},
	}
	for _, tc := range cases {
		err := fmt.Errorf("call: %w", NewRemoteError(tc.code, "msg"))
		if !errors.Is(err, tc.kind) {
			t.Errorf("code %d: %v is not %v", tc.code, err, tc.kind)
		}
		var re *RemoteError
		if !errors.As(err, &re) || re.Code != tc.code {
			t.Errorf("code %d: As failed", tc.code)
		}
	}
}

func TestApplyReturnsEffectiveDelta(t *testing.T) {
	p := MemberProperties{HasAudio: true}
	eff := p.Apply(PropertyDelta{HasAudio: Bool(true), HasVideo: Bool(true), HandsUp: HandsUp(HandsUpRaised), By: "t1"})

	if eff.HasAudio != nil {
		t.Fatal("unchanged audio reported")
	}
	if eff.HasVideo == nil || !*eff.HasVideo || !p.HasVideo {
		t.Fatal("video change missing")
	}
	if eff.HandsUp == nil || p.HandsUp != HandsUpRaised {
		t.Fatal("hands up change missing")
	}
	if eff.By != "t1" {
		t.Fatalf("by = %q", eff.By)
	}
	if !p.Apply(eff).IsEmpty() {
		t.Fatal("reapplying an effective delta must be a no-op")
	}
}

func TestDiff(t *testing.T) {
	from := MemberProperties{HasAudio: true, OnStage: true}
	to := MemberProperties{HasAudio: true, GrantedWhiteboard: true}
	d := from.Diff(to)
	if d.HasAudio != nil || d.GrantedWhiteboard == nil || d.OnStage == nil || *d.OnStage {
		t.Fatalf("diff = %+v", d)
	}
	if from.OnStage != true {
		t.Fatal("Diff mutated the receiver")
	}
}

func TestPropertyKeyFor(t *testing.T) {
	if k, ok := PropertyKeyFor(CapAudio); !ok || k != KeyAudio {
		t.Fatalf("audio key = %q %v", k, ok)
	}
	if _, ok := PropertyKeyFor(CapWhiteboard); ok {
		t.Fatal("whiteboard is not a media property")
	}
	if OpenClose(true) != 1 || OpenClose(false) != 0 {
		t.Fatal("open/close values")
	}
}
