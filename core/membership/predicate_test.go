package membership

import (
	"testing"

	tele "gopkg.in/telebot.v4"
)

func member(status Status) *tele.ChatMember {
	return &tele.ChatMember{Role: tele.MemberStatus(status)}
}

func TestIsAgreesWithNormalize(t *testing.T) {
	for q := range queryStatuses {
		resolved := make(map[Status]struct{})
		for _, s := range Normalize(q) {
			resolved[s] = struct{}{}
		}
		for _, s := range statusOrder {
			_, want := resolved[s]
			if got := Is(member(s), q); got != want {
				t.Fatalf("Is(%s, %q) = %v, expected %v", s, q, got, want)
			}
		}
	}
}

func TestInOutPartition(t *testing.T) {
	for _, s := range statusOrder {
		in := Is(member(s), In)
		out := Is(member(s), Out)
		if in == out {
			t.Fatalf("status %q: in=%v out=%v, expected exactly one", s, in, out)
		}
	}
}

func TestConvenienceAliases(t *testing.T) {
	cases := []struct {
		status Status
		in     bool
		out    bool
		free   bool
		admin  bool
		reg    bool
	}{
		{Creator, true, false, true, true, false},
		{Administrator, true, false, true, true, false},
		{Member, true, false, true, false, true},
		{Restricted, true, false, false, false, true},
		{Left, false, true, false, false, false},
		{Kicked, false, true, false, false, false},
	}
	for _, tc := range cases {
		m := member(tc.status)
		if IsIn(m) != tc.in || IsOut(m) != tc.out || IsFree(m) != tc.free ||
			IsAdmin(m) != tc.admin || IsRegular(m) != tc.reg {
			t.Fatalf("aliases for %q: in=%v out=%v free=%v admin=%v regular=%v",
				tc.status, IsIn(m), IsOut(m), IsFree(m), IsAdmin(m), IsRegular(m))
		}
	}
}

func TestIsNilMember(t *testing.T) {
	if Is(nil, In, Out) {
		t.Fatal("nil member matched")
	}
}

func TestIsMultiQuery(t *testing.T) {
	if !Is(member(Kicked), Admin, Out) {
		t.Fatal("kicked should match [admin, out]")
	}
	if Is(member(Restricted), Admin, Out) {
		t.Fatal("restricted should not match [admin, out]")
	}
}
