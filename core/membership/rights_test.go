package membership

import (
	"testing"

	tele "gopkg.in/telebot.v4"
)

func admin(rights tele.Rights, title string) *tele.ChatMember {
	return &tele.ChatMember{
		Rights: rights,
		Role:   tele.Administrator,
		Title:  title,
	}
}

func TestPrivilegesCreatorHoldsEverything(t *testing.T) {
	creator := &tele.ChatMember{Role: tele.Creator, Title: "boss"}
	set := Privileges(creator)
	for _, p := range AllPrivileges() {
		if !set.Flags[p] {
			t.Fatalf("creator missing %q", p)
		}
	}
	if set.Title != "boss" {
		t.Fatalf("creator title = %q, expected boss", set.Title)
	}
}

func TestPrivilegesAdministratorOwnFlags(t *testing.T) {
	m := admin(tele.Rights{CanChangeInfo: true, CanInviteUsers: true}, "mod")
	set := Privileges(m)
	if !set.Flags[CanChangeInfo] || !set.Flags[CanInviteUsers] {
		t.Fatal("granted flags not resolved")
	}
	if set.Flags[CanPromoteMembers] || set.Flags[CanPinMessages] {
		t.Fatal("ungranted flags resolved as held")
	}
	if set.Title != "mod" {
		t.Fatalf("title = %q, expected mod", set.Title)
	}
	if len(set.Flags) != len(AllPrivileges()) {
		t.Fatalf("flag map has %d entries, expected %d", len(set.Flags), len(AllPrivileges()))
	}
}

func TestPrivilegesNonAdmin(t *testing.T) {
	for _, s := range []Status{Member, Restricted, Left, Kicked} {
		// Flags set on a non-admin snapshot must be ignored.
		m := &tele.ChatMember{Rights: tele.Rights{CanPinMessages: true}, Role: tele.MemberStatus(s), Title: "ignored"}
		set := Privileges(m)
		for _, p := range AllPrivileges() {
			if set.Flags[p] {
				t.Fatalf("status %q holds %q", s, p)
			}
		}
		if set.Title != "" || set.Anonymous {
			t.Fatalf("status %q: title=%q anonymous=%v, expected empty/false", s, set.Title, set.Anonymous)
		}
	}
}

func TestPrivilegesNilMember(t *testing.T) {
	set := Privileges(nil)
	if len(set.Flags) != len(AllPrivileges()) {
		t.Fatal("nil member must still resolve a fully populated set")
	}
	for _, p := range AllPrivileges() {
		if set.Flags[p] {
			t.Fatalf("nil member holds %q", p)
		}
	}
}

func TestMissingAndHasAll(t *testing.T) {
	m := admin(tele.Rights{CanChangeInfo: true}, "")
	missing := Missing(m, CanPromoteMembers, CanChangeInfo, CanPinMessages)
	want := []Privilege{CanPromoteMembers, CanPinMessages}
	if len(missing) != len(want) {
		t.Fatalf("Missing = %v, expected %v", missing, want)
	}
	for i := range want {
		if missing[i] != want[i] {
			t.Fatalf("Missing = %v, expected %v (order preserved)", missing, want)
		}
	}
	if HasAll(m, CanPromoteMembers) {
		t.Fatal("HasAll reported an ungranted privilege as held")
	}
	if !HasAll(m, CanChangeInfo) {
		t.Fatal("HasAll rejected a granted privilege")
	}
	if !HasAll(m) {
		t.Fatal("HasAll with no requirements must hold")
	}
}

func TestMissingResolvesTitleAndAnonymity(t *testing.T) {
	anon := admin(tele.Rights{Anonymous: true}, "mod")
	if got := Missing(anon, Anonymity, CustomTitle); len(got) != 0 {
		t.Fatalf("Missing = %v, expected none for anonymous titled admin", got)
	}
	if !HasAll(anon, Anonymity, CustomTitle) {
		t.Fatal("HasAll rejected held title and anonymity")
	}

	plain := admin(tele.Rights{}, "")
	got := Missing(plain, Anonymity, CanPinMessages, CustomTitle)
	want := []Privilege{Anonymity, CanPinMessages, CustomTitle}
	if len(got) != len(want) {
		t.Fatalf("Missing = %v, expected %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Missing = %v, expected %v (order preserved)", got, want)
		}
	}

	// A regular member resolves neither.
	member := &tele.ChatMember{Role: tele.Member}
	if HasAll(member, Anonymity) || HasAll(member, CustomTitle) {
		t.Fatal("non-admin member reported title or anonymity as held")
	}
}

func TestChangedDeclarationOrder(t *testing.T) {
	before := admin(tele.Rights{CanChangeInfo: true, CanPinMessages: true}, "old")
	after := admin(tele.Rights{CanChangeInfo: true, CanPromoteMembers: true}, "new")
	got := Changed(before, after)
	want := []Privilege{CanPinMessages, CanPromoteMembers, CustomTitle}
	if len(got) != len(want) {
		t.Fatalf("Changed = %v, expected %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Changed = %v, expected %v", got, want)
		}
	}
}

func TestChangedDemotion(t *testing.T) {
	before := &tele.ChatMember{Role: tele.Creator, Title: "boss"}
	after := member(Member)
	got := Changed(before, after)
	// Every capability flips true -> false, plus the title clears.
	if len(got) != len(AllPrivileges())+1 {
		t.Fatalf("Changed on demotion = %v (%d entries), expected %d", got, len(got), len(AllPrivileges())+1)
	}
	if got[len(got)-1] != CustomTitle {
		t.Fatalf("Changed tail = %q, expected %q", got[len(got)-1], CustomTitle)
	}
}

func TestChangedNoDifference(t *testing.T) {
	a := admin(tele.Rights{CanDeleteMessages: true}, "mod")
	b := admin(tele.Rights{CanDeleteMessages: true}, "mod")
	if got := Changed(a, b); len(got) != 0 {
		t.Fatalf("Changed on identical snapshots = %v, expected empty", got)
	}
}

func TestPrivilegeValid(t *testing.T) {
	if !CanPinMessages.Valid() || !CustomTitle.Valid() || !Anonymity.Valid() {
		t.Fatal("known privilege reported invalid")
	}
	if Privilege("can_fly").Valid() {
		t.Fatal("unknown privilege reported valid")
	}
}
