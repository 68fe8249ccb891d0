package telegram

import (
	"testing"

	"github.com/m3rciful/membot/core/membership"

	tele "gopkg.in/telebot.v4"
)

func noopHandler(tele.Context) error { return nil }

func TestRegistryRegistersBothScopes(t *testing.T) {
	reg := NewRegistry()
	reg.RegisterSelf("bot_added", TransitionHandler{
		Handler: noopHandler,
		Old:     []membership.Query{membership.Out},
		New:     []membership.Query{membership.In},
	})
	reg.RegisterMember("member_joined", TransitionHandler{
		Handler: noopHandler,
		Old:     []membership.Query{membership.Out},
		New:     []membership.Query{membership.In},
	})

	if got := reg.Len(); got != 2 {
		t.Fatalf("Len() = %d, want 2", got)
	}
	if got := len(reg.Handlers(membership.ScopeSelf)); got != 1 {
		t.Fatalf("self handlers = %d, want 1", got)
	}
	if got := len(reg.Handlers(membership.ScopeMember)); got != 1 {
		t.Fatalf("member handlers = %d, want 1", got)
	}
}

func TestRegistrySkipsInvalidRegistrations(t *testing.T) {
	reg := NewRegistry()

	reg.RegisterSelf("", TransitionHandler{
		Handler: noopHandler,
		Old:     []membership.Query{membership.Out},
		New:     []membership.Query{membership.In},
	})
	reg.RegisterSelf("nil_handler", TransitionHandler{
		Old: []membership.Query{membership.Out},
		New: []membership.Query{membership.In},
	})
	reg.RegisterSelf("bad_token", TransitionHandler{
		Handler: noopHandler,
		Old:     []membership.Query{"banned"},
		New:     []membership.Query{membership.In},
	})
	reg.RegisterSelf("empty_old", TransitionHandler{
		Handler: noopHandler,
		New:     []membership.Query{membership.In},
	})

	if got := reg.Len(); got != 0 {
		t.Fatalf("Len() = %d, want 0 after invalid registrations", got)
	}
}

func TestRegistryRejectsDuplicateNames(t *testing.T) {
	reg := NewRegistry()
	h := TransitionHandler{
		Handler: noopHandler,
		Old:     []membership.Query{membership.Admin},
		New:     []membership.Query{membership.Regular},
	}
	reg.RegisterMember("demoted", h)
	reg.RegisterMember("demoted", h)

	if got := reg.Len(); got != 1 {
		t.Fatalf("Len() = %d, want 1 after duplicate registration", got)
	}
}

func TestRegistryDispatchOrder(t *testing.T) {
	reg := NewRegistry()
	for _, name := range []string{"first", "second", "third"} {
		reg.RegisterMember(name, TransitionHandler{
			Handler: noopHandler,
			Old:     []membership.Query{membership.In, membership.Out},
			New:     []membership.Query{membership.In, membership.Out},
		})
	}

	bound := reg.Handlers(membership.ScopeMember)
	want := []string{"first", "second", "third"}
	if len(bound) != len(want) {
		t.Fatalf("got %d handlers, want %d", len(bound), len(want))
	}
	for i, b := range bound {
		if b.Name != want[i] {
			t.Fatalf("handler[%d] = %q, want %q", i, b.Name, want[i])
		}
	}
}

func TestRegistryListHandlersSorted(t *testing.T) {
	reg := NewRegistry()
	h := TransitionHandler{
		Handler: noopHandler,
		Old:     []membership.Query{membership.Out},
		New:     []membership.Query{membership.In},
	}
	reg.RegisterMember("zeta", h)
	reg.RegisterSelf("alpha", h)

	got := reg.ListHandlers()
	if len(got) != 2 || got[0] != "alpha" || got[1] != "zeta" {
		t.Fatalf("ListHandlers() = %v, want [alpha zeta]", got)
	}
}

func TestRegistryBoundFilterMatches(t *testing.T) {
	reg := NewRegistry()
	reg.RegisterMember("joined", TransitionHandler{
		Handler: noopHandler,
		Old:     []membership.Query{membership.Out},
		New:     []membership.Query{membership.In},
	})

	upd := &tele.Update{ChatMember: &tele.ChatMemberUpdate{
		OldChatMember: &tele.ChatMember{Role: tele.Left},
		NewChatMember: &tele.ChatMember{Role: tele.Member},
	}}
	bound := reg.Handlers(membership.ScopeMember)
	if len(bound) != 1 {
		t.Fatalf("got %d handlers, want 1", len(bound))
	}
	if !bound[0].Filter(upd) {
		t.Fatalf("filter did not match left -> member on member stream")
	}
	selfShaped := &tele.Update{MyChatMember: upd.ChatMember}
	if bound[0].Filter(selfShaped) {
		t.Fatalf("member filter matched a self-shaped update")
	}
}
