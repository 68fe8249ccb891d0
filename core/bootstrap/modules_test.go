package bootstrap

import (
	"errors"
	"testing"

	"github.com/m3rciful/membot/core/membership"
	coretelegram "github.com/m3rciful/membot/core/telegram"

	tele "gopkg.in/telebot.v4"
)

func TestRegisterModulesAppliesAll(t *testing.T) {
	reg := coretelegram.NewRegistry()
	infra := &Result{}

	err := RegisterModules(reg, infra,
		ModuleFunc(func(reg *coretelegram.Registry, infra *Result) error {
			reg.RegisterSelf("bot_added", coretelegram.TransitionHandler{
				Handler: func(tele.Context) error { return nil },
				Old:     []membership.Query{membership.Out},
				New:     []membership.Query{membership.In},
			})
			return nil
		}),
		nil,
		ModuleFunc(func(reg *coretelegram.Registry, infra *Result) error {
			reg.RegisterMember("member_joined", coretelegram.TransitionHandler{
				Handler: func(tele.Context) error { return nil },
				Old:     []membership.Query{membership.Out},
				New:     []membership.Query{membership.In},
			})
			return nil
		}),
	)
	if err != nil {
		t.Fatalf("RegisterModules: %v", err)
	}
	if got := reg.Len(); got != 2 {
		t.Fatalf("Len() = %d, want 2", got)
	}
}

func TestRegisterModulesStopsOnError(t *testing.T) {
	reg := coretelegram.NewRegistry()
	boom := errors.New("boom")
	applied := false

	err := RegisterModules(reg, nil,
		ModuleFunc(func(*coretelegram.Registry, *Result) error { return boom }),
		ModuleFunc(func(*coretelegram.Registry, *Result) error {
			applied = true
			return nil
		}),
	)
	if !errors.Is(err, boom) {
		t.Fatalf("RegisterModules error = %v, want wrapped boom", err)
	}
	if applied {
		t.Fatalf("later module ran after earlier failure")
	}
}

func TestRegisterModulesNilRegistry(t *testing.T) {
	if err := RegisterModules(nil, nil); err == nil {
		t.Fatalf("RegisterModules(nil) succeeded, want error")
	}
}

func TestResultCloseNil(t *testing.T) {
	var r *Result
	if err := r.Close(); err != nil {
		t.Fatalf("Close on nil result: %v", err)
	}
	if err := (&Result{}).Close(); err != nil {
		t.Fatalf("Close on empty result: %v", err)
	}
}
