package bootstrap

import (
	"fmt"

	coretelegram "github.com/m3rciful/membot/core/telegram"
)

// Module contributes transition handlers to the shared registry. Bots are
// composed from independent modules so each concern registers its own
// handlers against the infrastructure prepared by Run.
type Module interface {
	Register(reg *coretelegram.Registry, infra *Result) error
}

// ModuleFunc adapts a bare function to the Module interface.
type ModuleFunc func(reg *coretelegram.Registry, infra *Result) error

// Register executes the underlying function.
func (f ModuleFunc) Register(reg *coretelegram.Registry, infra *Result) error {
	return f(reg, infra)
}

// RegisterModules applies all modules against the registry, failing on the
// first error.
func RegisterModules(reg *coretelegram.Registry, infra *Result, modules ...Module) error {
	if reg == nil {
		return fmt.Errorf("bootstrap: nil registry provided")
	}
	for i, m := range modules {
		if m == nil {
			continue
		}
		if err := m.Register(reg, infra); err != nil {
			return fmt.Errorf("bootstrap: module %d registration failed: %w", i, err)
		}
	}
	return nil
}
