package router

import (
	"context"
	"time"

	"github.com/m3rciful/membot/core/logger"
	"github.com/m3rciful/membot/core/membership"
	tg "github.com/m3rciful/membot/core/telegram"
	tghelpers "github.com/m3rciful/membot/core/telegram/helpers"
	"github.com/m3rciful/membot/core/telegram/middleware"
	"log/slog"

	tele "gopkg.in/telebot.v4"
)

// Recorder persists observed membership transitions. Recording is best
// effort; a failing recorder must not block dispatch.
type Recorder interface {
	Record(ctx context.Context, scope membership.Scope, tr *tele.ChatMemberUpdate) error
}

// MemberOptions controls routing of membership transition updates.
type MemberOptions struct {
	Recorder Recorder
	// OnUnmatched runs when no registered handler matches the transition.
	OnUnmatched tele.HandlerFunc
}

// MemberRoutes builds handlers for both membership update streams. Each
// stream dispatches against the registry in registration order; the first
// matching handler wins, updates with no transition payload are skipped.
func MemberRoutes(reg *tg.Registry, opts MemberOptions) []tg.Route {
	return []tg.Route{
		{
			Endpoint: tele.OnMyChatMember,
			Handler:  middleware.RecoverMiddleware(middleware.LoggerMiddleware(dispatchTransitions(reg, membership.ScopeSelf, opts))),
		},
		{
			Endpoint: tele.OnChatMember,
			Handler:  middleware.RecoverMiddleware(middleware.LoggerMiddleware(dispatchTransitions(reg, membership.ScopeMember, opts))),
		},
	}
}

func dispatchTransitions(reg *tg.Registry, scope membership.Scope, opts MemberOptions) tele.HandlerFunc {
	return func(c tele.Context) error {
		start := time.Now()
		upd := c.Update()

		tr, got, ok := membership.TransitionOf(&upd)
		if !ok || got != scope {
			logHandlerSummary(c, "member_"+string(scope), start, "skip", "ok", nil,
				slog.String("scope", string(scope)),
			)
			return nil
		}

		if opts.Recorder != nil {
			ctx := tghelpers.BuildContext(c)
			if err := opts.Recorder.Record(ctx, scope, tr); err != nil {
				logger.AUD.Warn("record failed",
					slog.String("event", "audit.record"),
					slog.String("scope", string(scope)),
					slog.String("err", logger.SanitizeLimit(err.Error(), 256)),
				)
			}
		}

		extras := transitionAttrs(scope, tr)

		evaluated := 0
		for _, bound := range reg.Handlers(scope) {
			evaluated++
			if !bound.Filter(&upd) {
				continue
			}
			name := normalizeHandlerName(bound.Name)
			return handleWithSummary(c, name, start, "", "", func() error {
				return bound.Handler(c)
			}, append(extras,
				slog.Int("evaluated", evaluated),
				slog.Bool("matched", true),
			)...)
		}

		if opts.OnUnmatched != nil {
			return handleWithSummary(c, "member_unmatched", start, "", "", func() error {
				return opts.OnUnmatched(c)
			}, append(extras,
				slog.Int("evaluated", evaluated),
				slog.Bool("matched", false),
			)...)
		}

		logHandlerSummary(c, "member_unmatched", start, "skip", "ok", nil, append(extras,
			slog.Int("evaluated", evaluated),
			slog.Bool("matched", false),
		)...)
		return nil
	}
}

func transitionAttrs(scope membership.Scope, tr *tele.ChatMemberUpdate) []slog.Attr {
	attrs := []slog.Attr{slog.String("scope", string(scope))}
	if tr == nil {
		return attrs
	}
	if tr.OldChatMember != nil {
		attrs = append(attrs, slog.String("old_status", string(tr.OldChatMember.Role)))
	}
	if tr.NewChatMember != nil {
		attrs = append(attrs, slog.String("new_status", string(tr.NewChatMember.Role)))
	}
	return attrs
}
