package middleware

import (
	"github.com/m3rciful/membot/core/logger"
	"github.com/m3rciful/membot/core/membership"
	"log/slog"

	tele "gopkg.in/telebot.v4"
)

// AdminOptions defines how admin-only checks should behave.
type AdminOptions struct {
	AdminID  int64
	OnReject tele.HandlerFunc
}

// AdminOnlyMiddleware ensures that only the admin user can invoke downstream handlers.
func AdminOnlyMiddleware(opts AdminOptions) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			if opts.AdminID != 0 && int64(c.Sender().ID) != opts.AdminID {
				if opts.OnReject != nil {
					return opts.OnReject(c)
				}
				return nil
			}
			return next(c)
		}
	}
}

// PrivilegeOptions configures the privilege gate for membership updates.
type PrivilegeOptions struct {
	// Required lists privileges the resulting membership must hold.
	Required []membership.Privilege
	OnReject tele.HandlerFunc
}

// RequirePrivileges watches the bot's own membership transitions and flags
// the ones whose resulting membership lacks a required privilege. Member
// stream updates and updates without a transition pass through untouched.
// A deficit is logged and handed to OnReject when set; without OnReject the
// update still reaches downstream handlers, so demotions stay observable.
func RequirePrivileges(opts PrivilegeOptions) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			if len(opts.Required) == 0 {
				return next(c)
			}
			upd := c.Update()
			tr, scope, ok := membership.TransitionOf(&upd)
			if !ok || scope != membership.ScopeSelf {
				return next(c)
			}
			missing := membership.Missing(tr.NewChatMember, opts.Required...)
			if len(missing) == 0 {
				return next(c)
			}

			names := make([]string, 0, len(missing))
			for _, p := range missing {
				names = append(names, string(p))
			}
			preview, _ := logger.SummarizeStrings(names, 6)
			logger.TG.Warn("privileges missing",
				slog.String("event", "tg.privileges"),
				slog.String("scope", string(scope)),
				slog.Int64("chat_id", chatIDOf(tr)),
				slog.String("missing", preview),
				slog.Int("count", len(missing)),
			)
			if opts.OnReject != nil {
				return opts.OnReject(c)
			}
			return next(c)
		}
	}
}

func chatIDOf(tr *tele.ChatMemberUpdate) int64 {
	if tr == nil || tr.Chat == nil {
		return 0
	}
	return tr.Chat.ID
}
