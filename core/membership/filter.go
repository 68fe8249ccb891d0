package membership

import tele "gopkg.in/telebot.v4"

// Scope identifies which membership stream an update belongs to.
type Scope string

const (
	// ScopeSelf marks updates about the bot's own membership (my_chat_member).
	ScopeSelf Scope = "self"
	// ScopeMember marks updates about another participant (chat_member).
	ScopeMember Scope = "member"
)

// Filter decides whether the membership transition carried by an update
// matches. Filters are pure and cheap; evaluate them per update, no caching.
type Filter func(u *tele.Update) bool

// TransitionOf extracts the membership transition carried by an update.
// The self stream takes precedence: Telegram never sets both sub-objects
// on a single update.
func TransitionOf(u *tele.Update) (*tele.ChatMemberUpdate, Scope, bool) {
	if u == nil {
		return nil, "", false
	}
	if u.MyChatMember != nil {
		return u.MyChatMember, ScopeSelf, true
	}
	if u.ChatMember != nil {
		return u.ChatMember, ScopeMember, true
	}
	return nil, "", false
}

// SelfTransition builds a filter over the bot's own membership changes.
// Updates without my_chat_member data never match: the self stream may fire
// redundantly, and absence of the sub-object is the defined non-match, not
// an error.
func SelfTransition(old, new []Query) Filter {
	return func(u *tele.Update) bool {
		if u == nil || u.MyChatMember == nil {
			return false
		}
		return Is(u.MyChatMember.OldChatMember, old...) &&
			Is(u.MyChatMember.NewChatMember, new...)
	}
}

// MemberTransition builds a filter over other participants' membership
// changes. Updates without chat_member data never match. Equal old and new
// statuses are not excluded: the member stream is change-only upstream, so
// equality carries real information (e.g. an admin re-promoted with
// different rights).
func MemberTransition(old, new []Query) Filter {
	return func(u *tele.Update) bool {
		if u == nil || u.ChatMember == nil {
			return false
		}
		return Is(u.ChatMember.OldChatMember, old...) &&
			Is(u.ChatMember.NewChatMember, new...)
	}
}

// ForScope builds the filter variant matching the given stream.
func ForScope(scope Scope, old, new []Query) Filter {
	if scope == ScopeSelf {
		return SelfTransition(old, new)
	}
	return MemberTransition(old, new)
}
