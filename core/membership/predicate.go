package membership

import tele "gopkg.in/telebot.v4"

// Matches reports whether the status belongs to the set denoted by the queries.
func Matches(s Status, queries ...Query) bool {
	for _, q := range queries {
		for _, resolved := range queryStatuses[q] {
			if resolved == s {
				return true
			}
		}
	}
	return false
}

// Is reports whether the member's current status belongs to the set denoted
// by the queries. A nil member never matches.
func Is(m *tele.ChatMember, queries ...Query) bool {
	if m == nil {
		return false
	}
	return Matches(Status(m.Role), queries...)
}

// IsIn reports whether the member is currently inside the chat.
func IsIn(m *tele.ChatMember) bool { return Is(m, In) }

// IsOut reports whether the member is currently outside the chat.
func IsOut(m *tele.ChatMember) bool { return Is(m, Out) }

// IsFree reports whether the member is inside the chat and unrestricted.
func IsFree(m *tele.ChatMember) bool { return Is(m, Free) }

// IsAdmin reports whether the member is an administrator or the creator.
func IsAdmin(m *tele.ChatMember) bool { return Is(m, Admin) }

// IsRegular reports whether the member is a non-admin participant.
func IsRegular(m *tele.ChatMember) bool { return Is(m, Regular) }
