package membership

import tele "gopkg.in/telebot.v4"

// Privilege is a named boolean administrative capability.
type Privilege string

const (
	CanManageChat       Privilege = "can_manage_chat"
	CanChangeInfo       Privilege = "can_change_info"
	CanPostMessages     Privilege = "can_post_messages"
	CanEditMessages     Privilege = "can_edit_messages"
	CanDeleteMessages   Privilege = "can_delete_messages"
	CanInviteUsers      Privilege = "can_invite_users"
	CanRestrictMembers  Privilege = "can_restrict_members"
	CanPinMessages      Privilege = "can_pin_messages"
	CanPromoteMembers   Privilege = "can_promote_members"
	CanManageVideoChats Privilege = "can_manage_video_chats"
	CanManageTopics     Privilege = "can_manage_topics"
	CanSendMessages     Privilege = "can_send_messages"
	CanSendPolls        Privilege = "can_send_polls"
	CanSendOther        Privilege = "can_send_other"
	CanAddPreviews      Privilege = "can_add_web_page_previews"

	// CustomTitle and Anonymity are not boolean capabilities but take part
	// in change detection alongside them.
	CustomTitle Privilege = "custom_title"
	Anonymity   Privilege = "is_anonymous"
)

// privilegeAccessors fixes the declaration order of capabilities and binds
// each name to its field on tele.Rights, avoiding reflection.
var privilegeAccessors = [...]struct {
	name Privilege
	get  func(tele.Rights) bool
}{
	{CanManageChat, func(r tele.Rights) bool { return r.CanManageChat }},
	{CanChangeInfo, func(r tele.Rights) bool { return r.CanChangeInfo }},
	{CanPostMessages, func(r tele.Rights) bool { return r.CanPostMessages }},
	{CanEditMessages, func(r tele.Rights) bool { return r.CanEditMessages }},
	{CanDeleteMessages, func(r tele.Rights) bool { return r.CanDeleteMessages }},
	{CanInviteUsers, func(r tele.Rights) bool { return r.CanInviteUsers }},
	{CanRestrictMembers, func(r tele.Rights) bool { return r.CanRestrictMembers }},
	{CanPinMessages, func(r tele.Rights) bool { return r.CanPinMessages }},
	{CanPromoteMembers, func(r tele.Rights) bool { return r.CanPromoteMembers }},
	{CanManageVideoChats, func(r tele.Rights) bool { return r.CanManageVideoChats }},
	{CanManageTopics, func(r tele.Rights) bool { return r.CanManageTopics }},
	{CanSendMessages, func(r tele.Rights) bool { return r.CanSendMessages }},
	{CanSendPolls, func(r tele.Rights) bool { return r.CanSendPolls }},
	{CanSendOther, func(r tele.Rights) bool { return r.CanSendOther }},
	{CanAddPreviews, func(r tele.Rights) bool { return r.CanAddPreviews }},
}

// AllPrivileges returns the boolean capabilities in declaration order.
func AllPrivileges() []Privilege {
	out := make([]Privilege, 0, len(privilegeAccessors))
	for _, acc := range privilegeAccessors {
		out = append(out, acc.name)
	}
	return out
}

// Valid reports whether the name belongs to the closed privilege set.
func (p Privilege) Valid() bool {
	if p == CustomTitle || p == Anonymity {
		return true
	}
	for _, acc := range privilegeAccessors {
		if acc.name == p {
			return true
		}
	}
	return false
}

// PrivilegeSet is the fully resolved capability set of a chat member.
// Every capability name is present in Flags.
type PrivilegeSet struct {
	Flags     map[Privilege]bool
	Title     string
	Anonymous bool
}

// Privileges resolves the effective capability set of a member snapshot.
// The creator holds every capability; an administrator holds exactly the
// flags granted on the snapshot; everyone else holds none, with no custom
// title and no anonymity. A nil member resolves like a non-admin.
func Privileges(m *tele.ChatMember) PrivilegeSet {
	set := PrivilegeSet{Flags: make(map[Privilege]bool, len(privilegeAccessors))}
	if m == nil {
		for _, acc := range privilegeAccessors {
			set.Flags[acc.name] = false
		}
		return set
	}
	switch Status(m.Role) {
	case Creator:
		for _, acc := range privilegeAccessors {
			set.Flags[acc.name] = true
		}
		set.Title = m.Title
		set.Anonymous = m.Rights.Anonymous
	case Administrator:
		for _, acc := range privilegeAccessors {
			set.Flags[acc.name] = acc.get(m.Rights)
		}
		set.Title = m.Title
		set.Anonymous = m.Rights.Anonymous
	default:
		for _, acc := range privilegeAccessors {
			set.Flags[acc.name] = false
		}
	}
	return set
}

// Changed returns every privilege name whose resolved value differs between
// the two snapshots, capabilities first in declaration order, then custom
// title, then anonymity.
func Changed(old, new *tele.ChatMember) []Privilege {
	before := Privileges(old)
	after := Privileges(new)
	var out []Privilege
	for _, acc := range privilegeAccessors {
		if before.Flags[acc.name] != after.Flags[acc.name] {
			out = append(out, acc.name)
		}
	}
	if before.Title != after.Title {
		out = append(out, CustomTitle)
	}
	if before.Anonymous != after.Anonymous {
		out = append(out, Anonymity)
	}
	return out
}

// Missing returns the subsequence of required whose resolved privilege is
// not held, preserving input order. CustomTitle is held when the resolved
// title is non-empty and Anonymity when the member is anonymous.
func Missing(m *tele.ChatMember, required ...Privilege) []Privilege {
	set := Privileges(m)
	var out []Privilege
	for _, p := range required {
		if !set.Has(p) {
			out = append(out, p)
		}
	}
	return out
}

// Has reports whether the resolved set holds the named privilege.
func (s PrivilegeSet) Has(p Privilege) bool {
	switch p {
	case CustomTitle:
		return s.Title != ""
	case Anonymity:
		return s.Anonymous
	default:
		return s.Flags[p]
	}
}

// HasAll reports whether the member holds every required privilege.
func HasAll(m *tele.ChatMember, required ...Privilege) bool {
	return len(Missing(m, required...)) == 0
}
