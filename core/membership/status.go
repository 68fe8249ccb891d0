package membership

// Status is one of the six membership states a chat member can be in.
// Values mirror the Telegram Bot API member statuses carried by
// tele.ChatMember.Role.
type Status string

const (
	Creator       Status = "creator"
	Administrator Status = "administrator"
	Member        Status = "member"
	Restricted    Status = "restricted"
	Left          Status = "left"
	Kicked        Status = "kicked"
)

// Query names either a concrete status or a named status group. A group
// query expands to a fixed set of statuses; a status query expands to itself.
type Query string

const (
	// In matches everyone currently inside the chat, including restricted members.
	In Query = "in"
	// Out matches everyone currently outside the chat.
	Out Query = "out"
	// Free matches members inside the chat without restrictions.
	Free Query = "free"
	// Admin matches administrators and the chat creator.
	Admin Query = "admin"
	// Regular matches non-admin members, restricted or not.
	Regular Query = "regular"
)

// statusOrder fixes the canonical order of resolved sets.
var statusOrder = [...]Status{Creator, Administrator, Member, Restricted, Left, Kicked}

// queryStatuses maps every valid query token to its resolved statuses.
// Invariants: in/out partition the status set, free and regular cover in
// and overlap exactly at member, admin is a subset of free.
var queryStatuses = map[Query][]Status{
	Admin:   {Administrator, Creator},
	Free:    {Administrator, Creator, Member},
	In:      {Administrator, Creator, Member, Restricted},
	Out:     {Kicked, Left},
	Regular: {Member, Restricted},

	Query(Creator):       {Creator},
	Query(Administrator): {Administrator},
	Query(Member):        {Member},
	Query(Restricted):    {Restricted},
	Query(Left):          {Left},
	Query(Kicked):        {Kicked},
}

// Valid reports whether the token belongs to the closed query set.
func (q Query) Valid() bool {
	_, ok := queryStatuses[q]
	return ok
}

// Valid reports whether the value is one of the six concrete statuses.
func (s Status) Valid() bool {
	for _, known := range statusOrder {
		if s == known {
			return true
		}
	}
	return false
}

// Normalize expands the given queries into the flat, duplicate-free set of
// concrete statuses they denote, in canonical status order. Tokens outside
// the closed query set denote nothing; reject them up front via Valid.
func Normalize(queries ...Query) []Status {
	seen := make(map[Status]struct{}, len(statusOrder))
	for _, q := range queries {
		for _, s := range queryStatuses[q] {
			seen[s] = struct{}{}
		}
	}
	resolved := make([]Status, 0, len(seen))
	for _, s := range statusOrder {
		if _, ok := seen[s]; ok {
			resolved = append(resolved, s)
		}
	}
	return resolved
}
