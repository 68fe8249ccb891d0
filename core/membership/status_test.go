package membership

import "testing"

func statusSetEqual(a, b []Status) bool {
	if len(a) != len(b) {
		return false
	}
	seen := make(map[Status]struct{}, len(a))
	for _, s := range a {
		seen[s] = struct{}{}
	}
	for _, s := range b {
		if _, ok := seen[s]; !ok {
			return false
		}
	}
	return true
}

func TestNormalizeIdentity(t *testing.T) {
	for _, s := range statusOrder {
		got := Normalize(Query(s))
		if len(got) != 1 || got[0] != s {
			t.Fatalf("Normalize(%q) = %v, expected {%s}", s, got, s)
		}
	}
}

func TestNormalizeGroups(t *testing.T) {
	cases := []struct {
		query Query
		want  []Status
	}{
		{Admin, []Status{Administrator, Creator}},
		{Free, []Status{Administrator, Creator, Member}},
		{In, []Status{Administrator, Creator, Member, Restricted}},
		{Out, []Status{Kicked, Left}},
		{Regular, []Status{Member, Restricted}},
	}
	for _, tc := range cases {
		got := Normalize(tc.query)
		if !statusSetEqual(got, tc.want) {
			t.Fatalf("Normalize(%q) = %v, expected %v", tc.query, got, tc.want)
		}
	}
}

func TestNormalizeUnion(t *testing.T) {
	all := make([]Query, 0, len(queryStatuses))
	for q := range queryStatuses {
		all = append(all, q)
	}
	for _, a := range all {
		for _, b := range all {
			union := make(map[Status]struct{})
			for _, s := range Normalize(a) {
				union[s] = struct{}{}
			}
			for _, s := range Normalize(b) {
				union[s] = struct{}{}
			}
			got := Normalize(a, b)
			if len(got) != len(union) {
				t.Fatalf("Normalize(%q, %q) = %v, expected union of the parts", a, b, got)
			}
			for _, s := range got {
				if _, ok := union[s]; !ok {
					t.Fatalf("Normalize(%q, %q) contains unexpected %q", a, b, s)
				}
			}
		}
	}
}

func TestNormalizeDuplicatesCollapse(t *testing.T) {
	got := Normalize(Admin, Admin, Query(Creator), Admin)
	want := []Status{Creator, Administrator}
	if !statusSetEqual(got, want) {
		t.Fatalf("Normalize with duplicates = %v, expected %v", got, want)
	}
	seen := make(map[Status]int)
	for _, s := range got {
		seen[s]++
	}
	for s, n := range seen {
		if n != 1 {
			t.Fatalf("status %q resolved %d times, expected once", s, n)
		}
	}
}

func TestNormalizeUnknownTokenIsEmpty(t *testing.T) {
	if got := Normalize(Query("banned")); len(got) != 0 {
		t.Fatalf("Normalize of unknown token = %v, expected empty", got)
	}
	if Query("banned").Valid() {
		t.Fatal("unknown token reported as valid")
	}
	if !Admin.Valid() || !Query(Kicked).Valid() {
		t.Fatal("known tokens reported as invalid")
	}
}

func TestGroupInvariants(t *testing.T) {
	// in and out partition the status set.
	in := Normalize(In)
	out := Normalize(Out)
	if len(in)+len(out) != len(statusOrder) {
		t.Fatalf("in (%d) + out (%d) do not cover all %d statuses", len(in), len(out), len(statusOrder))
	}
	// free and regular cover in and overlap exactly at member.
	if !statusSetEqual(Normalize(Free, Regular), in) {
		t.Fatal("free ∪ regular != in")
	}
	for _, s := range Normalize(Free) {
		if Matches(s, Regular) && s != Member {
			t.Fatalf("status %q is both free and regular", s)
		}
	}
	if !Matches(Member, Free) || !Matches(Member, Regular) {
		t.Fatal("member must belong to both free and regular")
	}
	// admin is a subset of free.
	for _, s := range Normalize(Admin) {
		if !Matches(s, Free) {
			t.Fatalf("admin status %q not within free", s)
		}
	}
}
