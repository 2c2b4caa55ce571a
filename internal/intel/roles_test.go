package intel

import (
	"reflect"
	"strings"
	"testing"
)

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

func TestClassifyRole_KnownTitles(t *testing.T) {
	t.Parallel()

	cases := []struct {
		title     string
		wantStyle string
	}{
		{"Facilities Manager", StyleDirect},
		{"Senior Facilities Manager, West Region", StyleDirect},
		{"facilities", StyleDirect}, // title contained in table entry
		{"Procurement Director", StyleAnalytical},
		{"Electrical Engineer", StyleAnalytical},
		{"CFO", StyleDirect},
		{"Property Manager", StyleRelationship},
		{"Director of Sustainability", StyleExpressive},
		{"General Contractor", StyleDirect},
	}
	for _, tc := range cases {
		got := ClassifyRole(tc.title)
		if got.CommunicationStyle != tc.wantStyle {
			t.Fatalf("ClassifyRole(%q).CommunicationStyle=%q want %q", tc.title, got.CommunicationStyle, tc.wantStyle)
		}
		if len(got.Priorities) == 0 || len(got.Concerns) == 0 || got.Approach == "" {
			t.Fatalf("ClassifyRole(%q) returned incomplete record: %+v", tc.title, got)
		}
	}
}

func TestClassifyRole_MissReturnsDefault(t *testing.T) {
	t.Parallel()

	for _, title := range []string{"unknown title xyz", "", "   "} {
		got := ClassifyRole(title)
		if !reflect.DeepEqual(got, defaultRoleProfile) {
			t.Fatalf("ClassifyRole(%q)=%+v want default record", title, got)
		}
	}
}

func TestClassifyRole_CFOApproachMentionsFinancials(t *testing.T) {
	t.Parallel()

	got := ClassifyRole("CFO")
	for _, want := range []string{"payback", "rebates", "tax"} {
		if !containsFold(got.Approach, want) {
			t.Fatalf("CFO approach %q missing %q", got.Approach, want)
		}
	}
}

func TestClassifyRole_Deterministic(t *testing.T) {
	t.Parallel()

	a := ClassifyRole("Facilities Manager")
	b := ClassifyRole("Facilities Manager")
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("ClassifyRole is not deterministic: %+v vs %+v", a, b)
	}
}

func TestClassifyRole_TableOrderTieBreak(t *testing.T) {
	t.Parallel()

	// Matches both "procurement director" and "procurement manager";
	// the earlier table entry must win.
	got := ClassifyRole("procurement director and manager")
	want := roleTable[1].profile
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("tie-break broke table order: got %+v", got)
	}
}
