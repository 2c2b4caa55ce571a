package intel

import "strings"

// roleEntry pairs a known job-title fragment with its communication record.
// Table order is the tie-break when several entries could match, so entries
// must stay in this order.
type roleEntry struct {
	title   string
	profile RoleProfile
}

var roleTable = []roleEntry{
	{
		title: "facilities manager",
		profile: RoleProfile{
			CommunicationStyle: StyleDirect,
			Priorities:         []string{"reliability", "maintenance_reduction", "energy_savings"},
			Concerns:           []string{"downtime", "retrofit_complexity", "warranty"},
			Approach:           "Lead with uptime and maintenance savings; keep recommendations practical and installation-aware.",
		},
	},
	{
		title: "procurement director",
		profile: RoleProfile{
			CommunicationStyle: StyleAnalytical,
			Priorities:         []string{"total_cost_of_ownership", "vendor_reliability", "volume_pricing"},
			Concerns:           []string{"lead_times", "contract_terms", "supplier_stability"},
			Approach:           "Provide line-item pricing, volume tiers, and delivery commitments up front.",
		},
	},
	{
		title: "procurement manager",
		profile: RoleProfile{
			CommunicationStyle: StyleAnalytical,
			Priorities:         []string{"total_cost_of_ownership", "vendor_reliability", "volume_pricing"},
			Concerns:           []string{"lead_times", "contract_terms", "supplier_stability"},
			Approach:           "Provide line-item pricing, volume tiers, and delivery commitments up front.",
		},
	},
	{
		title: "electrical engineer",
		profile: RoleProfile{
			CommunicationStyle: StyleAnalytical,
			Priorities:         []string{"photometrics", "compatibility", "code_compliance"},
			Concerns:           []string{"spec_accuracy", "driver_quality", "thermal_performance"},
			Approach:           "Speak in specifications: lumens, CCT, CRI, wattage, DLC listings, and IES files on request.",
		},
	},
	{
		title: "cfo",
		profile: RoleProfile{
			CommunicationStyle: StyleDirect,
			Priorities:         []string{"roi", "payback_period", "capex_reduction"},
			Concerns:           []string{"upfront_cost", "hidden_fees", "projection_accuracy"},
			Approach:           "Lead with financial returns: payback period, utility rebates, and tax incentives such as 179D.",
		},
	},
	{
		title: "property manager",
		profile: RoleProfile{
			CommunicationStyle: StyleRelationship,
			Priorities:         []string{"tenant_satisfaction", "operating_costs", "property_value"},
			Concerns:           []string{"tenant_disruption", "budget_approval", "aesthetics"},
			Approach:           "Frame upgrades around tenant comfort and NOI improvement; minimize disruption talk.",
		},
	},
	{
		title: "sustainability",
		profile: RoleProfile{
			CommunicationStyle: StyleExpressive,
			Priorities:         []string{"carbon_reduction", "certifications", "reporting"},
			Concerns:           []string{"greenwashing", "measurable_impact", "compliance"},
			Approach:           "Quantify kWh and CO2 reductions and tie products to LEED/ESG reporting goals.",
		},
	},
	{
		title: "architect",
		profile: RoleProfile{
			CommunicationStyle: StyleExpressive,
			Priorities:         []string{"aesthetics", "design_flexibility", "light_quality"},
			Concerns:           []string{"fixture_appearance", "dimming_behavior", "spec_substitutions"},
			Approach:           "Emphasize design intent: finishes, form factors, CCT tuning, and glare control.",
		},
	},
	{
		title: "contractor",
		profile: RoleProfile{
			CommunicationStyle: StyleDirect,
			Priorities:         []string{"availability", "install_speed", "contractor_pricing"},
			Concerns:           []string{"lead_times", "returns", "job_site_support"},
			Approach:           "Get to stock status, contractor pricing, and shipping dates quickly.",
		},
	},
	{
		title: "owner",
		profile: RoleProfile{
			CommunicationStyle: StyleRelationship,
			Priorities:         []string{"value", "simplicity", "trust"},
			Concerns:           []string{"overspending", "complexity", "being_oversold"},
			Approach:           "Keep it simple and honest: one or two clear recommendations with plain-language savings.",
		},
	},
}

// defaultRoleProfile is the documented outcome for titles matching no table
// entry. A miss is expected behavior, not a failure.
var defaultRoleProfile = RoleProfile{
	CommunicationStyle: "professional",
	Priorities:         []string{"value", "quality", "service"},
	Concerns:           []string{"price", "reliability", "support"},
	Approach:           "Balanced approach covering value, product quality, and support.",
}

// ClassifyRole maps a free-text job title to its communication record.
// Matching is case-insensitive and bidirectional: the title may contain the
// table entry or the table entry may contain the title. First match wins.
func ClassifyRole(title string) RoleProfile {
	t := strings.ToLower(strings.TrimSpace(title))
	if t == "" {
		return defaultRoleProfile
	}
	for _, e := range roleTable {
		if strings.Contains(t, e.title) || strings.Contains(e.title, t) {
			return e.profile
		}
	}
	return defaultRoleProfile
}
