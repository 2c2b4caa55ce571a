package intel

// SelectStrategy combines a client profile and optional company intelligence
// into a sales communication strategy. Pure and deterministic.
//
// Branch order is a contract: communication style first, then company size,
// then price sensitivity. The price-sensitivity branch prepends onto
// priorities produced by the size branch, so reordering changes output.
func SelectStrategy(profile *ClientProfile, company *CompanyIntelligence) Strategy {
	s := Strategy{
		Tone:       "professional",
		Approach:   "consultative",
		Priorities: []string{},
		Tactics:    []string{},
	}
	if profile == nil {
		profile = &ClientProfile{}
	}

	switch profile.CommunicationStyle {
	case StyleDirect:
		s.Tone = "direct"
		s.Approach = "solution-focused"
		s.Tactics = append(s.Tactics, "cut_to_the_chase", "bottom_line_first")
	case StyleAnalytical:
		s.Tone = "detailed"
		s.Approach = "data-driven"
		s.Tactics = append(s.Tactics, "provide_specs", "roi_calculations", "case_studies")
	case StyleExpressive:
		s.Tone = "enthusiastic"
		s.Approach = "visionary"
		s.Tactics = append(s.Tactics, "paint_the_picture", "success_stories")
	case StyleRelationship:
		s.Tone = "warm"
		s.Approach = "partnership-focused"
		s.Tactics = append(s.Tactics, "build_rapport", "long_term_value")
	}

	size := profile.CompanySize
	if company != nil && company.Size != "" {
		size = company.Size
	}
	switch size {
	case SizeEnterprise, SizeFortune500:
		s.Priorities = append(s.Priorities, "scalability", "enterprise_support", "volume_pricing")
		s.Tactics = append(s.Tactics, "enterprise_solutions", "dedicated_support")
	case SizeStartup:
		s.Priorities = append(s.Priorities, "cost_efficiency", "flexibility", "growth_support")
		s.Tactics = append(s.Tactics, "startup_friendly_terms", "future_expansion")
	default:
		s.Priorities = append(s.Priorities, "value", "reliability", "service")
		s.Tactics = append(s.Tactics, "balanced_approach")
	}

	if profile.PriceSensitivity == "high" {
		s.Priorities = append([]string{"cost_savings", "roi", "rebates"}, s.Priorities...)
		s.Tactics = append(s.Tactics, "emphasize_savings", "rebate_calculator")
	}

	return s
}
