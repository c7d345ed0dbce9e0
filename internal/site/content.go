// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package site

// Stat is a headline figure on the home page.
type Stat struct {
	Label string
	Value string
}

// Value is one of the foundation's core values.
type Value struct {
	Title       string
	Description string
	Icon        string
}

// Step is one stage of the selection process.
type Step struct {
	Number      int
	Title       string
	Description string
}

// GrantTier describes a grant level.
type GrantTier struct {
	Name        string
	Amount      string
	Description string
	Features    []string
}

// Principle is a transparency commitment.
type Principle struct {
	Title       string
	Description string
}

// FAQ is a frequently asked question.
type FAQ struct {
	Question string
	Answer   string
}

var Stats = []Stat{
	{Label: "Countries Eligible", Value: "195+"},
	{Label: "Prize Range", Value: "$500K-$5M"},
	{Label: "Annual Recipients", Value: "12-20"},
	{Label: "Award Cycles", Value: "Quarterly"},
}

var Values = []Value{
	{Title: "Integrity", Icon: "shield", Description: "Every decision we make is guided by unwavering ethical standards and complete transparency."},
	{Title: "Fairness", Icon: "scale", Description: "Our random selection process ensures equal opportunity for all eligible individuals worldwide."},
	{Title: "Impact", Icon: "globe", Description: "We measure success not by dollars distributed, but by lives transformed and communities strengthened."},
	{Title: "Dignity", Icon: "heart", Description: "We believe in empowering individuals while preserving their dignity and autonomy."},
}

var ProcessSteps = []Step{
	{Number: 1, Title: "Global Eligibility Pool", Description: "All individuals worldwide aged 18 and above are automatically part of our eligibility pool. No registration, no applications, no forms to fill."},
	{Number: 2, Title: "Random Selection Engine", Description: "Our proprietary algorithm selects recipients using cryptographically secure randomization, ensuring zero human influence or bias."},
	{Number: 3, Title: "Verification & Outreach", Description: "Selected individuals are contacted through verified channels. We conduct due diligence to confirm identity and eligibility."},
	{Number: 4, Title: "Secure Fund Transfer", Description: "Grants are disbursed through secure banking channels with full documentation and compliance with international regulations."},
}

var GrantTiers = []GrantTier{
	{
		Name: "Foundation Grant", Amount: "$500,000",
		Description: "Supporting individual empowerment and small business development",
		Features:    []string{"Personal financial stability", "Education funding", "Healthcare access", "Small business capital"},
	},
	{
		Name: "Impact Grant", Amount: "$1,000,000 - $2,500,000",
		Description: "Enabling community-level transformation and sustainable enterprises",
		Features:    []string{"Community projects", "Social enterprises", "Regional development", "Employment creation"},
	},
	{
		Name: "Legacy Grant", Amount: "$2,500,000 - $5,000,000",
		Description: "Catalyzing generational change and large-scale initiatives",
		Features:    []string{"Institutional development", "Multi-year projects", "Infrastructure investment", "Systemic change initiatives"},
	},
}

var TransparencyPrinciples = []Principle{
	{Title: "Zero Influence Policy", Description: "No individual, organization, or entity can influence the selection process."},
	{Title: "Independent Oversight", Description: "Our selection algorithms and disbursement processes are subject to regular independent audits by certified third-party organizations."},
	{Title: "Public Accountability", Description: "We publish quarterly reports detailing our activities, disbursements, and operational metrics."},
	{Title: "Anti-Fraud Commitment", Description: "We maintain rigorous protocols to prevent fraud, including identity verification and clear guidelines on official foundation contact methods."},
}

var FAQs = []FAQ{
	{Question: "How can I apply for a grant?", Answer: "The foundation does not accept applications. Recipients are selected through our random selection engine."},
	{Question: "Who is eligible to receive a grant?", Answer: "Any individual worldwide who is 18 years of age or older is eligible."},
	{Question: "How are recipients selected?", Answer: "Recipients are chosen through a secure, cryptographically random selection process."},
	{Question: "How will I know if I've been selected?", Answer: "Selected recipients are contacted directly through verified channels. The foundation will never ask for money, fees, or sensitive financial information."},
	{Question: "How often are grants awarded?", Answer: "Grants are awarded quarterly, with 3-5 recipients selected each cycle."},
	{Question: "What can grant funds be used for?", Answer: "Recipients have full autonomy over how they use their grants."},
}
