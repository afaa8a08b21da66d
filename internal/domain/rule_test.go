package domain

import "testing"

func matchFixture() OrderMatchInput {
	return OrderMatchInput{
		Order: &Order{
			Description:          "Monthly support for open tools",
			TotalAmount:          5000,
			Currency:             "USD",
			Interval:             IntervalMonth,
			PaymentMethodService: "Stripe",
		},
		ToCollective:   &Collective{Slug: "open-tools", Type: TypeCollective},
		FromCollective: &Collective{Slug: "acme-corp", Type: TypeOrganization},
		Tier:           &Tier{Type: TierMembership},
	}
}

func TestPredicateMatches(t *testing.T) {
	in := matchFixture()

	tests := []struct {
		name string
		p    Predicate
		want bool
	}{
		{"description contains", Predicate{Subject: SubjectDescription, Operator: OpContains, Value: "open tools"}, true},
		{"description no match", Predicate{Subject: SubjectDescription, Operator: OpContains, Value: "merchandise"}, false},
		{"amount eq", Predicate{Subject: SubjectAmount, Operator: OpEq, Value: "5000"}, true},
		{"amount gte boundary", Predicate{Subject: SubjectAmount, Operator: OpGte, Value: "5000"}, true},
		{"amount gte above", Predicate{Subject: SubjectAmount, Operator: OpGte, Value: "5001"}, false},
		{"amount lte", Predicate{Subject: SubjectAmount, Operator: OpLte, Value: "5000"}, true},
		{"amount malformed operand", Predicate{Subject: SubjectAmount, Operator: OpEq, Value: "fifty"}, false},
		{"currency eq", Predicate{Subject: SubjectCurrency, Operator: OpEq, Value: "USD"}, true},
		{"currency mismatch", Predicate{Subject: SubjectCurrency, Operator: OpEq, Value: "EUR"}, false},
		{"frequency eq", Predicate{Subject: SubjectFrequency, Operator: OpEq, Value: "MONTHLY"}, true},
		{"frequency in", Predicate{Subject: SubjectFrequency, Operator: OpIn, Values: []string{"YEARLY", "MONTHLY"}}, true},
		{"frequency no match", Predicate{Subject: SubjectFrequency, Operator: OpEq, Value: "ONETIME"}, false},
		{"to account", Predicate{Subject: SubjectToAccount, Operator: OpEq, Value: "open-tools"}, true},
		{"to account in", Predicate{Subject: SubjectToAccount, Operator: OpIn, Values: []string{"other", "open-tools"}}, true},
		{"to account type", Predicate{Subject: SubjectToAccountType, Operator: OpEq, Value: "COLLECTIVE"}, true},
		{"from account type", Predicate{Subject: SubjectFromAccountType, Operator: OpEq, Value: "ORGANIZATION"}, true},
		{"from account type mismatch", Predicate{Subject: SubjectFromAccountType, Operator: OpEq, Value: "INDIVIDUAL"}, false},
		{"tier type", Predicate{Subject: SubjectTierType, Operator: OpIn, Values: []string{"MEMBERSHIP"}}, true},
		{"payment processor case-insensitive", Predicate{Subject: SubjectPaymentProcessor, Operator: OpEq, Value: "stripe"}, true},
		{"unknown subject never matches", Predicate{Subject: "totalDonations", Operator: OpEq, Value: "1"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.p.Matches(in); got != tt.want {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestPredicateMatches_MissingRelatedRecords(t *testing.T) {
	in := matchFixture()
	in.Tier = nil
	in.FromCollective = nil

	if (Predicate{Subject: SubjectTierType, Operator: OpEq, Value: "MEMBERSHIP"}).Matches(in) {
		t.Fatal("tier predicate must not match an order without a tier")
	}
	if (Predicate{Subject: SubjectFromAccountType, Operator: OpEq, Value: "ORGANIZATION"}).Matches(in) {
		t.Fatal("from-account predicate must not match without the account")
	}
}

func TestFirstMatchingRule(t *testing.T) {
	in := matchFixture()

	rules := []*CategoryRule{
		{
			ID: "rule-1",
			Predicates: []Predicate{
				{Subject: SubjectCurrency, Operator: OpEq, Value: "USD"},
				{Subject: SubjectAmount, Operator: OpGte, Value: "100000"},
			},
		},
		{
			ID: "rule-2",
			Predicates: []Predicate{
				{Subject: SubjectCurrency, Operator: OpEq, Value: "USD"},
			},
		},
		{
			ID: "rule-3",
			Predicates: []Predicate{
				{Subject: SubjectDescription, Operator: OpContains, Value: "support"},
			},
		},
	}

	// rule-1 half-matches and must not fire; rule-2 is the first full
	// match even though rule-3 also matches.
	got := FirstMatchingRule(rules, in)
	if got == nil || got.ID != "rule-2" {
		t.Fatalf("expected rule-2, got %+v", got)
	}

	if FirstMatchingRule(nil, in) != nil {
		t.Fatal("no rules means no match")
	}
}

func TestOperatorAllowed(t *testing.T) {
	if !OperatorAllowed(SubjectAmount, OpGte) {
		t.Fatal("gte must be allowed on amount")
	}
	if OperatorAllowed(SubjectAmount, OpContains) {
		t.Fatal("contains must not be allowed on amount")
	}
	if OperatorAllowed(SubjectDescription, OpEq) {
		t.Fatal("eq must not be allowed on description")
	}
	if AllowedOperators("bogus") != nil {
		t.Fatal("unknown subject must have no operators")
	}
}
