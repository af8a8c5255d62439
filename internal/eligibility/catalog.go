package eligibility

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"employercheck/internal/model"
)

// Question IDs. Answer keys live in the model package; the three ask-mode
// amount variants share model.KeyPaidAmountRange.
const (
	QuestionJurisdiction       = "jurisdiction"
	QuestionCategory           = "employment_category"
	QuestionEntityType         = "entity_type"
	QuestionLLCSingle          = "llc_single_tax_election"
	QuestionLLCMulti           = "llc_multi_tax_election"
	QuestionPaidOutsidePayroll = "paid_outside_payroll"
	QuestionWhoWasPaid         = "who_was_paid"
	QuestionSameCourse         = "same_course_of_business"
	QuestionAmountTimeframe    = "paid_amount_timeframe"
	QuestionAmountFixed        = "paid_amount_range"
	QuestionAmountQuarter      = "paid_amount_range_quarter"
	QuestionAmountYear         = "paid_amount_range_year"
	QuestionAmountUnsurePeriod = "paid_amount_range_unsure"
	QuestionPaymentFrequency   = "payment_frequency"
	QuestionHiringIntent       = "hiring_intent"
	QuestionLeadCapture        = "lead_email"
)

// Entity structures. The two LLC values are the ambiguous ones that need a
// tax-election follow-up.
const (
	EntitySoleProp        = "sole_prop"
	EntitySingleMemberLLC = "single_member_llc"
	EntityMultiMemberLLC  = "multi_member_llc"
	EntityPartnership     = "partnership"
	EntitySCorp           = "s_corp"
	EntityCCorp           = "c_corp"
	EntityNonprofitCorp   = "nonprofit_corp"
)

var printer = message.NewPrinter(language.English)

var yesNoUnsure = []model.Option{
	{Value: model.ValueYes, Label: "Yes"},
	{Value: model.ValueNo, Label: "No"},
	{Value: model.ValueNotSure, Label: "Not sure"},
}

// activityPredicate gates every follow-up about people paid outside payroll
func activityPredicate() *model.VisibilityPredicate {
	return &model.VisibilityPredicate{Any: activityConditions()}
}

func activityConditions() []model.Condition {
	return []model.Condition{
		{Key: model.KeyPaidOutsidePayroll, Equals: model.ValueYes},
		{Key: model.KeyPaidOutsidePayroll, Equals: model.ValueNotSure},
	}
}

// entityConditions are the categories where a business entity structure applies
func entityConditions() []model.Condition {
	return []model.Condition{
		{Key: model.KeyEmploymentCategory, Equals: string(model.CategoryGeneral)},
		{Key: model.KeyEmploymentCategory, Equals: string(model.CategoryAgricultural)},
		{Key: model.KeyEmploymentCategory, Equals: string(model.CategoryNonprofit)},
	}
}

// BaseCatalog returns the static questions that open and close every interview
func BaseCatalog() []model.Question {
	return []model.Question{jurisdictionQuestion(), leadCaptureQuestion()}
}

// Catalog assembles the full ordered question list for a set of hints
func Catalog(h model.ConfigHints) []model.Question {
	base := BaseCatalog()
	out := make([]model.Question, 0, len(base)+16)
	out = append(out, base[0])
	out = append(out, GenerateQuestions(h)...)
	out = append(out, base[1:]...)
	return out
}

// GenerateQuestions builds the jurisdiction-conditioned questions from hints.
// who_was_paid always precedes the amount questions so the respondent's
// tally includes family, owners and platform payees.
func GenerateQuestions(h model.ConfigHints) []model.Question {
	qs := []model.Question{
		categoryQuestion(),
		{
			ID:        QuestionEntityType,
			Kind:      model.KindSingleSelect,
			AnswerKey: model.KeyEntityType,
			Prompt:    "How is the business set up?",
			Options: []model.Option{
				{Value: EntitySoleProp, Label: "Sole proprietor"},
				{Value: EntitySingleMemberLLC, Label: "Single-owner LLC"},
				{Value: EntityMultiMemberLLC, Label: "Multi-owner LLC"},
				{Value: EntityPartnership, Label: "Partnership"},
				{Value: EntitySCorp, Label: "S corporation"},
				{Value: EntityCCorp, Label: "C corporation"},
				{Value: EntityNonprofitCorp, Label: "Nonprofit corporation"},
				{Value: model.ValueNotSure, Label: "Not sure"},
			},
			VisibleIf: &model.VisibilityPredicate{Any: entityConditions()},
		},
		{
			ID:        QuestionLLCSingle,
			Kind:      model.KindSingleSelect,
			AnswerKey: model.KeyLLCSingleTaxElection,
			Prompt:    "How is your single-owner LLC taxed?",
			Help:      "Check the last federal return you filed for the business.",
			Options: []model.Option{
				{Value: "disregarded", Label: "On my personal return (disregarded entity)"},
				{Value: EntitySCorp, Label: "As an S corporation"},
				{Value: EntityCCorp, Label: "As a C corporation"},
				{Value: model.ValueNotSure, Label: "Not sure"},
			},
			VisibleIf: &model.VisibilityPredicate{
				All: []model.Condition{{Key: model.KeyEntityType, Equals: EntitySingleMemberLLC}},
				Any: entityConditions(),
			},
		},
		{
			ID:        QuestionLLCMulti,
			Kind:      model.KindSingleSelect,
			AnswerKey: model.KeyLLCMultiTaxElection,
			Prompt:    "How is your multi-owner LLC taxed?",
			Options: []model.Option{
				{Value: EntityPartnership, Label: "As a partnership"},
				{Value: EntitySCorp, Label: "As an S corporation"},
				{Value: EntityCCorp, Label: "As a C corporation"},
				{Value: model.ValueNotSure, Label: "Not sure"},
			},
			VisibleIf: &model.VisibilityPredicate{
				All: []model.Condition{{Key: model.KeyEntityType, Equals: EntityMultiMemberLLC}},
				Any: entityConditions(),
			},
		},
		{
			ID:        QuestionPaidOutsidePayroll,
			Kind:      model.KindSingleSelect,
			AnswerKey: model.KeyPaidOutsidePayroll,
			Prompt:    "Have you paid anyone for work outside of a payroll system?",
			Help:      "Include cash, checks, payment apps and payments through platforms.",
			Required:  true,
			Options:   yesNoUnsure,
		},
		{
			ID:        QuestionWhoWasPaid,
			Kind:      model.KindMultiSelect,
			AnswerKey: model.KeyWhoWasPaid,
			Prompt:    "Who did you pay? Select all that apply.",
			Options: []model.Option{
				{Value: model.WhoPaidContractor, Label: "Independent contractors or freelancers"},
				{Value: model.WhoPaidFamily, Label: "Family members"},
				{Value: model.WhoPaidFriend, Label: "Friends"},
				{Value: model.WhoPaidOwnerMember, Label: "Owners, partners or LLC members"},
				{Value: model.WhoPaidGigPlatform, Label: "Workers found through a gig platform"},
				{Value: model.WhoPaidOther, Label: "Someone else"},
			},
			VisibleIf: activityPredicate(),
		},
		{
			ID:        QuestionSameCourse,
			Kind:      model.KindSingleSelect,
			AnswerKey: model.KeySameCourseOfBusiness,
			Prompt:    "Was that work part of what your business sells?",
			Help:      "For example, a bakery paying someone to bake, not to fix the website.",
			Options:   yesNoUnsure,
			VisibleIf: activityPredicate(),
		},
	}

	qs = append(qs, amountQuestions(h)...)

	if h.NeedsWeeksQuestion {
		qs = append(qs, model.Question{
			ID:        QuestionPaymentFrequency,
			Kind:      model.KindRange,
			AnswerKey: model.KeyPaymentFrequency,
			Prompt:    "In how many different weeks did someone do paid work for you this year or last year?",
			Help:      "Count a week if anyone worked for pay on at least one day of it.",
			Axis:      model.AxisWeeks,
			Buckets:   RangeBuckets(model.AxisWeeks),
			VisibleIf: activityPredicate(),
		})
	}

	qs = append(qs, model.Question{
		ID:        QuestionHiringIntent,
		Kind:      model.KindSingleSelect,
		AnswerKey: model.KeyHiringIntent,
		Prompt:    "Do you expect to hire someone in the next 12 months?",
		Options:   yesNoUnsure,
	})

	return qs
}

func amountQuestions(h model.ConfigHints) []model.Question {
	if h.AmountTimeframeMode == model.TimeframeFixed && h.FixedAmountTimeframe != nil {
		period := *h.FixedAmountTimeframe
		return []model.Question{amountQuestion(QuestionAmountFixed, period, activityPredicate())}
	}

	quarter, year := model.PeriodQuarter, model.PeriodYear
	variant := func(timeframe string) *model.VisibilityPredicate {
		return &model.VisibilityPredicate{
			All: []model.Condition{{Key: model.KeyPaidAmountTimeframe, Equals: timeframe}},
			Any: activityConditions(),
		}
	}

	return []model.Question{
		{
			ID:        QuestionAmountTimeframe,
			Kind:      model.KindSingleSelect,
			AnswerKey: model.KeyPaidAmountTimeframe,
			Prompt:    "Is it easier to think about what you paid per quarter or per year?",
			Options: []model.Option{
				{Value: string(quarter), Label: "Per calendar quarter"},
				{Value: string(year), Label: "Per calendar year"},
				{Value: model.ValueNotSure, Label: "Not sure"},
			},
			VisibleIf: activityPredicate(),
		},
		amountQuestion(QuestionAmountQuarter, quarter, variant(string(quarter))),
		amountQuestion(QuestionAmountYear, year, variant(string(year))),
		amountQuestion(QuestionAmountUnsurePeriod, "", variant(model.ValueNotSure)),
	}
}

func amountQuestion(id string, period model.Period, visible *model.VisibilityPredicate) model.Question {
	q := model.Question{
		ID:        id,
		Kind:      model.KindRange,
		AnswerKey: model.KeyPaidAmountRange,
		Axis:      model.AxisAmount,
		Buckets:   RangeBuckets(model.AxisAmount),
		VisibleIf: visible,
	}
	switch period {
	case model.PeriodQuarter:
		q.Prompt = "About how much did you pay people outside payroll in your busiest calendar quarter?"
	case model.PeriodYear:
		q.Prompt = "About how much did you pay people outside payroll in your busiest calendar year?"
	default:
		q.Prompt = "About how much have you paid people outside payroll? A rough guess is fine."
	}
	if period != "" {
		p := period
		q.FixedPaidAmountTimeframe = &p
	}
	return q
}

func categoryQuestion() model.Question {
	labels := map[model.Category]string{
		model.CategoryGeneral:      "A business",
		model.CategoryDomestic:     "A household (nanny, housekeeper, caregiver)",
		model.CategoryAgricultural: "A farm or agricultural operation",
		model.CategoryNonprofit:    "A nonprofit organization",
		model.CategoryGovernment:   "A government or tribal entity",
	}
	opts := make([]model.Option, 0, len(model.Categories))
	for _, c := range model.Categories {
		opts = append(opts, model.Option{Value: string(c), Label: labels[c]})
	}
	return model.Question{
		ID:        QuestionCategory,
		Kind:      model.KindSingleSelect,
		AnswerKey: model.KeyEmploymentCategory,
		Prompt:    "Who is doing the paying?",
		Required:  true,
		Options:   opts,
	}
}

func jurisdictionQuestion() model.Question {
	opts := make([]model.Option, 0, len(jurisdictions))
	for _, j := range jurisdictions {
		opts = append(opts, model.Option{Value: j.code, Label: j.name})
	}
	return model.Question{
		ID:        QuestionJurisdiction,
		Kind:      model.KindSingleSelect,
		AnswerKey: model.KeyJurisdiction,
		Prompt:    "Where does the work happen?",
		Required:  true,
		Options:   opts,
	}
}

func leadCaptureQuestion() model.Question {
	return model.Question{
		ID:        QuestionLeadCapture,
		Kind:      model.KindLeadCapture,
		AnswerKey: model.KeyLeadEmail,
		Prompt:    "Want a copy of your results? Leave an email.",
	}
}

// RangeBuckets returns the current bucket vocabulary of axis with display labels
func RangeBuckets(axis model.Axis) []model.RangeBucket {
	defs := amountBuckets
	if axis == model.AxisWeeks {
		defs = weeksBuckets
	}
	out := make([]model.RangeBucket, 0, len(defs)+1)
	for _, d := range defs {
		out = append(out, model.RangeBucket{
			Value: d.value,
			Label: bucketLabel(axis, d.iv),
			Min:   d.iv.Min,
			Max:   d.iv.Max,
		})
	}
	return append(out, model.RangeBucket{Value: model.ValueNotSure, Label: "Not sure"})
}

func bucketLabel(axis model.Axis, iv Interval) string {
	lo := int64(*iv.Min)
	if axis == model.AxisWeeks {
		switch {
		case iv.IsZero():
			return "None"
		case iv.Max == nil:
			return printer.Sprintf("%d or more weeks", lo)
		default:
			return printer.Sprintf("%d to %d weeks", lo, int64(*iv.Max))
		}
	}
	switch {
	case iv.IsZero():
		return "$0 / none"
	case iv.Max == nil:
		return printer.Sprintf("$%d or more", lo)
	default:
		return printer.Sprintf("$%d to $%d", lo, int64(*iv.Max))
	}
}
