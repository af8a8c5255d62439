package eligibility

import (
	"fmt"

	"employercheck/internal/model"
)

// Signals is everything the composer decides on. It is built by Evaluate
// from the answers and the ruleset; narrative text is derived only from it.
type Signals struct {
	Jurisdiction string
	Category     model.Category
	Completeness model.Completeness
	RulesOnFile  bool

	Branch         *model.LiabilityBranch
	BranchFallback bool // category had no branch, general was used
	Triggers       Triggers

	AmountUnknown     bool // amount bucket normalized to unknown
	WeeksUnknown      bool // weeks bucket normalized to unknown
	TimeframeMismatch bool
	TimeframeUnknown  bool // amount answered without a period against a periodic line
	AmountStraddles   bool
	WeeksStraddles    bool
	Timeframe         model.Period

	PaidOutsidePayroll string
	HiringIntent       string
	SameCourse         string
	PaidContractor     bool
	PaidFamilyOrFriend bool
	PaidOwnerMember    bool
	PaidGigPlatform    bool

	// EntityElectionKey is set when the entity's tax treatment is unresolved
	EntityElectionKey     string
	EntityElectionOptions []model.Option

	RulesetNotes []string
}

func (s Signals) activity() bool {
	return s.PaidOutsidePayroll == model.ValueYes || s.PaidOutsidePayroll == model.ValueNotSure
}

func (s Signals) hiringOpen() bool {
	return s.HiringIntent == model.ValueYes || s.HiringIntent == model.ValueNotSure
}

// clearOfLine is true when every declared threshold is definitively not met,
// or none is declared at all
func (s Signals) clearOfLine() bool {
	b := s.Branch
	if b == nil {
		return true
	}
	amountClear := b.Wage == nil || s.Triggers.Amount == VerdictNotMet
	weeksClear := b.Weeks == nil || s.Triggers.Weeks == VerdictNotMet
	return amountClear && weeksClear
}

// baseConfidence is the ceiling ruleset completeness allows
func baseConfidence(c model.Completeness) model.Confidence {
	switch c {
	case model.CompletenessComplete:
		return model.ConfidenceHigh
	case model.CompletenessPartial:
		return model.ConfidenceMedium
	}
	return model.ConfidenceLow
}

var confidenceRank = map[model.Confidence]int{
	model.ConfidenceLow:    0,
	model.ConfidenceMedium: 1,
	model.ConfidenceHigh:   2,
}

// capConfidence returns the lower of the completeness ceiling and cap
func capConfidence(c model.Completeness, cap model.Confidence) model.Confidence {
	base := baseConfidence(c)
	if confidenceRank[cap] < confidenceRank[base] {
		return cap
	}
	return base
}

// Compose selects one recommendation from the signals and fills in the
// narrative. The result has no ID or timestamp; Evaluator stamps those.
func Compose(s Signals) model.Assessment {
	var a model.Assessment
	place := jurisdictionName(s.Jurisdiction)

	switch {
	case s.Category == model.CategoryDomestic && s.RulesOnFile:
		a = householdPath(s, place)
	case !s.RulesOnFile:
		a = notSupportedYet(s, place)
	case s.PaidOutsidePayroll == model.ValueNo && !s.hiringOpen():
		a = trackMinimal(s, place)
	case s.PaidOutsidePayroll == model.ValueNo:
		a = trackForwardLooking(s, place)
	case s.Triggers.Any():
		a = registerNow(s, place)
	case s.PaidOutsidePayroll == model.ValueYes && s.clearOfLine():
		a = notAtLineYet(s, place)
	default:
		a = needsOneDetail(s, place)
	}

	if s.activity() {
		a.Callouts = callouts(s)
	}
	a.DataCoverage = coverage(s, place)
	a.EvaluatorVersion = EvaluatorVersion
	return a
}

func householdPath(s Signals, place string) model.Assessment {
	why := []string{
		"You told us the work is for your household, not a business.",
		fmt.Sprintf("%s has household employer rules on file, and they work differently from business rules.", place),
	}
	if s.activity() {
		why = append(why, "You have paid someone for work in your home, so household reporting may apply.")
	}
	if s.hiringOpen() {
		why = append(why, "You expect to hire in the next 12 months, which is a good time to set up household payroll.")
	}
	return model.Assessment{
		Recommendation: model.RecommendHouseholdPath,
		Confidence:     capConfidence(s.Completeness, model.ConfidenceHigh),
		Headline:       "Household employers follow their own path",
		Subhead:        fmt.Sprintf("Nannies, housekeepers and caregivers are covered by %s's household rules.", place),
		Why:            why,
		NextSteps: []string{
			"Add up what you paid each household worker per calendar quarter.",
			"Review the household employer guide for your state agency.",
			"Keep dated records of every payment, including cash.",
		},
		CTAPrimary:   model.CTA{Label: "Read the household employer guide", Action: "open_household_guide"},
		CTASecondary: &model.CTA{Label: "Email me these results", Action: "email_results"},
	}
}

func notSupportedYet(s Signals, place string) model.Assessment {
	why := []string{fmt.Sprintf("We don't have %s's registration rules on file yet.", place)}
	if s.activity() {
		why = append(why, "You have paid people outside payroll, so it's worth checking directly with the state agency.")
	}
	return model.Assessment{
		Recommendation: model.RecommendNotSupportedYet,
		Confidence:     model.ConfidenceLow,
		Headline:       fmt.Sprintf("We can't check %s yet", place),
		Subhead:        "We'll let you know when rules for your state are added.",
		Why:            why,
		NextSteps: []string{
			"Contact the state workforce or labor agency and ask about employer registration.",
			"Keep records of who you paid, when, and how much.",
		},
		CTAPrimary: model.CTA{Label: "Notify me when it's available", Action: "notify_coverage"},
	}
}

func trackMinimal(s Signals, place string) model.Assessment {
	return model.Assessment{
		Recommendation: model.RecommendTrackForLater,
		Confidence:     capConfidence(s.Completeness, model.ConfidenceHigh),
		Headline:       "Nothing to register right now",
		Subhead:        fmt.Sprintf("Without paid workers there's nothing to report in %s yet.", place),
		Why: []string{
			"You haven't paid anyone for work outside of a payroll system.",
			"You don't expect to hire in the next 12 months.",
		},
		NextSteps: []string{
			"Check again before you pay anyone for work.",
		},
		CTAPrimary: model.CTA{Label: "Save my answers", Action: "save_session"},
	}
}

func trackForwardLooking(s Signals, place string) model.Assessment {
	why := []string{"You haven't paid anyone for work outside of a payroll system."}
	if s.HiringIntent == model.ValueYes {
		why = append(why, "You expect to hire in the next 12 months.")
	} else {
		why = append(why, "You might hire in the next 12 months.")
	}
	return model.Assessment{
		Recommendation: model.RecommendTrackForLater,
		Confidence:     capConfidence(s.Completeness, model.ConfidenceHigh),
		Headline:       "Not yet, but plan ahead",
		Subhead:        fmt.Sprintf("Registration in %s usually follows your first payroll. Set a reminder for when you hire.", place),
		Why:            why,
		NextSteps: []string{
			"Track every payment from your first hire onward.",
			"Come back and re-check after your first full quarter of payments.",
		},
		CTAPrimary:   model.CTA{Label: "Remind me after my first hire", Action: "schedule_reminder"},
		CTASecondary: &model.CTA{Label: "Save my answers", Action: "save_session"},
	}
}

func registerNow(s Signals, place string) model.Assessment {
	var why []string
	if s.Triggers.Amount == VerdictMet {
		why = append(why, fmt.Sprintf("What you paid %s is at or above %s's registration line.", periodPhrase(s.Timeframe), place))
	}
	if s.Triggers.Weeks == VerdictMet {
		why = append(why, fmt.Sprintf("People worked for you in enough different weeks to meet %s's registration line.", place))
	}
	why = append(why, activityBullets(s)...)

	confidence := model.ConfidenceMedium
	if s.Completeness == model.CompletenessComplete {
		confidence = model.ConfidenceHigh
	}
	return model.Assessment{
		Recommendation: model.RecommendRegisterNow,
		Confidence:     confidence,
		Headline:       fmt.Sprintf("It looks like you need to register in %s", place),
		Subhead:        "Your answers cross at least one of the state's registration lines.",
		Why:            why,
		NextSteps: []string{
			"Register for an employer account with the state agency.",
			"Gather the names and payment dates of everyone you paid.",
			"Ask whether back reporting is needed for earlier quarters.",
		},
		CTAPrimary:   model.CTA{Label: "Start registration", Action: "start_registration"},
		CTASecondary: &model.CTA{Label: "Talk to an expert", Action: "book_consult"},
	}
}

func notAtLineYet(s Signals, place string) model.Assessment {
	var why []string
	ceiling := model.ConfidenceHigh
	switch {
	case s.Branch == nil:
		ceiling = model.ConfidenceLow
		why = append(why, fmt.Sprintf("%s has no registration line on file for this kind of employer.", place))
	case !s.Branch.HasThresholds():
		ceiling = model.ConfidenceMedium
		why = append(why, fmt.Sprintf("%s doesn't set a pay or weeks line for this kind of employer.", place))
	default:
		if s.Triggers.Amount == VerdictNotMet {
			why = append(why, fmt.Sprintf("What you paid %s is below %s's registration line.", periodPhrase(s.Timeframe), place))
		}
		if s.Triggers.Weeks == VerdictNotMet {
			why = append(why, "People haven't worked for you in enough different weeks to reach the line.")
		}
	}
	why = append(why, activityBullets(s)...)

	steps := []string{
		"Keep a running total of what you pay each quarter.",
		"Re-check when your payments grow or you add people.",
	}
	if s.hiringOpen() {
		steps = append(steps, "Plan to re-check once your new hire starts.")
	}
	return model.Assessment{
		Recommendation: model.RecommendTrackForLater,
		Confidence:     capConfidence(s.Completeness, ceiling),
		Headline:       "You're not at the line yet",
		Subhead:        fmt.Sprintf("Based on your answers you don't need to register in %s today.", place),
		Why:            why,
		NextSteps:      steps,
		CTAPrimary:     model.CTA{Label: "Track my payments", Action: "track_payments"},
		CTASecondary:   &model.CTA{Label: "Save my answers", Action: "save_session"},
	}
}

func needsOneDetail(s Signals, place string) model.Assessment {
	missing := missingInputs(s)

	var why []string
	if s.PaidOutsidePayroll == model.ValueNotSure {
		why = append(why, "You weren't sure whether you've paid anyone outside payroll.")
	}
	if s.AmountUnknown && s.Branch != nil && s.Branch.Wage != nil {
		why = append(why, "We don't know roughly how much you paid yet.")
	}
	if s.AmountStraddles {
		why = append(why, "The amount range you picked spans the registration line.")
	}
	if s.TimeframeMismatch {
		why = append(why, fmt.Sprintf("Your amount covers a different period than %s measures.", place))
	}
	if s.TimeframeUnknown {
		why = append(why, "We don't know which period your amount covers.")
	}
	if s.WeeksUnknown && s.Branch != nil && s.Branch.Weeks != nil {
		why = append(why, "We don't know how many different weeks people worked for you.")
	}
	if s.WeeksStraddles {
		why = append(why, "The weeks range you picked spans the registration line.")
	}
	if s.Triggers.Amount == VerdictNotMet {
		why = append(why, fmt.Sprintf("What you paid %s is below the pay line, but that's only one of the checks.", periodPhrase(s.Timeframe)))
	}
	if s.Triggers.Weeks == VerdictNotMet {
		why = append(why, "You're below the weeks line, but that's only one of the checks.")
	}
	if s.EntityElectionKey != "" {
		why = append(why, "How your business is taxed changes whether owner pay counts as wages.")
	}
	why = append(why, activityBullets(s)...)

	confidence := model.ConfidenceLow
	if s.Completeness == model.CompletenessComplete {
		confidence = model.ConfidenceMedium
	}
	return model.Assessment{
		Recommendation: model.RecommendNeedsOneDetail,
		Confidence:     confidence,
		Headline:       "We need one more detail",
		Subhead:        fmt.Sprintf("Your answers land close to %s's registration line. One detail will settle it.", place),
		Why:            why,
		NextSteps: []string{
			"Answer the follow-up question below.",
			"If you're unsure, check bank or payment app records for the period.",
		},
		MissingInputs: missing,
		CTAPrimary:    model.CTA{Label: "Answer the follow-up", Action: "answer_missing_inputs"},
	}
}

// maxMissingInputs bounds the follow-up prompts on one assessment
const maxMissingInputs = 3

// missingInputs turns each unresolved normalization into one prompt
func missingInputs(s Signals) []model.MissingInput {
	var out []model.MissingInput
	add := func(m model.MissingInput) {
		if len(out) < maxMissingInputs {
			out = append(out, m)
		}
	}

	if s.PaidOutsidePayroll != model.ValueYes {
		add(model.MissingInput{
			Key:     model.KeyPaidOutsidePayroll,
			Prompt:  "Have you paid anyone for work outside of payroll, even once?",
			Options: []model.Option{{Value: model.ValueYes, Label: "Yes"}, {Value: model.ValueNo, Label: "No"}},
		})
	}
	if s.Branch != nil && s.Branch.Wage != nil && s.AmountUnknown {
		add(model.MissingInput{
			Key:     model.KeyPaidAmountRange,
			Prompt:  fmt.Sprintf("About how much did you pay people outside payroll %s?", periodPhrase(s.Branch.Wage.Period)),
			Options: bucketOptions(model.AxisAmount),
		})
	}
	if s.AmountStraddles && s.Branch != nil && s.Branch.Wage != nil {
		add(model.MissingInput{
			Key:     model.KeyPaidAmountRange,
			Prompt:  fmt.Sprintf("Check your records for the exact total you paid outside payroll %s, then pick the range it falls in.", periodPhrase(s.Branch.Wage.Period)),
			Options: bucketOptions(model.AxisAmount),
		})
	}
	if (s.TimeframeMismatch || s.TimeframeUnknown) && s.Branch != nil && s.Branch.Wage != nil {
		add(model.MissingInput{
			Key:     model.KeyPaidAmountTimeframe,
			Prompt:  fmt.Sprintf("Can you tell us what you paid %s instead?", periodPhrase(s.Branch.Wage.Period)),
			Options: []model.Option{{Value: string(s.Branch.Wage.Period), Label: "Yes, " + periodPhrase(s.Branch.Wage.Period)}},
		})
	}
	if s.Branch != nil && s.Branch.Weeks != nil && s.WeeksUnknown {
		add(model.MissingInput{
			Key:     model.KeyPaymentFrequency,
			Prompt:  "In how many different weeks did someone do paid work for you?",
			Options: bucketOptions(model.AxisWeeks),
		})
	}
	if s.WeeksStraddles && s.Branch != nil && s.Branch.Weeks != nil {
		add(model.MissingInput{
			Key:     model.KeyPaymentFrequency,
			Prompt:  "Count the different weeks someone did paid work for you, then pick the range it falls in.",
			Options: bucketOptions(model.AxisWeeks),
		})
	}
	if s.EntityElectionKey != "" {
		add(model.MissingInput{
			Key:     s.EntityElectionKey,
			Prompt:  "How is the business taxed? Your last federal business return shows this.",
			Options: s.EntityElectionOptions,
		})
	}
	return out
}

// bucketOptions lists the numeric buckets of axis, without not_sure
func bucketOptions(axis model.Axis) []model.Option {
	var out []model.Option
	for _, b := range RangeBuckets(axis) {
		if b.Value == model.ValueNotSure {
			continue
		}
		out = append(out, model.Option{Value: b.Value, Label: b.Label})
	}
	return out
}

// activityBullets explains the payee and core-work signals
func activityBullets(s Signals) []string {
	var out []string
	if s.PaidContractor {
		out = append(out, "You paid independent contractors.")
	}
	if s.SameCourse == model.ValueYes {
		out = append(out, "The work was part of what your business sells.")
	}
	if s.PaidFamilyOrFriend {
		out = append(out, "Family members or friends were among the people you paid.")
	}
	if s.PaidOwnerMember {
		out = append(out, "Owners or members of the business were paid.")
	}
	if s.hiringOpen() {
		out = append(out, "You expect to hire in the next 12 months.")
	}
	return out
}

func callouts(s Signals) []model.Callout {
	var out []model.Callout
	if s.PaidFamilyOrFriend {
		out = append(out, model.Callout{
			Kind:  "family_payments",
			Title: "Paying family and friends",
			Body:  "Some states exempt pay to a spouse, parent or child. Friends are usually treated like anyone else you pay.",
		})
	}
	if s.PaidOwnerMember {
		body := "Draws paid to owners of a sole proprietorship, partnership or disregarded LLC usually aren't wages."
		if s.EntityElectionKey != "" {
			body += " If the business is taxed as a corporation, owner pay for work usually is."
		}
		out = append(out, model.Callout{Kind: "owner_payments", Title: "Owner and member pay", Body: body})
	}
	if s.PaidGigPlatform {
		out = append(out, model.Callout{
			Kind:  "platform_workers",
			Title: "Workers found through platforms",
			Body:  "If the platform paid the worker directly, those payments may not count toward your totals.",
		})
	}
	if s.PaidContractor && s.SameCourse == model.ValueYes {
		out = append(out, model.Callout{
			Kind:  "core_work_contractors",
			Title: "Contractors doing core work",
			Body:  "People who do the work your business sells are often treated as employees, whatever the contract says.",
		})
	}
	return out
}

func coverage(s Signals, place string) model.DataCoverage {
	completeness := s.Completeness
	if !s.RulesOnFile {
		completeness = model.CompletenessMissing
	}
	dc := model.DataCoverage{Jurisdiction: s.Jurisdiction, Completeness: completeness}

	switch completeness {
	case model.CompletenessMissing:
		dc.Caveats = append(dc.Caveats, fmt.Sprintf("We don't have registration rules for %s on file.", place))
	case model.CompletenessPartial:
		dc.Caveats = append(dc.Caveats, fmt.Sprintf("Only part of %s's rules are on file, so treat this result as a starting point.", place))
	}
	if s.RulesOnFile && s.Category != model.CategoryDomestic {
		if s.Branch == nil {
			dc.Caveats = append(dc.Caveats, fmt.Sprintf("No rules for %s employers in %s are on file.", s.Category, place))
		} else if s.BranchFallback {
			dc.Caveats = append(dc.Caveats, fmt.Sprintf("%s has no separate rules for %s employers, so general employer rules were used.", place, s.Category))
		}
	}
	if s.TimeframeMismatch {
		dc.Caveats = append(dc.Caveats, "Your amount was for a different period than the state uses. We don't convert between periods.")
	}
	if s.TimeframeUnknown {
		dc.Caveats = append(dc.Caveats, "We couldn't tell which period your amount covers, so it wasn't compared to the registration line.")
	}
	dc.Caveats = append(dc.Caveats, s.RulesetNotes...)
	return dc
}

func periodPhrase(p model.Period) string {
	switch p {
	case model.PeriodQuarter:
		return "per calendar quarter"
	case model.PeriodYear:
		return "per calendar year"
	}
	return "over the period you described"
}
