package model

import "strconv"

// Answer keys shared by the catalog, the engine and the transports
const (
	KeyJurisdiction         = "jurisdiction"
	KeyEmploymentCategory   = "employment_category"
	KeyEntityType           = "entity_type"
	KeyLLCSingleTaxElection = "llc_single_tax_election"
	KeyLLCMultiTaxElection  = "llc_multi_tax_election"
	KeyPaidOutsidePayroll   = "paid_outside_payroll"
	KeyWhoWasPaid           = "who_was_paid"
	KeySameCourseOfBusiness = "same_course_of_business"
	KeyPaidAmountTimeframe  = "paid_amount_timeframe"
	KeyPaidAmountRange      = "paid_amount_range"
	KeyPaymentFrequency     = "payment_frequency"
	KeyHiringIntent         = "hiring_intent"
	KeyLeadEmail            = "lead_email"
)

// Shared option values
const (
	ValueYes     = "yes"
	ValueNo      = "no"
	ValueNotSure = "not_sure"
	BucketNone   = "none"
)

// who_was_paid options
const (
	WhoPaidContractor  = "contractor"
	WhoPaidFamily      = "family"
	WhoPaidFriend      = "friend"
	WhoPaidOwnerMember = "owner_member"
	WhoPaidGigPlatform = "gig_platform"
	WhoPaidOther       = "other"
)

// AnswerSet maps answer keys to a string, a string list, a bool or nil
type AnswerSet map[string]any

// Clone returns a shallow copy with list values copied
func (a AnswerSet) Clone() AnswerSet {
	out := make(AnswerSet, len(a))
	for k, v := range a {
		if list, ok := v.([]string); ok {
			v = append([]string(nil), list...)
		}
		out[k] = v
	}
	return out
}

// String returns a string answer; ok is false for absent, null or non-string values
func (a AnswerSet) String(key string) (string, bool) {
	s, ok := a[key].(string)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}

// Strings returns a multi-select answer as a string slice
func (a AnswerSet) Strings(key string) []string {
	switch v := a[key].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case string:
		if v != "" {
			return []string{v}
		}
	}
	return nil
}

// Contains reports whether a multi-select answer includes value
func (a AnswerSet) Contains(key, value string) bool {
	for _, s := range a.Strings(key) {
		if s == value {
			return true
		}
	}
	return false
}

// Answered reports whether key holds a non-empty value
func (a AnswerSet) Answered(key string) bool {
	switch v := a[key].(type) {
	case nil:
		return false
	case string:
		return v != ""
	case bool:
		return true
	default:
		return len(a.Strings(key)) > 0
	}
}

// Matches reports whether the stored answer satisfies an equality check.
// Lists test membership, booleans compare against "true"/"false".
func (a AnswerSet) Matches(key, want string) bool {
	switch v := a[key].(type) {
	case nil:
		return false
	case string:
		return v == want
	case bool:
		return strconv.FormatBool(v) == want
	default:
		return a.Contains(key, want)
	}
}
