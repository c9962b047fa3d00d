package billing

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Verdict grades a final savings percentage.
type Verdict string

const (
	VerdictExcellent Verdict = "EXCELLENT"
	VerdictSaved     Verdict = "SAVED"
	VerdictBreakEven Verdict = "BREAK_EVEN"
	VerdictLoss      Verdict = "LOSS"
)

// ExcellentSavingsPct is the savings needed for the top verdict.
const ExcellentSavingsPct = 30.0

func Grade(savingsPct float64) Verdict {
	switch {
	case savingsPct >= ExcellentSavingsPct:
		return VerdictExcellent
	case savingsPct > 0:
		return VerdictSaved
	case savingsPct < 0:
		return VerdictLoss
	default:
		return VerdictBreakEven
	}
}

// Message is the player-facing line for a verdict.
func (v Verdict) Message(savingsPct float64) string {
	switch v {
	case VerdictExcellent:
		return "Excellent! You saved 30% or more!"
	case VerdictSaved:
		return fmt.Sprintf("Good job! You saved %.1f%%", savingsPct)
	case VerdictLoss:
		return "You paid more than On-Demand! Try a lower commitment next time."
	default:
		return "You broke even. Consider adjusting your commitment."
	}
}

// Guidance compares a commitment with the usage observed so far.
type Guidance string

const (
	GuidanceNone     Guidance = "NONE"
	GuidanceLow      Guidance = "LOW"
	GuidanceHigh     Guidance = "HIGH"
	GuidanceBalanced Guidance = "BALANCED"
)

// Advise flags commitments below 80% or above 150% of the observed mean.
func Advise(commitment, observedMean float64) Guidance {
	switch {
	case observedMean <= 0:
		return GuidanceNone
	case commitment < observedMean*0.8:
		return GuidanceLow
	case commitment > observedMean*1.5:
		return GuidanceHigh
	default:
		return GuidanceBalanced
	}
}

func (g Guidance) Message() string {
	switch g {
	case GuidanceLow:
		return "Low commitment: you might face expensive overage charges during usage spikes."
	case GuidanceHigh:
		return "High commitment: you're paying for more capacity than you typically use."
	case GuidanceBalanced:
		return "Good balance: your commitment aligns with the observed usage pattern."
	default:
		return "Observe some usage before choosing a commitment."
	}
}

var printer = message.NewPrinter(language.AmericanEnglish)

// FormatUSD renders v as dollars with thousands separators, e.g. "$1,234.50".
func FormatUSD(v float64) string {
	if v < 0 {
		return "-" + printer.Sprintf("$%.2f", -v)
	}
	return printer.Sprintf("$%.2f", v)
}
