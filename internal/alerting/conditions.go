package alerting

import (
	"fmt"

	"github.com/openclaw/stock/internal/contracts"
)

// technical alert indicators and the operators each accepts.
var technicalOperators = map[string][]contracts.AlertOperator{
	"macd": {contracts.OpGoldenCross, contracts.OpDeathCross},
	"ma":   {contracts.OpGoldenCross, contracts.OpDeathCross},
	"rsi":  {contracts.OpOverbought, contracts.OpOversold},
}

// ValidateCondition rejects malformed conditions at creation time so they
// never reach evaluation.
func ValidateCondition(typ contracts.AlertType, cond contracts.AlertCondition) error {
	switch typ {
	case contracts.AlertPrice, contracts.AlertVolume:
		if cond.Operator != contracts.OpAbove && cond.Operator != contracts.OpBelow {
			return &contracts.InvalidConditionError{
				Reason: fmt.Sprintf("%s alert requires operator above or below, got %q", typ, cond.Operator),
			}
		}
		if cond.Value <= 0 {
			return &contracts.InvalidConditionError{
				Reason: fmt.Sprintf("%s alert requires a positive value, got %g", typ, cond.Value),
			}
		}
		return nil

	case contracts.AlertTechnical:
		allowed, ok := technicalOperators[cond.Indicator]
		if !ok {
			return &contracts.InvalidConditionError{
				Reason: fmt.Sprintf("unknown technical indicator %q", cond.Indicator),
			}
		}
		for _, op := range allowed {
			if cond.Operator == op {
				return nil
			}
		}
		return &contracts.InvalidConditionError{
			Reason: fmt.Sprintf("operator %q not valid for indicator %q", cond.Operator, cond.Indicator),
		}

	case contracts.AlertNews:
		// News alerts carry no parameters; the condition is a
		// collaborator-supplied flag.
		return nil

	default:
		return &contracts.InvalidConditionError{
			Reason: fmt.Sprintf("unknown alert type %q", typ),
		}
	}
}
