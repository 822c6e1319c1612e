// Package types - QA outcome types
package types

// CheckName identifies a QA check
type CheckName string

const (
	CheckDeviceRouting   CheckName = "device_routing"
	CheckPaperCost       CheckName = "paper_cost_nonzero"
	CheckClickCost       CheckName = "click_cost_nonzero"
	CheckMarginFloor     CheckName = "margin_floor"
	CheckShopMinimum     CheckName = "shop_minimum"
	CheckSpoilageApplied CheckName = "spoilage_applied"
	CheckCostsBalance    CheckName = "costs_balance"
)

// CheckResult is one evaluated QA check
type CheckResult struct {
	Name    CheckName `json:"name"`
	Passed  bool      `json:"passed"`
	Message string    `json:"message"`
}

// QAOutcome is the fixed record of QA checks over a computed quote.
// It annotates a quote and never changes it.
type QAOutcome struct {
	DeviceRouting   bool `json:"device_routing"`
	PaperCost       bool `json:"paper_cost_nonzero"`
	ClickCost       bool `json:"click_cost_nonzero"`
	MarginFloor     bool `json:"margin_floor"`
	ShopMinimum     bool `json:"shop_minimum"`
	SpoilageApplied bool `json:"spoilage_applied"`
	CostsBalance    bool `json:"costs_balance"`

	// Checks lists every check in evaluation order
	Checks []CheckResult `json:"checks"`

	// PassedCount is the number of passed checks
	PassedCount int `json:"passed_count"`

	// FailedCount is the number of failed checks
	FailedCount int `json:"failed_count"`
}

// Passed reports whether every check passed
func (o QAOutcome) Passed() bool {
	return len(o.Checks) > 0 && o.FailedCount == 0
}

// Failures returns the failing checks in evaluation order
func (o QAOutcome) Failures() []CheckResult {
	var failed []CheckResult
	for _, c := range o.Checks {
		if !c.Passed {
			failed = append(failed, c)
		}
	}
	return failed
}
