package domain

// Variables is the confirmed conversational summary the report is
// generated from.
type Variables struct {
	Goals  []string `json:"goals"`
	Assets []string `json:"assets"`
	Risks  []string `json:"risks"`
}

func (v Variables) Empty() bool {
	return len(v.Goals) == 0 && len(v.Assets) == 0 && len(v.Risks) == 0
}

// AllocationItem is one row of the user-confirmed asset allocation.
// Weight is a fraction of the portfolio (0-1), reported downstream
// exactly as declared - renormalization is an upstream concern.
type AllocationItem struct {
	Name       string  `json:"name"`
	Weight     float64 `json:"weight"`
	Confidence float64 `json:"confidence"`
}
