package models

// Warrant1Result holds the Eight-Hour Vehicle Volume outcome. At most one of
// the three conditions is true because evaluation stops at the first that holds.
type Warrant1Result struct {
	ConditionA  bool   `json:"condition_a"`
	ConditionB  bool   `json:"condition_b"`
	Combination bool   `json:"combination"`
	Volumes     Sample `json:"volumes"`
	Err         error  `json:"-"`
}

// Satisfied reports whether any condition of Warrant 1 holds.
func (r Warrant1Result) Satisfied() bool {
	return r.ConditionA || r.ConditionB || r.Combination
}

// CurveWarrantResult holds the outcome of a curve-based warrant (Warrants 2 and 3).
type CurveWarrantResult struct {
	Satisfied  bool  `json:"satisfied"`
	HoursAbove int   `json:"hours_above"`
	Err        error `json:"-"`
}

// WarrantResult combines the three warrants. A warrant whose Err is set was
// not evaluated; the others remain valid.
type WarrantResult struct {
	Warrant1 Warrant1Result     `json:"warrant_1"`
	Warrant2 CurveWarrantResult `json:"warrant_2"`
	Warrant3 CurveWarrantResult `json:"warrant_3"`
}

// Errors returns the per-warrant errors keyed by warrant name.
func (r WarrantResult) Errors() map[string]error {
	errs := make(map[string]error)
	if r.Warrant1.Err != nil {
		errs["warrant_1"] = r.Warrant1.Err
	}
	if r.Warrant2.Err != nil {
		errs["warrant_2"] = r.Warrant2.Err
	}
	if r.Warrant3.Err != nil {
		errs["warrant_3"] = r.Warrant3.Err
	}
	return errs
}
