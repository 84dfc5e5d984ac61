package analysis

// Report bundles the three pipeline stages for one threshold.
type Report struct {
	Result    *Result   `json:"analysis"`
	Selection Selection `json:"selection"`
	Palette   *Palette  `json:"palette"`
}

// Run analyses buf and selects a palette in one call.
func Run(buf PixelBuffer, opts Options, sel SelectOptions) (*Report, error) {
	result, err := Analyse(buf, opts)
	if err != nil {
		return nil, err
	}
	return result.Report(sel), nil
}

// Report re-runs selection and palette building over an existing result.
// Only the cheap stages run; the pixels are not revisited.
func (r *Result) Report(sel SelectOptions) *Report {
	selection := Select(r.Scored, sel)
	return &Report{
		Result:    r,
		Selection: selection,
		Palette:   BuildPalette(selection.Colours, r.Scored),
	}
}
