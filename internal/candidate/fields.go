package candidate

// FieldWeight is one searchable field of a candidate and its multiplier.
type FieldWeight struct {
	Text   string
	Weight float64
}

// Weights holds the per-field multipliers used to score local candidates.
type Weights struct {
	Label       float64
	Description float64
	Category    float64
	Keyword     float64
}

// DefaultWeights favours label matches, then keywords.
func DefaultWeights() Weights {
	return Weights{Label: 3, Description: 1.5, Category: 1, Keyword: 2}
}

// Fields lists the weighted fields of a locally scored candidate. Remote hits
// carry their own score and return no fields.
func (w Weights) Fields(c Candidate) []FieldWeight {
	switch v := c.(type) {
	case Command:
		out := make([]FieldWeight, 0, 3+len(v.Keywords))
		out = append(out,
			FieldWeight{Text: v.Label.String(), Weight: w.Label},
			FieldWeight{Text: v.Description.String(), Weight: w.Description},
			FieldWeight{Text: v.Group(), Weight: w.Category},
		)
		for _, kw := range v.Keywords {
			out = append(out, FieldWeight{Text: kw, Weight: w.Keyword})
		}
		return out
	case RecentItem:
		return []FieldWeight{
			{Text: v.Title, Weight: w.Label},
			{Text: v.Subtitle, Weight: w.Description},
			{Text: v.Type, Weight: w.Category},
		}
	case RemoteHit:
		return nil
	default:
		return nil
	}
}
