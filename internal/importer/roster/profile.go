package roster

// Profile describes the header of one roster layout. Matching is case-insensitive.
type Profile struct {
	Name      string
	NameCol   string
	AmountCol string
	// DecimalComma means amounts look like "1.234,56".
	DecimalComma bool
}

// profiles is tried in order; the first whose name column appears in a row wins.
var profiles = []Profile{
	{
		Name:      "english",
		NameCol:   "name",
		AmountCol: "amount",
	},
	{
		Name:      "participant",
		NameCol:   "participant",
		AmountCol: "share",
	},
	{
		Name:         "portuguese",
		NameCol:      "nome",
		AmountCol:    "montante",
		DecimalComma: true,
	},
}
