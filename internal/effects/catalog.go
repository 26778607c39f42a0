package effects

// catalog is ordered; the order is the order a UI presents effects in.
var catalog = []*Definition{
	{
		ID:          Remove,
		Name:        "Remove",
		Description: "Removes beats entirely.",
		Params: []Param{
			{ID: "period", Name: "Every", Default: 2, Minimum: 2},
		},
	},
	{
		ID:          Swap,
		Name:        "Swap",
		Description: "Swaps two beats throughout the entire song.",
		Params: []Param{
			{ID: "x_period", Name: "First Beat", Default: 2, Minimum: 1},
			{ID: "y_period", Name: "Second Beat", Default: 4, Minimum: 1},
			{ID: "group_size", Name: "Beats/Measure", Default: 4, Minimum: 2},
		},
	},
	{
		ID:          Cut,
		Name:        "Cut",
		Description: "Cuts beats into 2+ pieces.",
		Params: []Param{
			{ID: "period", Name: "Every", Default: 2, Minimum: 1},
			{ID: "denominator", Name: "Pieces", Default: 2, Minimum: 2, Help: "Number of pieces to cut each beat into."},
			{ID: "take_index", Name: "Take Piece #", Default: 1, Minimum: 1, Help: "Piece of the cut beat to use."},
		},
	},
	{
		ID:          Repeat,
		Name:        "Repeat",
		Description: "Repeats beats a certain number of times.",
		Params: []Param{
			{ID: "period", Name: "Every", Default: 2, Minimum: 1},
			{ID: "times", Name: "Times", Default: 2, Minimum: 1},
		},
	},
	{
		ID:          Silence,
		Name:        "Silence",
		Description: "Silences beats, but retains their length.",
		Params: []Param{
			{ID: "period", Name: "Every", Default: 2, Minimum: 2},
		},
	},
	{
		ID:          Reverse,
		Name:        "Reverse",
		Description: "Reverses beats.",
		Params: []Param{
			{ID: "period", Name: "Every", Default: 2, Minimum: 1},
		},
	},
	{
		ID:          Randomize,
		Name:        "Randomize",
		Description: "Totally randomizes all beats. It's terrible. You don't want this.",
		Params:      []Param{},
	},
}
