package attack

// Combination grids the generated table covers.
var (
	pureCombos = [][]int{
		{4}, {6}, {8}, {9}, {12}, {16},
		{4, 6}, {4, 9}, {6, 6}, {9, 9}, {4, 16}, {6, 16}, {9, 16}, {16, 16}, {12, 12}, {4, 9, 9},
		{4, 4}, {4, 4, 4}, {4, 4, 4, 4}, {4, 4, 4, 4, 4}, {4, 4, 4, 4, 4, 4},
		{6, 6, 6}, {6, 6, 6, 6},
		{9, 9, 9}, {9, 9, 9, 9},
		{16, 16, 16},
		{4, 4, 4, 4, 4, 4, 4, 4},
	}
	stackedCombos = [][]int{
		{4, 4, 4}, {4, 4, 4, 4}, {4, 4, 4, 4, 4}, {6, 6, 6}, {9, 9, 9},
	}
	singleSizes = []int{4, 6, 8, 9, 12, 16}
)

// Generate builds a rule table over the standard combination grid. Single
// clusters and loose cells are priced by f; multi-cluster combos are merged
// into one wide strike, which the formula never does.
func Generate(f FormulaFallback) *RuleTable {
	t := NewRuleTable()
	t.Description = "generated attack table"

	add := func(sizes []int, individual, breakers, chain int) {
		k := NewKey(sizes, individual, breakers, chain)
		t.Set(k, generated(f, k))
	}

	for _, sizes := range pureCombos {
		for chain := 1; chain <= 8; chain++ {
			add(sizes, 0, 0, chain)
		}
	}
	for _, s := range singleSizes {
		for individual := 1; individual <= 10; individual++ {
			for breakers := 0; breakers <= min(individual, 4); breakers++ {
				for chain := 1; chain <= 5; chain++ {
					add([]int{s}, individual, breakers, chain)
				}
			}
		}
	}
	for _, sizes := range stackedCombos {
		for individual := 0; individual <= 4; individual++ {
			for breakers := 0; breakers <= min(individual, 2); breakers++ {
				for chain := 1; chain <= 5; chain++ {
					add(sizes, individual, breakers, chain)
				}
			}
		}
	}
	for individual := 1; individual <= 11; individual++ {
		for breakers := 0; breakers <= min(individual, 4); breakers++ {
			for chain := 1; chain <= 8; chain++ {
				add(nil, individual, breakers, chain)
			}
		}
	}
	return t
}

// generated computes the table entry for k.
func generated(f FormulaFallback, k Key) Output {
	out := Output{GarbageUnits: max(0, k.Individual-k.Breakers)}
	switch {
	case len(k.Sizes) == 0:
	case len(k.Sizes) == 1:
		w, h := f.Footprint(k.Sizes[0], k.Chain)
		count := max(1, k.Sizes[0]/4*k.Chain)
		for i := 0; i < count; i++ {
			out.Strikes = append(out.Strikes, StrikeSpec{Width: w, Height: h})
		}
	default:
		out.Strikes = []StrikeSpec{combined(k)}
	}
	return out
}

// combined merges several clusters into a single strike at most two wide and
// four tall. Three 2x2 clusters at chain 3 make a full-height 2x12.
func combined(k Key) StrikeSpec {
	if k.Chain == 3 && len(k.Sizes) == 3 && k.Sizes[0] == 4 && k.Sizes[1] == 4 && k.Sizes[2] == 4 {
		return StrikeSpec{Width: 2, Height: 12}
	}
	total := 0
	for _, s := range k.Sizes {
		total += s
	}
	w := min(len(k.Sizes), 2)
	return StrikeSpec{Width: w, Height: max(2, min(total/w, 4))}
}
