package allocator

// PreferenceTable is an aggregated lookup of a school's preference score
// for a center. It's built once at run start and read-only thereafter.
type PreferenceTable map[string]map[string]int

// BuildPreferenceTable aggregates |entries| into a PreferenceTable.
// Duplicate (school, center) rows accumulate by summation rather than
// overwrite.
func BuildPreferenceTable(entries []PreferenceEntry) PreferenceTable {
	var t = make(PreferenceTable)
	for _, e := range entries {
		var m, ok = t[e.SchoolCode]
		if !ok {
			m = make(map[string]int)
			t[e.SchoolCode] = m
		}
		m[e.CenterCode] += e.Score
	}
	return t
}

// Score returns the aggregated preference of |schoolCode| for
// |centerCode|. Pairs without a submitted preference are neutral (zero),
// never an error.
func (t PreferenceTable) Score(schoolCode, centerCode string) int {
	return t[schoolCode][centerCode]
}
