package digest

// GroupByTag groups record titles by tag. Tag order follows first
// appearance and titles keep their record order; duplicates are kept.
func GroupByTag(records []HitRecord) GroupedTitles {
	var groups GroupedTitles
	index := make(map[string]int)

	for _, r := range records {
		i, ok := index[r.Tag]
		if !ok {
			i = len(groups)
			index[r.Tag] = i
			groups = append(groups, TagGroup{Tag: r.Tag})
		}
		groups[i].Titles = append(groups[i].Titles, r.Title)
	}
	return groups
}
