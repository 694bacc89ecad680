package channel

// Deduplicate keeps the first occurrence of each stream URL and drops the rest.
// URLs are compared as exact strings; scheme or host casing, trailing slashes
// and query order are not normalized. The relative order of the survivors is
// unchanged, so applying Deduplicate to its own output removes nothing.
func Deduplicate(records []Record) ([]Record, int) {
	seen := make(map[string]struct{}, len(records))
	unique := make([]Record, 0, len(records))

	for _, r := range records {
		if _, ok := seen[r.url]; ok {
			continue
		}
		seen[r.url] = struct{}{}
		unique = append(unique, r)
	}

	return unique, len(records) - len(unique)
}
