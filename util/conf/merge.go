package conf

func MergeDefaults[M ~map[string]V, V any](ns string, maps ...M) M {
	fullCap := 0
	for _, m := range maps {
		fullCap += len(m)
	}

	merged := make(M, fullCap)
	for _, m := range maps {
		for key, val := range m {
			merged[ns+"."+key] = val
		}
	}

	return merged
}

// Combine merges maps into one. Later maps win on duplicate keys.
func Combine[M ~map[string]V, V any](maps ...M) M {
	combined := make(M)
	for _, m := range maps {
		for key, val := range m {
			combined[key] = val
		}
	}

	return combined
}
