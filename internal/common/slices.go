package common

// Remove returns a copy of slice without the item at index, out of range indexes return slice as is
func Remove[T any](slice []T, index int) []T {
	if index < 0 || index >= len(slice) {
		return slice
	}

	result := make([]T, 0, len(slice)-1)
	result = append(result, slice[:index]...)
	return append(result, slice[index+1:]...)
}

// Filter keeps the items for which keep returns true
func Filter[T any](slice []T, keep func(T) bool) []T {
	result := make([]T, 0, len(slice))
	for _, item := range slice {
		if keep(item) {
			result = append(result, item)
		}
	}

	return result
}
