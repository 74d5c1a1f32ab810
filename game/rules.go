package game

// CanMerge reports whether two adjacent tiles combine when pushed together:
// equal tiles of at least 3, or a 1 next to a 2.
func CanMerge(a, b int) bool {
	return (a == b && a >= 3) || oneAndTwo(a, b)
}

func oneAndTwo(a, b int) bool {
	return (a == 2 && b == 1) || (a == 1 && b == 2)
}

// mergedValue returns the value left at the leading cell when a merges with b
func mergedValue(a, b int) int {
	if oneAndTwo(a, b) {
		return 3
	}
	return a * 2
}
