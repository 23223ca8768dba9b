package ggtext

// GrowCapacity returns the capacity a buffer should be reallocated to so it
// holds at least required elements, doubling from current until it fits. A
// current capacity below one is treated as one so doubling makes progress.
// When current already fits, it is returned unchanged.
//
//	GrowCapacity(0, 5)     == 8
//	GrowCapacity(128, 128) == 128
//	GrowCapacity(100, 300) == 400
func GrowCapacity(current, required int) int {
	if current < 1 {
		current = 1
	}
	for current < required {
		current *= 2
	}
	return current
}
