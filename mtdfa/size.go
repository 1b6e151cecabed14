// Copyright (c) 2026 The ltlfsynt authors
//
// MIT License

package mtdfa

import "math"

// The multi-terminal operations use caches that are allocated for
// one operation. We need a good estimate of the MTBDD that will be
// constructed by the operation, to create a cache of similar size.
// The estimators saturate instead of overflowing.

func sizeEstimateProductCounts(leftStates, rightStates, sumAPs int) int {
	if rightStates > leftStates {
		leftStates, rightStates = rightStates, leftStates
	}
	leftStates = leftStates/4 + 1
	prod1 := leftStates * rightStates
	if prod1/leftStates != rightStates { // overflow
		return math.MaxInt32 / 16
	}
	prod2 := prod1 * sumAPs
	if sumAPs > 0 && (prod2/sumAPs != prod1 || prod2 > math.MaxInt32/16) {
		return math.MaxInt32 / 16
	}
	if prod2 < 1<<14 {
		return 1 << 14
	}
	return prod2
}

func sizeEstimateProduct(left, right *MTDFA) int {
	// Count the atomic propositions of the union without building
	// it.
	i, j, apsz := 0, 0, 0
	for i < len(left.APs) && j < len(right.APs) {
		apsz++
		switch {
		case left.APs[i] == right.APs[j]:
			i++
			j++
		case left.APs[i] < right.APs[j]:
			i++
		default:
			j++
		}
	}
	apsz += (len(left.APs) - i) + (len(right.APs) - j)
	return sizeEstimateProductCounts(left.NumRoots(), right.NumRoots(), apsz)
}

func sizeEstimateUnary(aut *MTDFA) int {
	states := aut.NumRoots()/2 + 1
	numAPs := len(aut.APs)
	prod := states * numAPs
	if numAPs > 0 && (prod/numAPs != states || prod > math.MaxInt32/16) {
		return math.MaxInt32 / 16
	}
	if prod < 1<<14 {
		return 1 << 14
	}
	return prod
}
