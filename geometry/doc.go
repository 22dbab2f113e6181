// Package geometry turns the deployable boundary ("red line") and map
// features into ordered deploy point sequences, lines and clusters.
//
// Every ordering is deterministic: angle and distance comparisons fall back
// to the input index, so identical input yields identical output. Randomized
// helpers take an explicit rng.Source.
//
// Map space is centred on the origin with the boundary surrounding it.
package geometry
