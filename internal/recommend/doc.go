// Package recommend produces short movie recommendation lists for a
// requester age.
//
// A pass filters the catalog by minimum age, renders the remainder into a
// prompt, and asks every configured evaluator role for one movie ID
// concurrently. Answers are reduced to IDs, deduplicated against the
// filtered catalog and topped up by fixed fallback rules. Any failure along
// the way degrades to a labelled fallback result instead of an error.
package recommend
