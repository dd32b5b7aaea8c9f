// Package similarity scores how alike two items are. Text scores are floats
// in [0,1], image scores are integers in [0,100]. Backends include an
// in-process token scorer, a Gemini-backed scorer, and an external command
// runner; NewFromConfig assembles the configured pair and wraps it in a
// Degrading scorer so backend failures surface as zero scores instead of
// aborting a matching run.
package similarity
