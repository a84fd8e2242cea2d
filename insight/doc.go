// Package insight turns LLM output into the structured artifacts the ranking
// pipeline consumes: aspect weight mappings and narrative candidate
// analysis. Both operations degrade instead of failing — malformed or
// missing model output yields equal weights or canned narrative text, never
// an error that would abort a chat turn.
package insight
