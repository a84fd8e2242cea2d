// Package resume defines the candidate CV schema and its projection into
// embeddable text. A Resume decomposes into labeled aspects — one short
// string per fact, like "Skill: Go" or "Experience: Acme (2019-Present)" —
// which are embedded individually for per-aspect similarity scoring. The
// full text, used for pool retrieval, is the aspects joined with " | ".
package resume
