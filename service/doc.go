// Package service contains the orchestration layer: candidate pool
// management (population-on-miss from the vector store) and the
// conversational ranking pipeline that turns a recruiter query into
// weighted rankings plus a narrative analysis.
//
// All collaborators are injected through constructors. The services own no
// goroutines; every external call is bounded by a timeout derived from
// configuration.
package service
