//go:build invariants

package search

const invariantsEnabled = true
