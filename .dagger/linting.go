package main

import (
	"context"
	"fmt"

	"dagger/hindsight/internal/dagger"
)

const golangciLintVersion = "v2.8.0"

// lintOpts returns the common GolangcilintOpts used by both CheckLint and FixLint.
// It layers golangci-lint on top of goContainer() so the sqlite dev headers,
// CGO, and Go caches are already in place.
func (h *Hindsight) lintOpts() dagger.GolangcilintOpts {
	base := h.goContainer().
		WithExec([]string{
			"go",
			"install",
			fmt.Sprintf("github.com/golangci/golangci-lint/v2/cmd/golangci-lint@%s", golangciLintVersion),
		})

	return dagger.GolangcilintOpts{
		BaseCtr: base,
		Config:  h.Source.File(".golangci.yml"),
	}
}

// CheckLint runs golangci-lint against the hindsight source code without applying fixes.
func (h *Hindsight) CheckLint(ctx context.Context) (string, error) {
	return dag.Golangcilint(h.Source, h.lintOpts()).Check(ctx)
}

// FixLint runs golangci-lint against the hindsight source code with --fix, applying
// automatic fixes where possible, and returns the modified source directory.
func (h *Hindsight) FixLint(ctx context.Context) *dagger.Directory {
	return dag.Golangcilint(h.Source, h.lintOpts()).Lint()
}
