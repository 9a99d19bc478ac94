// Package scan implements the parallel file walker, worker pool and
// rule-execution pipeline that turns a directory tree plus a
// rule.Collection into a stream of findings (§5).
package scan

// Scope describes what Walk should traverse and which files it should
// hand to workers, generalized from the teacher's core.FileScope.
type Scope struct {
	Path           string
	Include        []string
	Exclude        []string
	MaxFiles       int
	MaxDepth       int
	FollowSymlinks bool
}
