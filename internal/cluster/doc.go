// Package cluster partitions a feature matrix into k groups.
//
// A run goes through three stages: Seed picks k initial centers with
// k-means++, Refine moves them with Lloyd iterations until assignments stop
// changing or the iteration cap is hit, and Label maps every input point to
// its nearest final center. The labels returned to callers always come from
// Label, never from the bookkeeping inside Refine, so every label is the
// nearest-center label for the returned centers. Centers are not recomputed
// after labeling; a cluster may therefore end up with a different member set
// than the one that produced its center.
//
// Nothing is shared between calls. A KMeans value built without WithRand may
// be used from several goroutines at once.
package cluster
