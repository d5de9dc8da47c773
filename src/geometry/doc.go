// Package geometry implements the planar point-in-polygon test used to turn
// a finished lasso outline into a containment mask.
//
// The test is an even-odd ray cast with boundary inclusion: a point that lies
// on an edge or a vertex, within a tolerance proportional to the polygon's
// extent, is inside. Self-intersecting outlines follow the even-odd rule, so
// a region enclosed twice is outside. The result does not depend on the
// traversal direction or on which vertex the outline starts from.
package geometry
