// Package selection turns closed lasso sessions into point selections.
//
// Two handlers implement lasso.Handler:
//
// XYHandler works on point sets given up front, one per surface. Surfaces
// configured together are linked: they show the same records in different
// projections, so the mask computed where the lasso was drawn highlights the
// same records everywhere.
//
// AutoHandler discovers point sets from the objects drawn on the surface.
// Scatter-like objects (OffsetSource) and line-like objects (DataSource) are
// tested; anything else is skipped with a debug log.
//
// Both keep one marker overlay per surface, hidden when a session opens and
// shown with the selected points when it closes.
package selection
