// Package dom is weft's dual-mode node layer. One declarative element tree
// drives either a markup-buildable description (server rendering), a live
// in-memory document whose mutations stream to a client mirror, or both
// during a one-time hydration transition.
//
// The three execution strategies share one operation surface on Element and
// Text; ChildGroups reconciles ordered, independently changing child regions
// under one parent with minimal structural mutation.
package dom
