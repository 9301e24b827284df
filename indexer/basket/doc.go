// Package basket delivers a split index piece by piece: a Basket holds the
// part of the tree a client has, the attributions of its leaves and the ids of
// the baskets that refine its placeholders. Expansions are fetched from a
// Source, cached by a Loader, and spliced in with WithExpansion.
package basket
