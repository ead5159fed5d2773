// Package models defines the catalog entities persisted in the graph store.
//
// Three kinds exist, each a labeled node:
//   - [Channel] : a YouTube channel, id derived from its name
//   - [Series] : a named group of videos, id derived from its name
//   - [Video] : a single upload, id derived from its title
//
// Channels and Series are container kinds ([Kind.IsContainer]): they own CONTAINS edges to Videos.
//
// Ids are slugs assigned once by the repositories on create and never rewritten. A handle with
// an empty id has not been persisted yet (or has been deleted). Empty strings and zero times
// stand for absent attributes.
//
// Entities know nothing about the store; the repositories package converts them to and from
// node property bags.
package models
