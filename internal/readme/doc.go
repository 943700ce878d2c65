// Package readme resolves and renders long-form plugin documentation.
//
// # Resolution Order
//
// For a given owner/repo pair:
//
//  1. The repository content API for the default README. Inline base64
//     content is decoded; a bare download pointer is fetched instead.
//  2. Raw-content fetches across the branches main then master, trying
//     README.md, Readme.md, readme.md, README.MD, README in order. The
//     first success wins.
//  3. ErrNotFound once every candidate is exhausted.
//
// Every outbound fetch carries an absolute timeout. A timed-out or failed
// candidate is just that candidate failing; the resolver only fails when
// nothing is left to try.
//
// Resolved markdown is converted to HTML with goldmark and cached per plugin
// ID with a long TTL, together with the base URL needed to resolve relative
// image links in the document.
package readme
