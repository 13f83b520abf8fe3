// Package normalize provides the pure identity functions used across an
// ingestion run.
//
// URLs are canonicalized before they are compared, slugs are derived from
// titles or URL path segments, and every generated id is scoped to the
// source that produced it:
//
//	normalize.URL("https://medium.com/@me/post?source=rss/")  // "https://medium.com/@me/post"
//	normalize.Slugify("Hello, World!")                         // "hello-world"
//	normalize.DeriveID(entry, "application")                   // "application:trailing-com"
//
// # Collisions
//
// A Registry remembers which logical entity claimed each id during a run.
// A second entity deriving the same id receives the id with a short BLAKE2b
// hash of its identity appended.
package normalize
