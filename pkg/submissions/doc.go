// Package submissions reads collected responses back from the hosting
// service and shapes them for review: it resolves answer values against the
// current field layout even after fields were renamed or reordered, binds
// well-known roles (name, phone, email, ...) to fields by label keywords,
// and renders values to display-safe HTML.
package submissions
