// Package persist keeps the in-memory form definition from being lost. It
// runs two independent channels with different guarantees:
//
//   - a local draft channel: best-effort, debounced, written to a DraftStore
//     keyed by the normalised site name; failures are swallowed because the
//     draft is advisory, never required for correctness;
//   - a remote autosave channel: debounced and coalesced, with at most one
//     save in flight; failures are swallowed and retried implicitly by the
//     next debounce cycle.
//
// Explicit, user-triggered saves go through Coordinator.Save: they are not
// debounced, require a consumed save intent (so unrelated buttons can never
// trigger them), surface errors to the caller, and arm a one-shot
// confirmation artifact carrying the resolved public/admin URLs.
package persist
