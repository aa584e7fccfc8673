// Package server implements the same-origin artist metadata proxy.
//
// Endpoint:
//   - GET /api/artist?artist=<name> forwards artist.getinfo to the provider
//     with the server-held key; 400 when the artist parameter is missing,
//     500 when the upstream fetch itself fails, otherwise the provider's
//     status and JSON payload are relayed unmodified.
//
// Build the surface with [NewBasicRouter], [Logging] middleware and
// [NewArtistHandler]; serve it with a plain [net/http.Server].
package server
