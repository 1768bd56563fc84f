// Package server exposes the song library over HTTP.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
// [Logging] records method, path, status and duration for every request; [Recover] turns panics into 500s.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally with method filtering.
//
// # RPC Methods
//
// [APIHandler] serves GET and POST /api/method/<name>. Parameters are read from the query string, a form body
// or a JSON object body, in that order of precedence (body values win). Results are wrapped as
//
//	{"message": <result>}
//
// Failures are classified with [shared.ErrorKind]:
//
//	validation -> 417
//	not_found  -> 404
//	upstream   -> 502 (logged)
//	internal   -> 500 (logged, message masked)
//
// # Pages
//
// [PageHandler] serves GET /music-player?playlist=<ref>&favorites=1 as the JSON page context built by web.Builder.
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
package server
