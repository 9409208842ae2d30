// Package server provides the JSON HTTP API used by browser extensions and other local clients.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally with method filtering.
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
// [JobsHandler] and [AccountHandler] dispatch internally with method patterns ("GET /api/jobs/{id}").
//
// # Endpoints
//
//	GET    /health
//	GET    /api/jobs?q=&limit=&offset=   search the user's records
//	POST   /api/jobs                     upsert a candidate (201 created, 200 updated)
//	DELETE /api/jobs?backup=&format=     clear the user's records, backing up first by default
//	GET    /api/jobs/{id}
//	PUT    /api/jobs/{id}                edit a record
//	DELETE /api/jobs/{id}
//	GET    /api/export?format=           download the export view
//	GET    /api/users, POST /api/users, GET /api/users/{username}
//	GET    /api/session, POST /api/session, DELETE /api/session
//	GET    /api/settings, GET /api/settings/{key}, PUT /api/settings/{key}
//	POST   /api/scrape                   scrape a listing URL, optionally saving it
//
// # Users
//
// Requests act for the user named by the X-Jobtrack-User header, else the user query parameter,
// else the user remembered by the last login.
//
// # Errors
//
// Errors are JSON bodies {"error": "..."}: validation 400, no user 401, not found 404,
// duplicate link 409, storage failures 500.
package server
