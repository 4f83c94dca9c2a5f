// Package web provides HTTP handlers and middleware for the scheme portal.
//
// The router exposes the following endpoints:
//   - POST /eligibility: evaluates the intake form against the catalog.
//     Body: one value per criterion dimension. Response: the matching scheme
//     records in catalog order.
//   - GET /schemes, GET /schemes/{id}: catalog browsing. The list endpoint
//     accepts `q` (keyword search) and `sector` (dashboard filter) query
//     parameters.
//   - POST /register, POST /login, POST /logout, GET /session: account and
//     session management backed by the local credential store. Registration
//     logs the new account in; GET /session reports the current identity.
//   - POST /alerts, GET /alerts: records and reports the email address
//     subscribed for scheme-update notices.
//
// Request/response DTOs live alongside their respective handlers so tests and
// documentation share the same ground truth.
package web
