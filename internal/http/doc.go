// Package http exposes page composition and definition management over fiber.
//
// Routes mount under /v1:
//   - Composition: POST /page/assemble, POST /page/assemble/viewer
//   - Sections: GET /page/sections, GET|POST /page/section/:id
//   - Pages: GET /pages?org=, GET|POST /page/:org/:name
//
// Responses use the {id, ver, ts, params, responseCode, result} envelope.
package http
