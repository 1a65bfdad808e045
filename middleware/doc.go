// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

Wrap handlers with request logging:

	r.Use(middleware.WithLogging)

Logs request start (method, path, remote) and completion (status,
duration_ms). Each request gets an X-Request-ID (a UUID unless the client
sent one), echoed back in the response.

# Panic Recovery

	r.Use(middleware.Recover)

A panic becomes 500 {"success":false,"message":"Something went wrong!"};
the panic value and stack are logged only.

# CORS Middleware

Enable cross-origin requests for frontend access:

	r.Use(middleware.CORS(cfg.AllowedOrigin))

With "*" the caller's Origin is reflected. Preflight OPTIONS requests are
answered directly with 200.

# JSON Helpers

Write JSON responses:

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusNotFound, "Poll not found")

Parse JSON request bodies:

	var req models.CreatePollRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

# Client IP Extraction

Get the original client IP (handles X-Forwarded-For, X-Real-IP):

	ip := middleware.GetClientIP(r)

Used in request logs.
*/
package middleware
