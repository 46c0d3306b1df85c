package middleware

import "net/http"

// Chain applies middleware in order (first executes first).
//
// Example:
//
//	handler := Chain(mux,
//	    Config(cfg),   // Executes first
//	    CORS(origins), // Executes second
//	    Auth(...),     // Executes third
//	)
func Chain(h http.Handler, middlewares ...func(http.Handler) http.Handler) http.Handler {
	// Apply in reverse so they execute in the order provided
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}
