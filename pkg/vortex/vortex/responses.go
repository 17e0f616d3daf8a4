package vortex

import "errors"

// DefaultErrorHandler maps a Handler's returned error to a status code
// and a small JSON body, matching §7's routing/handler error taxonomy.
// Install a custom ErrorHandler via Config.ErrorHandler for anything
// more elaborate.
func DefaultErrorHandler(c *Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		_ = c.JSON(404, map[string]string{"error": "Not Found", "message": "no route matches the request"})
	case errors.Is(err, ErrMethodNotAllowed):
		_ = c.JSON(405, map[string]string{"error": "Method Not Allowed", "message": "method not supported"})
	case errors.Is(err, ErrBadRequest):
		_ = c.JSON(400, map[string]string{"error": "Bad Request"})
	case errors.Is(err, ErrRequestTooLarge):
		_ = c.JSON(413, map[string]string{"error": "Payload Too Large"})
	default:
		_ = c.JSON(500, map[string]string{"error": "Internal Server Error"})
	}
}
