package http

import "github.com/labstack/echo/v4"

// Routes attaches a group of endpoints to the server's echo instance.
type Routes interface {
	RegisterRoutes(e *echo.Echo)
}
