// Package contracts holds the small interfaces shared between the
// application shell and the feature handlers.
package contracts

import "github.com/julienschmidt/httprouter"

// Handler is implemented by every feature handler that mounts routes on the
// application router.
type Handler interface {
	RegisterRoutes(*httprouter.Router)
}
