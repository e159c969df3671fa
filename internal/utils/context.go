package utils

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/glory-summit/summit/internal/middleware"
	"github.com/glory-summit/summit/internal/types"
)

// GetCurrentUser returns the attendee that AuthMiddleware stored on the
// request context. Handlers behind the middleware can rely on it being set.
func GetCurrentUser(ctx *gin.Context) (middleware.AuthenticatedUser, error) {
	value, exists := ctx.Get(types.ContextUserKey)

	if !exists {
		return middleware.AuthenticatedUser{}, fmt.Errorf("no authenticated attendee on request")
	}

	user, ok := value.(middleware.AuthenticatedUser)

	if !ok {
		return middleware.AuthenticatedUser{}, fmt.Errorf("unexpected attendee value on request context")
	}

	return user, nil
}

func GetCurrentUserID(ctx *gin.Context) (uint, error) {
	user, err := GetCurrentUser(ctx)

	if err != nil {
		return 0, err
	}

	return user.ID, nil
}
