package handlers

import (
	"net/http"
	"strings"

	"courseChat/internal/enums"
	"courseChat/internal/errs"
	"courseChat/internal/models"
	"courseChat/internal/msgs"
	"courseChat/internal/utils"

	"github.com/gin-gonic/gin"
)

// MustAuthenticateMiddleware resolves the bearer credential on every call;
// no session state is kept between requests. The header must be exactly
// "Bearer <token>" and the token must verify against the signing key.
func (rh *RestHandler) MustAuthenticateMiddleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		authHeader := ctx.GetHeader("Authorization")
		if authHeader == "" {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, models.Response{
				Success: false,
				Message: msgs.MsgYouMustLoginFirst,
				Errors:  []error{errs.ErrUnauthorized},
			})
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, models.Response{
				Success: false,
				Message: msgs.MsgOperationFailed,
				Errors:  []error{errs.ErrInvalidToken},
			})
			return
		}

		claims, err := utils.VerifyToken(parts[1], rh.jwtKey)
		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, models.Response{
				Success: false,
				Message: msgs.MsgYouMustLoginFirst,
				Errors:  []error{errs.ErrUnauthorized},
			})
			return
		}

		ctx.Set("user_id", claims.ID)
		ctx.Set("user_email", claims.Email)
		ctx.Set("user_full_name", claims.FullName)
		ctx.Set("user_role", claims.Role)
		ctx.Set("authenticated", true)
		ctx.Next()
	}
}

// MustAuthenticateMessagesMiddleware guards the message endpoints, which
// answer every failure with the bare {error} body instead of the envelope.
// It folds the credential and role checks into one pass; each message route
// declares its allowed roles here.
func (rh *RestHandler) MustAuthenticateMessagesMiddleware(roles ...enums.Role) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		authHeader := ctx.GetHeader("Authorization")
		if authHeader == "" {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse{
				Error: errs.ErrUnauthorized.Error(),
			})
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse{
				Error: errs.ErrInvalidToken.Error(),
			})
			return
		}

		claims, err := utils.VerifyToken(parts[1], rh.jwtKey)
		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse{
				Error: errs.ErrUnauthorized.Error(),
			})
			return
		}

		allowed := false
		for _, role := range roles {
			if claims.Role == role {
				allowed = true
				break
			}
		}
		if !claims.Role.IsValid() || !allowed {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse{
				Error: errs.ErrUnauthorized.Error(),
			})
			return
		}

		ctx.Set("user_id", claims.ID)
		ctx.Set("user_email", claims.Email)
		ctx.Set("user_full_name", claims.FullName)
		ctx.Set("user_role", claims.Role)
		ctx.Set("authenticated", true)
		ctx.Next()
	}
}

// RequireRolesMiddleware is the per-operation authorization declaration:
// each protected route names the roles allowed to call it, checked once
// here against the closed role enumeration.
func (rh *RestHandler) RequireRolesMiddleware(roles ...enums.Role) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		role := utils.GetUserRoleFromContext(ctx)
		if !role.IsValid() {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, models.Response{
				Success: false,
				Message: msgs.MsgOperationFailed,
				Errors:  []error{errs.ErrInvalidRole},
			})
			return
		}
		for _, allowed := range roles {
			if role == allowed {
				ctx.Next()
				return
			}
		}
		ctx.AbortWithStatusJSON(http.StatusUnauthorized, models.Response{
			Success: false,
			Message: msgs.MsgOperationFailed,
			Errors:  []error{errs.ErrUnauthorized},
		})
	}
}
