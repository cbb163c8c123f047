package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/team-task-tracker/internal/constants"
	apierrors "github.com/yukikurage/team-task-tracker/internal/errors"
	"github.com/yukikurage/team-task-tracker/internal/identity"
	"github.com/yukikurage/team-task-tracker/internal/models"
	"github.com/yukikurage/team-task-tracker/internal/repository"
	"gorm.io/gorm"
)

var errOrganizationNotFound = apierrors.NewNotFoundError("Organization not found")

// RequireOrganizationAccess checks if the user is a member of the organization
// named by the :id parameter.
func RequireOrganizationAccess(orgRepo repository.OrganizationRepository, directory identity.Directory) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := GetUserID(c)
		if !ok {
			apierrors.Respond(c, apierrors.NewAuthError("Authentication required"))
			c.Abort()
			return
		}

		org, err := orgRepo.FindByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				apierrors.Respond(c, errOrganizationNotFound)
			} else {
				apierrors.Respond(c, apierrors.Store("failed to find organization", err))
			}
			c.Abort()
			return
		}

		role, err := directory.MemberRole(c.Request.Context(), org.ID, userID)
		if err != nil {
			if errors.Is(err, identity.ErrNotMember) {
				// Return 404 instead of 403 to avoid leaking organization existence
				apierrors.Respond(c, errOrganizationNotFound)
			} else {
				apierrors.Respond(c, apierrors.Provider("failed to look up membership", err))
			}
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyOrg, *org)
		c.Set(constants.ContextKeyOrgRole, role)
		c.Next()
	}
}

// RequireOrganizationAdmin checks if the user is an admin of the organization.
// Must run after RequireOrganizationAccess or RequireTaskAccess.
func RequireOrganizationAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := GetOrganizationRole(c)
		if !ok {
			apierrors.Respond(c, apierrors.NewAccessDeniedError(apierrors.ErrCodeForbidden, "Organization access required"))
			c.Abort()
			return
		}

		if role != models.RoleAdmin {
			apierrors.Respond(c, apierrors.NewAccessDeniedError(apierrors.ErrCodeForbidden, "Only organization admins can perform this action"))
			c.Abort()
			return
		}

		c.Next()
	}
}

// GetOrganization returns the organization loaded by RequireOrganizationAccess
func GetOrganization(c *gin.Context) (models.Organization, bool) {
	value, ok := c.Get(constants.ContextKeyOrg)
	if !ok {
		return models.Organization{}, false
	}
	org, ok := value.(models.Organization)
	return org, ok
}

// GetOrganizationRole returns the caller's role set by RequireOrganizationAccess
// or RequireTaskAccess
func GetOrganizationRole(c *gin.Context) (models.OrganizationRole, bool) {
	value, ok := c.Get(constants.ContextKeyOrgRole)
	if !ok {
		return "", false
	}
	role, ok := value.(models.OrganizationRole)
	return role, ok
}
