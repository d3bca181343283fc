package auth

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/xyz-asif/roadwatch/internal/pkg/cloudinary"
	"github.com/xyz-asif/roadwatch/internal/pkg/jwt"
	"github.com/xyz-asif/roadwatch/internal/pkg/logger"
	"github.com/xyz-asif/roadwatch/internal/pkg/response"
	apperrors "github.com/xyz-asif/roadwatch/pkg/errors"
)

// UserStore is the persistence the auth handlers need. *Repository implements it.
type UserStore interface {
	UserLookup
	CreateUser(ctx context.Context, user *User) error
	GetUserByFirebaseUID(ctx context.Context, uid string) (*User, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	EmailExists(ctx context.Context, email string) (bool, error)
}

type Handler struct {
	users    UserStore
	identity IdentityProvider
	images   cloudinary.Uploader
	jwtCfg   *jwt.Config
}

func NewHandler(users UserStore, identity IdentityProvider, images cloudinary.Uploader, jwtCfg *jwt.Config) *Handler {
	return &Handler{
		users:    users,
		identity: identity,
		images:   images,
		jwtCfg:   jwtCfg,
	}
}

// Register godoc
// @Summary Register a new user
// @Description Creates the identity account and the profile. Avatar is optional.
// @Tags auth
// @Accept multipart/form-data
// @Produce json
// @Param ime formData string true "First name"
// @Param prezime formData string true "Last name"
// @Param telefon formData string true "Phone"
// @Param email formData string true "Email"
// @Param username formData string true "Username"
// @Param password formData string true "Password"
// @Param image formData file false "Avatar"
// @Success 201 {object} response.SuccessResponse{data=AuthResponse}
// @Failure 409 {object} response.ErrorResponse
// @Failure 422 {object} response.ErrorResponse
// @Router /auth/register [post]
func (h *Handler) Register(c *gin.Context) {
	ctx := c.Request.Context()

	var req RegisterRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BindJSONError(c, err)
		return
	}
	req.Normalize()

	errs := ValidateRegister(&req)

	header, err := c.FormFile("image")
	if err != nil && !errors.Is(err, http.ErrMissingFile) {
		errs.Add("image", "Image could not be read")
	}
	if header != nil {
		if err := cloudinary.ValidateImageFile(header); err != nil {
			errs.Add("image", err.Error())
		}
	}

	if len(errs) == 0 {
		if taken, err := h.users.UsernameExists(ctx, req.Username); err != nil {
			response.FromError(c, err)
			return
		} else if taken {
			errs.Add("username", "Username is already taken")
		}
		if taken, err := h.users.EmailExists(ctx, req.Email); err != nil {
			response.FromError(c, err)
			return
		} else if taken {
			errs.Add("email", "Email is already registered")
		}
	}

	if len(errs) > 0 {
		response.FieldErrors(c, errs)
		return
	}

	displayName := strings.TrimSpace(req.Ime + " " + req.Prezime)
	uid, err := h.identity.CreateUser(ctx, req.Email, req.Password, displayName)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrDuplicate) {
			response.FieldErrors(c, map[string]string{"email": "Email is already registered"})
			return
		}
		response.FromError(c, err)
		return
	}

	user := &User{
		FirebaseUID: uid,
		Email:       req.Email,
		FirstName:   req.Ime,
		LastName:    req.Prezime,
		Phone:       req.Telefon,
		Username:    req.Username,
	}

	if header != nil {
		uploaded, err := h.uploadAvatar(ctx, header)
		if err != nil {
			h.rollbackIdentity(uid)
			response.FromError(c, err)
			return
		}
		user.ImageURL = uploaded.URL
		user.ImagePublicID = uploaded.PublicID
	}

	if err := h.users.CreateUser(ctx, user); err != nil {
		h.rollbackIdentity(uid)
		if user.ImagePublicID != "" {
			if derr := h.images.Delete(context.Background(), user.ImagePublicID); derr != nil {
				logger.Warn("auth: failed to delete avatar %s after failed registration: %v", user.ImagePublicID, derr)
			}
		}
		response.FromError(c, fmt.Errorf("register %s: %w", req.Username, err))
		return
	}

	resp, err := h.issue(user)
	if err != nil {
		response.FromError(c, err)
		return
	}

	logger.Info("auth: registered user %s (%s)", user.Username, user.ID.Hex())
	response.Created(c, resp)
}

// ExchangeToken godoc
// @Summary Exchange a Firebase ID token for an API token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body TokenRequest true "Firebase ID token"
// @Success 200 {object} response.SuccessResponse{data=AuthResponse}
// @Failure 401 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /auth/token [post]
func (h *Handler) ExchangeToken(c *gin.Context) {
	var req TokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindJSONError(c, err)
		return
	}

	uid, err := h.identity.VerifyIDToken(c.Request.Context(), req.IDToken)
	if err != nil {
		response.Unauthorized(c, "Invalid ID token", "INVALID_ID_TOKEN")
		return
	}

	user, err := h.users.GetUserByFirebaseUID(c.Request.Context(), uid)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			response.NotFound(c, "No profile for this account", "USER_NOT_REGISTERED")
			return
		}
		response.FromError(c, err)
		return
	}

	resp, err := h.issue(user)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, resp)
}

// GetMe godoc
// @Summary Get current user profile
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.SuccessResponse{data=User}
// @Failure 401 {object} response.ErrorResponse
// @Router /auth/me [get]
func (h *Handler) GetMe(c *gin.Context) {
	user, ok := CurrentUser(c)
	if !ok {
		response.Unauthorized(c, "Authentication required", "AUTH_REQUIRED")
		return
	}
	response.Success(c, user)
}

func (h *Handler) issue(user *User) (*AuthResponse, error) {
	token, expiresAt, err := jwt.GenerateToken(user.ID.Hex(), user.FirebaseUID, h.jwtCfg)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	return &AuthResponse{User: user, AccessToken: token, ExpiresAt: expiresAt}, nil
}

func (h *Handler) uploadAvatar(ctx context.Context, header *multipart.FileHeader) (*cloudinary.UploadResult, error) {
	if h.images == nil {
		return nil, fmt.Errorf("image storage is not configured: %w", apperrors.ErrUnavailable)
	}
	file, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("open avatar: %w", err)
	}
	defer file.Close()

	return h.images.UploadImage(ctx, file, cloudinary.FolderProfiles)
}

func (h *Handler) rollbackIdentity(uid string) {
	if err := h.identity.DeleteUser(context.Background(), uid); err != nil {
		logger.Error("auth: failed to delete identity %s after failed registration: %v", uid, err)
	}
}
