package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/contacthub/contacts-api/internal/core/domain"
	"github.com/contacthub/contacts-api/internal/core/ports"
)

type UserHandler struct {
	userService ports.UserService
}

func NewUserHandler(userService ports.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// Me returns the authenticated user.
//
// @Summary      Current user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  userResponse
// @Failure      401  {object}  errorResponse
// @Router       /api/users/me [get]
func (h *UserHandler) Me(c echo.Context) error {
	user, err := ctxUser(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(user))
}

// UpdateAvatar uploads a new avatar image to object storage and stores its
// URL on the user. Admin only.
//
// @Summary      Update avatar
// @Tags         users
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        file  formData  file  true  "Avatar image (jpeg, png or gif)"
// @Success      200   {object}  userResponse
// @Failure      403   {object}  errorResponse
// @Failure      415   {object}  errorResponse
// @Router       /api/users/avatar [patch]
func (h *UserHandler) UpdateAvatar(c echo.Context) error {
	user, err := ctxUser(c)
	if err != nil {
		return err
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "file is required"})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "cannot read uploaded file"})
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "cannot read uploaded file"})
	}

	updated, err := h.userService.UpdateAvatar(c.Request().Context(), user.ID, ports.AvatarUpload{
		Filename:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Data:        data,
	})
	if err != nil {
		if errors.Is(err, domain.ErrUnsupportedAvatar) {
			return c.JSON(http.StatusUnsupportedMediaType,
				errorResponse{Error: "only jpeg, png and gif images are supported"})
		}
		return err
	}

	return c.JSON(http.StatusOK, toUserResponse(updated))
}
