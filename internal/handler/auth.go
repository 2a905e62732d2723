package handler

import (
	"net/http"

	"github.com/Alex01Dev/backend-gerencia/internal/dto"
	"github.com/Alex01Dev/backend-gerencia/internal/middleware"
	"github.com/Alex01Dev/backend-gerencia/internal/model"
	"github.com/Alex01Dev/backend-gerencia/internal/service"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	svc      service.AuthService
	registro service.RegistroService
}

func NewAuthHandler(svc service.AuthService, registro service.RegistroService) *AuthHandler {
	return &AuthHandler{svc: svc, registro: registro}
}

// Register godoc
// @Summary Registro de persona y usuario
// @Description Crea la persona y su cuenta en una sola transaccion. El nombre de usuario y el rol se derivan del nombre y el correo.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body dto.RegistroRequest true "Datos de la persona"
// @Success 201 {object} dto.RegistroResponse
// @Failure 409 {object} apierror.APIError
// @Failure 422 {object} apierror.ValidationError
// @Router /register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegistroRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.registro.Registrar(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Login godoc
// @Summary Login de usuario
// @Tags auth
// @Accept json
// @Produce json
// @Param body body dto.LoginRequest true "Credenciales"
// @Success 200 {object} dto.LoginResponse
// @Failure 401 {object} apierror.APIError
// @Router /login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Login(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Refresh godoc
// @Summary Renovar tokens
// @Tags auth
// @Accept json
// @Produce json
// @Param body body dto.RefreshRequest true "Refresh token"
// @Success 200 {object} dto.LoginResponse
// @Failure 401 {object} apierror.APIError
// @Router /refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req dto.RefreshRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ── Usuarios Handler ─────────────────────────────────────────────────────────

type UsuariosHandler struct{ svc service.AuthService }

func NewUsuariosHandler(svc service.AuthService) *UsuariosHandler {
	return &UsuariosHandler{svc: svc}
}

// Me godoc
// @Summary Perfil del usuario autenticado
// @Tags usuarios
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.PerfilResponse
// @Router /me [get]
func (h *UsuariosHandler) Me(c *gin.Context) {
	resp, err := h.svc.Me(c.Request.Context(), middleware.GetClaims(c).UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ObtenerPorID godoc
// @Summary Obtener usuario
// @Description Un usuario fuera del personal solo puede consultarse a si mismo.
// @Tags usuarios
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID de usuario"
// @Success 200 {object} dto.UsuarioResponse
// @Failure 403 {object} apierror.APIError
// @Failure 404 {object} apierror.APIError
// @Router /users/{id} [get]
func (h *UsuariosHandler) ObtenerPorID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if claims := middleware.GetClaims(c); claims.UserID != id && !claims.TieneRol(model.RolAdministrador, model.RolColaborador) {
		c.JSON(http.StatusForbidden, errPermisos)
		return
	}
	resp, err := h.svc.ObtenerUsuario(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Listar godoc
// @Summary Listar usuarios
// @Tags usuarios
// @Produce json
// @Security BearerAuth
// @Param rol query string false "Filtrar por rol"
// @Param incluir_inactivos query bool false "Incluir cuentas desactivadas"
// @Success 200 {array} dto.UsuarioResponse
// @Router /users [get]
func (h *UsuariosHandler) Listar(c *gin.Context) {
	var filter dto.UsuarioFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, errQuery(err))
		return
	}
	resp, err := h.svc.ListarUsuarios(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// AsignarRoles godoc
// @Summary Reemplazar los roles de un usuario
// @Tags usuarios
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID de usuario"
// @Param body body dto.AsignarRolesRequest true "Roles"
// @Success 200 {object} dto.UsuarioResponse
// @Router /users/{id}/roles [put]
func (h *UsuariosHandler) AsignarRoles(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.AsignarRolesRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.AsignarRoles(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Desactivar godoc
// @Summary Desactivar usuario
// @Tags usuarios
// @Security BearerAuth
// @Param id path int true "ID de usuario"
// @Success 204
// @Router /users/{id} [delete]
func (h *UsuariosHandler) Desactivar(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.svc.DesactivarUsuario(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Reactivar godoc
// @Summary Reactivar usuario
// @Tags usuarios
// @Security BearerAuth
// @Param id path int true "ID de usuario"
// @Success 204
// @Router /users/{id}/reactivar [patch]
func (h *UsuariosHandler) Reactivar(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.svc.ReactivarUsuario(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
