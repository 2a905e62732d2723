package handler

import (
	"net/http"

	"github.com/Alex01Dev/backend-gerencia/internal/dto"
	"github.com/Alex01Dev/backend-gerencia/internal/middleware"
	"github.com/Alex01Dev/backend-gerencia/internal/model"
	"github.com/Alex01Dev/backend-gerencia/internal/service"

	"github.com/gin-gonic/gin"
)

type PersonasHandler struct {
	svc       service.PersonaService
	usuarios  service.AuthService
	generador service.GeneradorService
}

func NewPersonasHandler(svc service.PersonaService, usuarios service.AuthService, generador service.GeneradorService) *PersonasHandler {
	return &PersonasHandler{svc: svc, usuarios: usuarios, generador: generador}
}

// puedeVer lets staff through and otherwise only the persona's own account.
func (h *PersonasHandler) puedeVer(c *gin.Context, personaID uint) bool {
	claims := middleware.GetClaims(c)
	if claims.TieneRol(model.RolAdministrador, model.RolColaborador) {
		return true
	}
	u, err := h.usuarios.ObtenerUsuario(c.Request.Context(), claims.UserID)
	if err != nil {
		respondError(c, err)
		return false
	}
	if u.PersonaID != personaID {
		c.JSON(http.StatusForbidden, errPermisos)
		return false
	}
	return true
}

// Listar godoc
// @Summary Listar personas (administrador o colaborador)
// @Tags personas
// @Produce json
// @Security BearerAuth
// @Param activo query string false "true (default), false o all"
// @Param page query int false "Pagina"
// @Param limit query int false "Tamano de pagina (max 200)"
// @Success 200 {object} dto.PersonaListResponse
// @Failure 403 {object} apierror.APIError
// @Router /personas [get]
func (h *PersonasHandler) Listar(c *gin.Context) {
	var filter dto.PersonaFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, errQuery(err))
		return
	}
	resp, err := h.svc.Listar(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// TipoSangre godoc
// @Summary Distribucion de personas por tipo de sangre
// @Tags personas
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.TipoSangreResponse
// @Router /personas/tipo-sangre [get]
func (h *PersonasHandler) TipoSangre(c *gin.Context) {
	resp, err := h.svc.DistribucionTipoSangre(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ObtenerPorID godoc
// @Summary Obtener persona
// @Tags personas
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID de persona"
// @Success 200 {object} dto.PersonaResponse
// @Failure 404 {object} apierror.APIError
// @Router /personas/{id} [get]
func (h *PersonasHandler) ObtenerPorID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok || !h.puedeVer(c, id) {
		return
	}
	resp, err := h.svc.ObtenerPorID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Actualizar godoc
// @Summary Actualizar persona
// @Description Solo se modifican los campos presentes. El nombre de usuario y el rol no se recalculan.
// @Tags personas
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID de persona"
// @Param body body dto.ActualizarPersonaRequest true "Campos a modificar"
// @Success 200 {object} dto.PersonaResponse
// @Router /personas/{id} [put]
func (h *PersonasHandler) Actualizar(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.ActualizarPersonaRequest
	if !bindAndValidate(c, &req) || !h.puedeVer(c, id) {
		return
	}
	resp, err := h.svc.Actualizar(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Eliminar godoc
// @Summary Eliminar persona con su usuario
// @Tags personas
// @Security BearerAuth
// @Param id path int true "ID de persona"
// @Success 204
// @Failure 409 {object} apierror.APIError
// @Router /personas/{id} [delete]
func (h *PersonasHandler) Eliminar(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.svc.Eliminar(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Generar godoc
// @Summary Generar personas aleatorias
// @Tags personas
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.GenerarPersonasRequest true "Parametros"
// @Success 201 {object} dto.GeneracionResponse
// @Router /personas/generar [post]
func (h *PersonasHandler) Generar(c *gin.Context) {
	var req dto.GenerarPersonasRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.generador.GenerarPersonas(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}
