package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/supermercado/api-supermercado/internal/articulo"
	"github.com/supermercado/api-supermercado/internal/articulo/service"
	"github.com/supermercado/api-supermercado/pkg/logger"
	"github.com/supermercado/api-supermercado/pkg/middleware"
)

// Caller-facing messages.
const (
	msgBienvenida         = "Bienvenido a la API de Supermercado"
	msgCodigoInvalido     = "Código de Artículo invalido"
	msgPrecioInvalido     = "Precio de Artículo invalido"
	msgNoEncontrado       = "Artículo no encontrado"
	msgErrorListar        = "Error al obtener los artículos de la base de datos"
	msgErrorObtener       = "Error al obtener el artículo de la base de datos"
	msgFormatoInvalido    = "Error en el formato de datos a crear."
	msgErrorCrear         = "Error al intentar agregar un nuevo artículo"
	msgErrorModificar     = "Error al modificar el artículo"
	msgNoEncontradoBorrar = "No se encontró ningun artículo con el id seleccionado."
	msgErrorEliminar      = "Error al eliminar el artículo"
)

type articuloHandler struct {
	svc service.Service
}

// RegisterArticuloRoutes registers the article gateway routes. Every response
// carries the JSON content type, including the plain-text messages.
func RegisterArticuloRoutes(r *gin.Engine, svc service.Service) {
	h := &articuloHandler{svc: svc}
	g := r.Group("/", middleware.JSONContent())

	g.GET("/", h.welcome)
	g.GET("/articulos", h.list)
	g.GET("/articulo/:id", h.get)
	g.GET("/articulo/nombre/:nombre", h.byNombre)
	g.GET("/articulo/categoria/:categoria", h.byCategoria)
	g.GET("/articulo/precio/:precio", h.byPrecio)
	g.POST("/articulo", h.create)
	g.PUT("/articulo/:id", h.update)
	g.DELETE("/articulo/:id", h.delete)
}

func (h *articuloHandler) welcome(c *gin.Context) {
	sendText(c, http.StatusOK, msgBienvenida)
}

func (h *articuloHandler) list(c *gin.Context) {
	list, err := h.svc.List(c.Request.Context())
	if err != nil {
		storeError(c, "list", err)
		sendText(c, http.StatusInternalServerError, msgErrorListar)
		return
	}
	sendJSON(c, http.StatusOK, list)
}

func (h *articuloHandler) get(c *gin.Context) {
	codigo, ok := parseCodigo(c)
	if !ok {
		return
	}
	a, err := h.svc.Get(c.Request.Context(), codigo)
	switch {
	case errors.Is(err, service.ErrNotFound):
		sendText(c, http.StatusNotFound, msgNoEncontrado)
	case err != nil:
		storeError(c, "get", err)
		sendText(c, http.StatusInternalServerError, msgErrorObtener)
	default:
		sendJSON(c, http.StatusOK, a)
	}
}

func (h *articuloHandler) byNombre(c *gin.Context) {
	text, ok := searchText(c, "nombre")
	if !ok {
		return
	}
	list, err := h.svc.FindByNombre(c.Request.Context(), text)
	h.sendSearch(c, "find_nombre", list, err)
}

func (h *articuloHandler) byCategoria(c *gin.Context) {
	text, ok := searchText(c, "categoria")
	if !ok {
		return
	}
	list, err := h.svc.FindByCategoria(c.Request.Context(), text)
	h.sendSearch(c, "find_categoria", list, err)
}

func (h *articuloHandler) byPrecio(c *gin.Context) {
	precio, err := strconv.ParseFloat(c.Param("precio"), 64)
	if err != nil {
		sendText(c, http.StatusNotFound, msgPrecioInvalido)
		return
	}
	list, err := h.svc.FindByPrecioMinimo(c.Request.Context(), precio)
	h.sendSearch(c, "find_precio", list, err)
}

func (h *articuloHandler) sendSearch(c *gin.Context, op string, list []*articulo.Articulo, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		sendText(c, http.StatusNotFound, msgNoEncontrado)
	case err != nil:
		storeError(c, op, err)
		sendText(c, http.StatusInternalServerError, msgErrorObtener)
	default:
		sendJSON(c, http.StatusOK, list)
	}
}

func (h *articuloHandler) create(c *gin.Context) {
	raw, body, ok := readBody(c)
	if !ok {
		return
	}
	var a articulo.Articulo
	if err := json.Unmarshal(raw, &a); err != nil {
		logger.Debugf("create: rejected body: %v", err)
		sendText(c, http.StatusBadRequest, msgFormatoInvalido)
		return
	}
	if err := h.svc.Create(c.Request.Context(), &a); err != nil {
		storeError(c, "create", err)
		sendText(c, http.StatusInternalServerError, msgErrorCrear)
		return
	}
	logger.Infof("Nuevo artículo creado: codigo=%d", a.Codigo)
	sendJSON(c, http.StatusCreated, body)
}

func (h *articuloHandler) update(c *gin.Context) {
	codigo, ok := parseCodigo(c)
	if !ok {
		return
	}
	_, body, ok := readBody(c)
	if !ok {
		return
	}
	n, isNumber := body["precio"].(json.Number)
	if !isNumber {
		sendText(c, http.StatusBadRequest, msgFormatoInvalido)
		return
	}
	precio, err := n.Float64()
	if err != nil {
		sendText(c, http.StatusBadRequest, msgFormatoInvalido)
		return
	}

	err = h.svc.UpdatePrecio(c.Request.Context(), codigo, precio)
	switch {
	case errors.Is(err, service.ErrNotFound):
		// nothing matched; the caller still gets the echo
		logger.Infof("update: no articulo with codigo=%d", codigo)
	case err != nil:
		storeError(c, "update_precio", err)
		sendText(c, http.StatusInternalServerError, msgErrorModificar)
		return
	default:
		logger.Infof("Artículo modificado: codigo=%d precio=%v", codigo, precio)
	}
	sendJSON(c, http.StatusOK, body)
}

func (h *articuloHandler) delete(c *gin.Context) {
	codigo, ok := parseCodigo(c)
	if !ok {
		return
	}
	if codigo == 0 {
		sendText(c, http.StatusBadRequest, msgFormatoInvalido)
		return
	}
	err := h.svc.Delete(c.Request.Context(), codigo)
	switch {
	case errors.Is(err, service.ErrNotFound):
		sendText(c, http.StatusNotFound, msgNoEncontradoBorrar)
	case err != nil:
		storeError(c, "delete", err)
		sendText(c, http.StatusInternalServerError, msgErrorEliminar)
	default:
		logger.Infof("Artículo eliminado: codigo=%d", codigo)
		sendEmpty(c, http.StatusNoContent)
	}
}

// parseCodigo reads :id as a base-10 integer. On failure it answers 404 and
// the store is never touched.
func parseCodigo(c *gin.Context) (int64, bool) {
	codigo, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		sendText(c, http.StatusNotFound, msgCodigoInvalido)
		return 0, false
	}
	return codigo, true
}

// searchText reads a search segment. Stored names are valid UTF-8, so text
// that is not can match nothing and answers 404 without a store call.
func searchText(c *gin.Context, param string) (string, bool) {
	text := c.Param(param)
	if !utf8.ValidString(text) {
		sendText(c, http.StatusNotFound, msgNoEncontrado)
		return "", false
	}
	return text, true
}

// readBody returns the raw request body and its decoded JSON object. An
// absent, empty or non-object body answers 400.
func readBody(c *gin.Context) ([]byte, map[string]interface{}, bool) {
	raw, err := c.GetRawData()
	if err != nil || len(bytes.TrimSpace(raw)) == 0 {
		sendText(c, http.StatusBadRequest, msgFormatoInvalido)
		return nil, nil, false
	}
	var body map[string]interface{}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&body); err != nil || body == nil {
		sendText(c, http.StatusBadRequest, msgFormatoInvalido)
		return nil, nil, false
	}
	return raw, body, true
}

func storeError(c *gin.Context, op string, err error) {
	logger.WithFields(logger.LevelError, "store operation failed", map[string]interface{}{
		"request_id": c.GetString(middleware.RequestIDKey),
		"operation":  op,
		"error":      err.Error(),
	})
}
