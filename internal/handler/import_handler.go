package handler

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"gratifpanel/internal/models"
	"gratifpanel/internal/service"
)

// maxUploadSize caps multipart parsing; monthly extracts stay well under it.
const maxUploadSize = 50 << 20

// ImportHandler exposes the CSV validation/import pipeline and the
// competency maintenance endpoints.
type ImportHandler struct {
	imports *service.ImportService
}

// NewImportHandler creates a new ImportHandler.
func NewImportHandler(imports *service.ImportService) *ImportHandler {
	return &ImportHandler{imports: imports}
}

// RegisterRoutes registers import routes on the mux.
func (h *ImportHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/validar", h.Validar)
	mux.HandleFunc("POST /api/importar", h.Importar)
	mux.HandleFunc("GET /api/historico", h.Historico)
	mux.HandleFunc("GET /api/competencias", h.Competencias)
	mux.HandleFunc("POST /api/delete-competencia", h.DeleteCompetencia)
}

// Validar handles POST /api/validar (multipart: arquivo).
// Dry run only: nothing is persisted.
func (h *ImportHandler) Validar(w http.ResponseWriter, r *http.Request) {
	data, _, ok := h.readUpload(w, r)
	if !ok {
		return
	}

	resultado, err := h.imports.Validar(r.Context(), data)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	JSON(w, http.StatusOK, resultado)
}

// Importar handles POST /api/importar (multipart: arquivo; form: usuario, substituir).
func (h *ImportHandler) Importar(w http.ResponseWriter, r *http.Request) {
	data, filename, ok := h.readUpload(w, r)
	if !ok {
		return
	}

	usuario := strings.TrimSpace(r.FormValue("usuario"))
	if usuario == "" {
		Error(w, http.StatusBadRequest, "usuario is required")
		return
	}
	substituir := parseBool(r.FormValue("substituir"))

	resultado, err := h.imports.Importar(r.Context(), data, filename, usuario, substituir)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	JSON(w, http.StatusOK, resultado)
}

// Historico handles GET /api/historico.
func (h *ImportHandler) Historico(w http.ResponseWriter, r *http.Request) {
	dados, err := h.imports.Historico(r.Context())
	if err != nil {
		Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	if dados == nil {
		dados = []models.ImportacaoLog{}
	}
	JSON(w, http.StatusOK, map[string]interface{}{
		"ok":    true,
		"dados": dados,
	})
}

// Competencias handles GET /api/competencias.
func (h *ImportHandler) Competencias(w http.ResponseWriter, r *http.Request) {
	competencias, err := h.imports.Competencias(r.Context())
	if err != nil {
		Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	if competencias == nil {
		competencias = []models.CompetenciaResumo{}
	}
	JSON(w, http.StatusOK, map[string]interface{}{
		"ok":           true,
		"competencias": competencias,
	})
}

// deleteCompetenciaRequest is the JSON payload for on-demand deletion.
type deleteCompetenciaRequest struct {
	MesAno string `json:"mes_ano"`
}

// DeleteCompetencia handles POST /api/delete-competencia.
func (h *ImportHandler) DeleteCompetencia(w http.ResponseWriter, r *http.Request) {
	var req deleteCompetenciaRequest
	if err := Decode(r, &req); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.MesAno) == "" {
		Error(w, http.StatusBadRequest, "mes_ano is required")
		return
	}

	deleted, err := h.imports.DeleteCompetencia(r.Context(), strings.TrimSpace(req.MesAno))
	if err != nil {
		Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	JSON(w, http.StatusOK, map[string]interface{}{
		"ok":      true,
		"deleted": deleted,
	})
}

// readUpload extracts the "arquivo" multipart file. On failure it writes the
// error response itself and returns ok=false.
func (h *ImportHandler) readUpload(w http.ResponseWriter, r *http.Request) (data []byte, filename string, ok bool) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		Error(w, http.StatusBadRequest, "failed to parse form: "+err.Error())
		return nil, "", false
	}

	file, header, err := r.FormFile("arquivo")
	if err != nil {
		Error(w, http.StatusBadRequest, "arquivo is required")
		return nil, "", false
	}
	defer file.Close()

	data, err = io.ReadAll(file)
	if err != nil {
		Error(w, http.StatusInternalServerError, "failed to read upload: "+err.Error())
		return nil, "", false
	}
	return data, header.Filename, true
}

// respondServiceError maps typed pipeline errors to client errors; anything
// else is a server-side failure.
func respondServiceError(w http.ResponseWriter, err error) {
	var validationErr *service.ValidationError
	if errors.As(err, &validationErr) {
		Error(w, http.StatusBadRequest, validationErr.Error())
		return
	}
	var parseErr *service.ParseError
	if errors.As(err, &parseErr) {
		Error(w, http.StatusBadRequest, parseErr.Error())
		return
	}
	Error(w, http.StatusInternalServerError, err.Error())
}

func parseBool(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "true", "1", "on", "sim":
		return true
	}
	return false
}
