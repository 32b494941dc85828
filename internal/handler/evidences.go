package handler

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/vitalis-saude/macro-periodos/backend/internal/domain"
	"github.com/vitalis-saude/macro-periodos/backend/internal/utils"
)

func (h *Handler) UploadAdminEditEvidence(w http.ResponseWriter, r *http.Request) {
	p := r.Context().Value(MacroPeriodCtx).(*domain.MacroPeriod)
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)

	r.Body = http.MaxBytesReader(w, r.Body, h.config.Upload.MaxFileSize)

	if err := r.ParseMultipartForm(h.config.Upload.MaxFileSize); err != nil {
		h.errorResponse(w, r, "arquivo muito grande ou formulário inválido")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		h.errorResponse(w, r, "o campo file é obrigatório")
		return
	}
	defer file.Close()

	if err := os.MkdirAll(h.config.Upload.Dir, 0o755); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	// o nome em disco é aleatório; o nome original fica só no banco
	suffix, err := utils.GeneratePublicToken()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	storedName := fmt.Sprintf("evidence_%d_%s%s", p.ID, suffix, filepath.Ext(header.Filename))
	storedPath := filepath.Join(h.config.Upload.Dir, storedName)

	dst, err := os.Create(storedPath)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	defer dst.Close()

	size, err := io.Copy(dst, file)
	if err != nil {
		os.Remove(storedPath)
		h.internalServerError(w, r, err)
		return
	}

	evidence := &domain.AdminEditEvidence{
		MacroPeriodID:    p.ID,
		FilePath:         storedPath,
		OriginalFilename: header.Filename,
		FileSize:         size,
		MimeType:         header.Header.Get("Content-Type"),
		Notes:            r.FormValue("notes"),
		UploadedBy:       myInfo.Username,
	}

	if err := h.repository.InsertAdminEditEvidence(evidence); err != nil {
		os.Remove(storedPath)
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "evidência registrada com sucesso", evidence)
}

func (h *Handler) GetAdminEditEvidences(w http.ResponseWriter, r *http.Request) {
	p := r.Context().Value(MacroPeriodCtx).(*domain.MacroPeriod)

	evidences, err := h.repository.GetAdminEditEvidences(p.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "lista de evidências obtida com sucesso", evidences)
}
