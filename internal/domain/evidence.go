package domain

import "time"

// AdminEditEvidence guarda os metadados do documento que justifica a
// liberação de uma edição administrativa.
type AdminEditEvidence struct {
	ID               int64     `json:"id"`
	MacroPeriodID    int64     `json:"macroPeriodID"`
	FilePath         string    `json:"filePath"`
	OriginalFilename string    `json:"originalFilename"`
	FileSize         int64     `json:"fileSize"`
	MimeType         string    `json:"mimeType"`
	Notes            string    `json:"notes"`
	UploadedBy       string    `json:"uploadedBy"`
	UploadedAt       time.Time `json:"uploadedAt"`
}
