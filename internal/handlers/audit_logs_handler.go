package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/audit"
	"github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/httperr"
	"github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/httpresp"
)

// ======================================================
// HANDLER
// ======================================================

type AuditLogsHandler struct {
	reader audit.Reader
}

func NewAuditLogsHandler(reader audit.Reader) *AuditLogsHandler {
	return &AuditLogsHandler{reader: reader}
}

// List supports ?action=&entity=&from=YYYY-MM-DD&to=YYYY-MM-DD plus paging.
func (h *AuditLogsHandler) List(c *gin.Context) {
	page, ok := pageQuery(c)
	if !ok {
		return
	}

	f := audit.Filter{
		Action: c.Query("action"),
		Entity: c.Query("entity"),
	}

	for key, dst := range map[string]**time.Time{"from": &f.From, "to": &f.To} {
		v := c.Query(key)
		if v == "" {
			continue
		}
		t, err := time.Parse(time.DateOnly, v)
		if err != nil {
			httperr.BadRequest(c, "invalid_date", key+" must be YYYY-MM-DD")
			return
		}
		*dst = &t
	}

	logs, total, err := h.reader.List(c.Request.Context(), f, page)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.List(c, logs, total)
}
