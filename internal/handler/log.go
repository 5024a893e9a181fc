package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"carteira/internal/store"
	"carteira/internal/util"

	"github.com/gin-gonic/gin"
)

// LogHandler lists the account history and the request audit trail of the caller.
type LogHandler struct {
	accounts *store.AccountStore
	audit    *store.AuditStore
}

func NewLogHandler(accounts *store.AccountStore, audit *store.AuditStore) *LogHandler {
	return &LogHandler{accounts: accounts, audit: audit}
}

type historyResp struct {
	ID        uint            `json:"id"`
	AccountID string          `json:"accountId"`
	Action    string          `json:"action"`
	Details   json.RawMessage `json:"details,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
}

type logResp struct {
	ID        uint      `json:"id"`
	Method    string    `json:"method"`
	Path      string    `json:"path"`
	Status    int       `json:"status"`
	IP        string    `json:"ip"`
	UserAgent string    `json:"userAgent"`
	CreatedAt time.Time `json:"createdAt"`
}

// ListHistory pages through ACCOUNT_* rows, newest first.
func (h *LogHandler) ListHistory(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	page, size, offset := pagination(c, 50)

	rows, total, err := h.accounts.History(c.Request.Context(), userID, size, offset)
	if err != nil {
		serverError(c, err, "Unable to list history")
		return
	}

	items := make([]historyResp, 0, len(rows))
	for _, r := range rows {
		item := historyResp{
			ID:        r.ID,
			AccountID: r.AccountID,
			Action:    r.Action,
			CreatedAt: r.CreatedAt,
		}
		// rows written under another key do not decrypt
		if json.Valid([]byte(r.Details)) {
			item.Details = json.RawMessage(r.Details)
		}
		items = append(items, item)
	}
	util.Success(c, http.StatusOK, pageResp[historyResp]{Items: items, Total: total, Page: page, Size: size})
}

// ListLogs pages through the audit trail, newest first.
func (h *LogHandler) ListLogs(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	page, size, offset := pagination(c, 20)

	rows, total, err := h.audit.List(c.Request.Context(), userID, size, offset)
	if err != nil {
		serverError(c, err, "Unable to list audit logs")
		return
	}

	items := make([]logResp, 0, len(rows))
	for _, r := range rows {
		items = append(items, logResp{
			ID:        r.ID,
			Method:    r.Method,
			Path:      r.Path,
			Status:    r.Status,
			IP:        r.IP,
			UserAgent: r.UserAgent,
			CreatedAt: r.CreatedAt,
		})
	}
	util.Success(c, http.StatusOK, pageResp[logResp]{Items: items, Total: total, Page: page, Size: size})
}
