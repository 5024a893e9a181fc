package handler

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"carteira/internal/models"
	"carteira/internal/store"
	"carteira/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

// ExportHandler downloads the caller's accounts as CSV or XLSX.
type ExportHandler struct {
	accounts *store.AccountStore
	now      func() time.Time
}

func NewExportHandler(accounts *store.AccountStore) *ExportHandler {
	return &ExportHandler{accounts: accounts, now: time.Now}
}

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var exportHeader = []string{"Service", "Start date", "Expiration date", "Max users", "Price", "Status"}

func exportRow(a *models.Account) []string {
	return []string{
		a.ServiceName,
		a.StartDate.UTC().Format(time.RFC3339),
		a.ExpirationDate.UTC().Format(time.RFC3339),
		strconv.Itoa(a.MaxUsers),
		util.FormatPrice(a.PriceCents),
		a.Status,
	}
}

func (h *ExportHandler) load(c *gin.Context) ([]models.Account, bool) {
	userID, ok := currentUserID(c)
	if !ok {
		return nil, false
	}
	status := c.Query("status")
	if status != "" && !models.ValidAccountStatus(status) {
		badRequest(c, "status must be one of ACTIVE, INACTIVE, EXPIRED")
		return nil, false
	}
	accounts, err := h.accounts.List(c.Request.Context(), userID, status)
	if err != nil {
		serverError(c, err, "Unable to load accounts for export")
		return nil, false
	}
	return accounts, true
}

func (h *ExportHandler) ExportCSV(c *gin.Context) {
	accounts, ok := h.load(c)
	if !ok {
		return
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write(exportHeader)
	for i := range accounts {
		_ = w.Write(exportRow(&accounts[i]))
	}
	w.Flush()
	if err := w.Error(); err != nil {
		serverError(c, err, "Unable to write CSV export")
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"accounts_%s.csv\"",
		h.now().Format("20060102")))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

func (h *ExportHandler) ExportXLSX(c *gin.Context) {
	accounts, ok := h.load(c)
	if !ok {
		return
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Accounts"
	index, err := f.NewSheet(sheet)
	if err != nil {
		serverError(c, err, "Unable to create sheet")
		return
	}
	f.SetActiveSheet(index)
	_ = f.DeleteSheet("Sheet1")

	rows := make([][]string, 0, len(accounts)+1)
	rows = append(rows, exportHeader)
	for i := range accounts {
		rows = append(rows, exportRow(&accounts[i]))
	}
	for r, row := range rows {
		for col, v := range row {
			cell, err := excelize.CoordinatesToCellName(col+1, r+1)
			if err != nil {
				serverError(c, err, "Unable to address cell")
				return
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				serverError(c, err, "Unable to write cell")
				return
			}
		}
	}
	_ = f.SetColWidth(sheet, "A", "A", 24)
	_ = f.SetColWidth(sheet, "B", "C", 22)
	_ = f.SetColWidth(sheet, "D", "F", 12)

	buf, err := f.WriteToBuffer()
	if err != nil {
		serverError(c, err, "Unable to write XLSX export")
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"accounts_%s.xlsx\"",
		h.now().Format("20060102")))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
