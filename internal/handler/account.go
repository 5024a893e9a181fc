package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"carteira/internal/middleware"
	"carteira/internal/models"
	"carteira/internal/store"
	"carteira/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

// AccountHandler serves /accounts. Singular routes run behind
// middleware.RequireAccountOwner.
type AccountHandler struct {
	accounts *store.AccountStore
}

func NewAccountHandler(accounts *store.AccountStore) *AccountHandler {
	return &AccountHandler{accounts: accounts}
}

type createAccountReq struct {
	ServiceName    string `json:"serviceName" binding:"required"`
	StartDate      string `json:"startDate" binding:"required"`
	ExpirationDate string `json:"expirationDate" binding:"required"`
	MaxUsers       int    `json:"maxUsers" binding:"required"`
	Price          string `json:"price" binding:"required"`
	Status         string `json:"status"`
}

// updateAccountReq uses pointers so absent fields stay untouched.
type updateAccountReq struct {
	ServiceName    *string `json:"serviceName"`
	StartDate      *string `json:"startDate"`
	ExpirationDate *string `json:"expirationDate"`
	MaxUsers       *int    `json:"maxUsers"`
	Price          *string `json:"price"`
	Status         *string `json:"status"`
}

func (r *updateAccountReq) empty() bool {
	return r.ServiceName == nil && r.StartDate == nil && r.ExpirationDate == nil &&
		r.MaxUsers == nil && r.Price == nil && r.Status == nil
}

type accountResp struct {
	ID             string    `json:"id"`
	OwnerID        string    `json:"ownerId"`
	ServiceName    string    `json:"serviceName"`
	StartDate      time.Time `json:"startDate"`
	ExpirationDate time.Time `json:"expirationDate"`
	MaxUsers       int       `json:"maxUsers"`
	Price          string    `json:"price"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func toAccountResp(a *models.Account) accountResp {
	return accountResp{
		ID:             a.ID,
		OwnerID:        a.OwnerID,
		ServiceName:    a.ServiceName,
		StartDate:      a.StartDate.UTC(),
		ExpirationDate: a.ExpirationDate.UTC(),
		MaxUsers:       a.MaxUsers,
		Price:          util.FormatPrice(a.PriceCents),
		Status:         a.Status,
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
	}
}

// invalidInput is a validation failure raised inside the update transaction.
type invalidInput struct{ msg string }

func (e *invalidInput) Error() string { return e.msg }

func invalid(err error) error { return &invalidInput{msg: err.Error()} }

func (h *AccountHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req createAccountReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, bindMessage(err))
		return
	}

	acc := &models.Account{OwnerID: userID, Status: models.AccountActive}
	if err := applyCreate(acc, &req); err != nil {
		badRequest(c, err.Error())
		return
	}

	if err := h.accounts.Create(c.Request.Context(), acc); err != nil {
		serverError(c, err, "Unable to create account")
		return
	}
	util.Success(c, http.StatusOK, toAccountResp(acc))
}

func applyCreate(acc *models.Account, req *createAccountReq) error {
	if err := util.ValidateServiceName(req.ServiceName); err != nil {
		return err
	}
	start, err := util.ParseDateTime(req.StartDate)
	if err != nil {
		return err
	}
	exp, err := util.ParseDateTime(req.ExpirationDate)
	if err != nil {
		return err
	}
	if err := util.ValidateWindow(start, exp); err != nil {
		return err
	}
	if err := util.ValidateMaxUsers(req.MaxUsers); err != nil {
		return err
	}
	cents, err := util.ParsePrice(req.Price)
	if err != nil {
		return err
	}
	if req.Status != "" {
		if !models.ValidAccountStatus(req.Status) {
			return errors.New("status must be one of ACTIVE, INACTIVE, EXPIRED")
		}
		acc.Status = req.Status
	}

	acc.ServiceName = strings.TrimSpace(req.ServiceName)
	acc.StartDate = start
	acc.ExpirationDate = exp
	acc.MaxUsers = req.MaxUsers
	acc.PriceCents = cents
	return nil
}

// List returns the caller's accounts, optionally filtered by ?status=.
func (h *AccountHandler) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	status := c.Query("status")
	if status != "" && !models.ValidAccountStatus(status) {
		badRequest(c, "status must be one of ACTIVE, INACTIVE, EXPIRED")
		return
	}

	accounts, err := h.accounts.List(c.Request.Context(), userID, status)
	if err != nil {
		serverError(c, err, "Unable to list accounts")
		return
	}
	items := make([]accountResp, 0, len(accounts))
	for i := range accounts {
		items = append(items, toAccountResp(&accounts[i]))
	}
	util.Success(c, http.StatusOK, items)
}

func (h *AccountHandler) Get(c *gin.Context) {
	acc, ok := middleware.CurrentAccount(c)
	if !ok {
		util.Error(c, http.StatusNotFound, util.CodeNotFound, "account not found")
		return
	}
	util.Success(c, http.StatusOK, toAccountResp(acc))
}

// Update applies a partial update. A body that names the owner is refused
// before anything is written.
func (h *AccountHandler) Update(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var raw map[string]json.RawMessage
	if err := c.ShouldBindBodyWith(&raw, binding.JSON); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	if _, found := raw["ownerId"]; found {
		badRequest(c, "account owner cannot be changed")
		return
	}
	if _, found := raw["owner_id"]; found {
		badRequest(c, "account owner cannot be changed")
		return
	}

	var req updateAccountReq
	if err := c.ShouldBindBodyWith(&req, binding.JSON); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	if req.empty() {
		badRequest(c, "at least one field must be provided")
		return
	}

	acc, _ := middleware.CurrentAccount(c)
	id := c.Param("id")
	if acc != nil {
		id = acc.ID
	}

	updated, err := h.accounts.Update(c.Request.Context(), userID, id, func(a *models.Account) error {
		return applyUpdate(a, &req)
	})
	if err != nil {
		var bad *invalidInput
		switch {
		case errors.As(err, &bad):
			badRequest(c, bad.msg)
		case errors.Is(err, store.ErrNotFound):
			util.Error(c, http.StatusNotFound, util.CodeNotFound, "account not found")
		case errors.Is(err, store.ErrNotOwner):
			util.Error(c, http.StatusForbidden, util.CodeForbidden, "you do not have access to this account")
		default:
			serverError(c, err, "Unable to update account")
		}
		return
	}
	util.Success(c, http.StatusOK, toAccountResp(updated))
}

func applyUpdate(a *models.Account, req *updateAccountReq) error {
	if req.ServiceName != nil {
		if err := util.ValidateServiceName(*req.ServiceName); err != nil {
			return invalid(err)
		}
		a.ServiceName = strings.TrimSpace(*req.ServiceName)
	}
	if req.StartDate != nil {
		t, err := util.ParseDateTime(*req.StartDate)
		if err != nil {
			return invalid(err)
		}
		a.StartDate = t
	}
	if req.ExpirationDate != nil {
		t, err := util.ParseDateTime(*req.ExpirationDate)
		if err != nil {
			return invalid(err)
		}
		a.ExpirationDate = t
	}
	if err := util.ValidateWindow(a.StartDate, a.ExpirationDate); err != nil {
		return invalid(err)
	}
	if req.MaxUsers != nil {
		if err := util.ValidateMaxUsers(*req.MaxUsers); err != nil {
			return invalid(err)
		}
		a.MaxUsers = *req.MaxUsers
	}
	if req.Price != nil {
		cents, err := util.ParsePrice(*req.Price)
		if err != nil {
			return invalid(err)
		}
		a.PriceCents = cents
	}
	if req.Status != nil {
		if !models.ValidAccountStatus(*req.Status) {
			return invalid(errors.New("status must be one of ACTIVE, INACTIVE, EXPIRED"))
		}
		a.Status = *req.Status
	}
	return nil
}

// Delete answers true once the account and its history row are written.
func (h *AccountHandler) Delete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	acc, ok := middleware.CurrentAccount(c)
	if !ok {
		util.Error(c, http.StatusNotFound, util.CodeNotFound, "account not found")
		return
	}

	if err := h.accounts.Delete(c.Request.Context(), userID, acc); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			util.Error(c, http.StatusNotFound, util.CodeNotFound, "account not found")
			return
		}
		serverError(c, err, "Unable to delete account")
		return
	}
	util.Success(c, http.StatusOK, true)
}
