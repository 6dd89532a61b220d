package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nemopss/expense-tracker/backend/db"
	"github.com/nemopss/expense-tracker/backend/models"
)

// AddTransaction godoc
// @Summary Record a new income or expense transaction
// @Tags transactions
// @Accept json
// @Produce json
// @Param request body models.AddTransactionRequest true "Transaction data"
// @Success 201 {object} models.TransactionResponse
// @Failure 400 {object} models.MessageResponse
// @Failure 403 {object} models.MessageResponse
// @Security ApiKeyAuth
// @Router /api/v1/transactions/addTransaction [post]
func (h *Handler) AddTransaction(c *gin.Context) {
	var req models.AddTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.MessageResponse{Success: false, Message: err.Error()})
		return
	}
	userID := currentUserID(c)
	if req.UserID != "" && req.UserID != userID {
		c.JSON(http.StatusForbidden, models.MessageResponse{Success: false, Message: "Forbidden"})
		return
	}

	transactionType, ok := models.NormalizeType(req.TransactionType)
	if !ok {
		c.JSON(http.StatusBadRequest, models.MessageResponse{Success: false, Message: "Invalid transactionType"})
		return
	}
	date, err := db.ParseDate(req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.MessageResponse{Success: false, Message: "Invalid date"})
		return
	}

	transaction := models.Transaction{
		UserID:          userID,
		Title:           req.Title,
		Amount:          *req.Amount,
		Description:     req.Description,
		Category:        req.Category,
		TransactionType: transactionType,
		Date:            date,
	}
	if err := h.storage.CreateTransaction(&transaction); err != nil {
		c.JSON(http.StatusInternalServerError, models.MessageResponse{Success: false, Message: "Internal server error"})
		return
	}

	c.JSON(http.StatusCreated, models.TransactionResponse{
		Success:     true,
		Message:     "Transaction added successfully",
		Transaction: &transaction,
	})
}

// GetTransactions godoc
// @Summary List transactions filtered by date window and type
// @Tags transactions
// @Accept json
// @Produce json
// @Param request body models.GetTransactionsRequest true "Filter"
// @Success 200 {object} models.TransactionsResponse
// @Failure 400 {object} models.MessageResponse
// @Failure 403 {object} models.MessageResponse
// @Security ApiKeyAuth
// @Router /api/v1/transactions/getTransactions [post]
func (h *Handler) GetTransactions(c *gin.Context) {
	var req models.GetTransactionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.MessageResponse{Success: false, Message: err.Error()})
		return
	}
	userID := currentUserID(c)
	if req.UserID != "" && req.UserID != userID {
		c.JSON(http.StatusForbidden, models.MessageResponse{Success: false, Message: "Forbidden"})
		return
	}

	transactionType := ""
	if req.Type != "" && req.Type != models.TypeAll {
		var ok bool
		transactionType, ok = models.NormalizeType(req.Type)
		if !ok {
			c.JSON(http.StatusBadRequest, models.MessageResponse{Success: false, Message: "Invalid type"})
			return
		}
	}

	filter := db.TransactionFilter{
		UserID:    userID,
		Frequency: req.Frequency,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Type:      transactionType,
	}
	// Resolve the window up front so a bad frequency or date is a client
	// error, not a storage one.
	if _, _, err := filter.DateBounds(time.Now()); err != nil {
		c.JSON(http.StatusBadRequest, models.MessageResponse{Success: false, Message: err.Error()})
		return
	}

	transactions, err := h.storage.GetTransactions(filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.MessageResponse{Success: false, Message: "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, models.TransactionsResponse{Success: true, Transactions: transactions})
}

// UpdateTransaction godoc
// @Summary Update a transaction; supplied fields replace stored ones
// @Tags transactions
// @Accept json
// @Produce json
// @Param id path string true "Transaction ID"
// @Param request body models.UpdateTransactionRequest true "Fields to replace"
// @Success 200 {object} models.TransactionResponse
// @Failure 400 {object} models.MessageResponse
// @Failure 404 {object} models.MessageResponse
// @Security ApiKeyAuth
// @Router /api/v1/transactions/updateTransaction/{id} [put]
func (h *Handler) UpdateTransaction(c *gin.Context) {
	var req models.UpdateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.MessageResponse{Success: false, Message: err.Error()})
		return
	}
	userID := currentUserID(c)
	if req.UserID != "" && req.UserID != userID {
		c.JSON(http.StatusForbidden, models.MessageResponse{Success: false, Message: "Forbidden"})
		return
	}

	transaction, err := h.storage.GetTransaction(c.Param("id"))
	if err == db.ErrNotFound {
		c.JSON(http.StatusNotFound, models.MessageResponse{Success: false, Message: "Transaction not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.MessageResponse{Success: false, Message: "Internal server error"})
		return
	}
	// A foreign transaction looks exactly like a missing one.
	if transaction.UserID != userID {
		c.JSON(http.StatusNotFound, models.MessageResponse{Success: false, Message: "Transaction not found"})
		return
	}

	if req.Title != nil {
		if *req.Title == "" {
			c.JSON(http.StatusBadRequest, models.MessageResponse{Success: false, Message: "Title cannot be empty"})
			return
		}
		transaction.Title = *req.Title
	}
	if req.Amount != nil {
		transaction.Amount = *req.Amount
	}
	if req.Description != nil {
		transaction.Description = *req.Description
	}
	if req.Category != nil {
		if *req.Category == "" {
			c.JSON(http.StatusBadRequest, models.MessageResponse{Success: false, Message: "Category cannot be empty"})
			return
		}
		transaction.Category = *req.Category
	}
	if req.TransactionType != nil {
		transactionType, ok := models.NormalizeType(*req.TransactionType)
		if !ok {
			c.JSON(http.StatusBadRequest, models.MessageResponse{Success: false, Message: "Invalid transactionType"})
			return
		}
		transaction.TransactionType = transactionType
	}
	if req.Date != nil {
		date, err := db.ParseDate(*req.Date)
		if err != nil {
			c.JSON(http.StatusBadRequest, models.MessageResponse{Success: false, Message: "Invalid date"})
			return
		}
		transaction.Date = date
	}

	if err := h.storage.UpdateTransaction(transaction); err != nil {
		if err == db.ErrNotFound {
			c.JSON(http.StatusNotFound, models.MessageResponse{Success: false, Message: "Transaction not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, models.MessageResponse{Success: false, Message: "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, models.TransactionResponse{
		Success:     true,
		Message:     "Transaction updated successfully",
		Transaction: transaction,
	})
}

// DeleteTransaction godoc
// @Summary Delete a transaction permanently
// @Tags transactions
// @Accept json
// @Produce json
// @Param id path string true "Transaction ID"
// @Success 200 {object} models.MessageResponse
// @Failure 403 {object} models.MessageResponse
// @Failure 404 {object} models.MessageResponse
// @Security ApiKeyAuth
// @Router /api/v1/transactions/deleteTransaction/{id} [delete]
func (h *Handler) DeleteTransaction(c *gin.Context) {
	var req models.DeleteTransactionRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.MessageResponse{Success: false, Message: err.Error()})
			return
		}
	}
	userID := currentUserID(c)
	if req.UserID != "" && req.UserID != userID {
		c.JSON(http.StatusForbidden, models.MessageResponse{Success: false, Message: "Forbidden"})
		return
	}

	err := h.storage.DeleteTransaction(c.Param("id"), userID)
	if err == db.ErrNotFound {
		c.JSON(http.StatusNotFound, models.MessageResponse{Success: false, Message: "Transaction not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.MessageResponse{Success: false, Message: "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, models.MessageResponse{Success: true, Message: "Transaction deleted successfully"})
}
