package teller

import (
	"net/http"
	"strconv"

	"github.com/adonese/bankd/apperr"
	"github.com/adonese/bankd/bank"
	"github.com/gin-gonic/gin"
)

// abortWithError answers with the error's status and payload; storage
// failures are additionally logged with their cause.
func (s *Service) abortWithError(c *gin.Context, err error) {
	status := apperr.Status(err)
	if status >= http.StatusInternalServerError {
		s.Logger.WithField("error", err.Error()).Error("operation failed")
	}
	c.JSON(status, apperr.Payload(err))
}

// GetAccounts lists accounts, optionally filtered by the type query
// parameter.
func (s *Service) GetAccounts(c *gin.Context) {
	ctx := c.Request.Context()
	var (
		accounts []bank.Account
		err      error
	)
	if accountType, ok := c.GetQuery("type"); ok {
		accounts, err = s.ListAccountsByType(ctx, accountType)
	} else {
		accounts, err = s.ListAccounts(ctx)
	}
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	views := NewAccountViews(accounts)
	c.JSON(http.StatusOK, gin.H{"result": views, "count": len(views)})
}

// GetProfitAccounts lists only accounts that produce annual profit.
func (s *Service) GetProfitAccounts(c *gin.Context) {
	accounts, err := s.ListProfitAccounts(c.Request.Context())
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	views := NewAccountViews(accounts)
	c.JSON(http.StatusOK, gin.H{"result": views, "count": len(views)})
}

// GetAccountByNumber fetches one account by number.
func (s *Service) GetAccountByNumber(c *gin.Context) {
	number, err := queryInt64(c, "number")
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	acc, err := s.GetAccount(c.Request.Context(), number)
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": NewAccountView(acc)})
}

// GetClients lists every client.
func (s *Service) GetClients(c *gin.Context) {
	clients, err := s.ListClients(c.Request.Context())
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": clients, "count": len(clients)})
}

// GetAssociations lists every account-client link.
func (s *Service) GetAssociations(c *gin.Context) {
	associations, err := s.ListAssociations(c.Request.Context())
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": associations, "count": len(associations)})
}

// PostAccount creates a new account, with its first client when provided.
func (s *Service) PostAccount(c *gin.Context) {
	var req CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.abortWithError(c, apperr.Wrap(err, apperr.ErrValidation, err.Error()))
		return
	}
	acc, err := s.CreateAccount(c.Request.Context(), req)
	observe("create_account", err)
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"result": NewAccountView(acc)})
}

// PostRegisterClient adds a client to an existing account.
func (s *Service) PostRegisterClient(c *gin.Context) {
	var req RegisterClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.abortWithError(c, apperr.Wrap(err, apperr.ErrValidation, err.Error()))
		return
	}
	client, err := s.RegisterClient(c.Request.Context(), req.AccountNumber, req.Client.Name, req.Client.Rank)
	observe("register_client", err)
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"result": client})
}

// PostUpdateRank changes a client's rank.
func (s *Service) PostUpdateRank(c *gin.Context) {
	var req UpdateRankRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.abortWithError(c, apperr.Wrap(err, apperr.ErrValidation, err.Error()))
		return
	}
	err := s.UpdateClientRank(c.Request.Context(), req.ClientID, req.Rank)
	observe("update_rank", err)
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": "rank updated"})
}

// PostRemoveClient removes a client from an account; the response says
// whether the client record itself was deleted.
func (s *Service) PostRemoveClient(c *gin.Context) {
	var req RemoveClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.abortWithError(c, apperr.Wrap(err, apperr.ErrValidation, err.Error()))
		return
	}
	clientDeleted, err := s.RemoveClientFromAccount(c.Request.Context(), req.AccountNumber, req.ClientID)
	observe("remove_client", err)
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	msg := "client removed from account"
	if clientDeleted {
		msg = "client removed from account and deleted (no remaining associations)"
	}
	c.JSON(http.StatusOK, gin.H{"result": msg, "client_deleted": clientDeleted})
}

// GetVIPProfit answers the hypothetical all-ranks-zero profit of a
// business account.
func (s *Service) GetVIPProfit(c *gin.Context) {
	number, err := queryInt64(c, "number")
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	profit, err := s.CheckVIPProfit(c.Request.Context(), number)
	observe("vip_profit", err)
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": profit})
}

func queryInt64(c *gin.Context, key string) (int64, error) {
	raw, ok := c.GetQuery(key)
	if !ok {
		return 0, apperr.WithMessage(apperr.ErrBadRequest, key+" query parameter is required")
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v <= 0 {
		return 0, apperr.WithMessage(apperr.ErrBadRequest, key+" must be a positive integer")
	}
	return v, nil
}
