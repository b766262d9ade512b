// Copyright (C) 2025, ADXYZ Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package fakeapi

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/luxfi/admarket/pkg/api"
	"github.com/luxfi/admarket/pkg/telegram"
)

const userKey = "user"

// Server is the fake backend.
type Server struct {
	*store
	engine *gin.Engine

	reportRole bool
}

// New builds the backend with an empty store.
func New() *Server {
	gin.SetMode(gin.TestMode)
	s := &Server{store: newStore()}
	s.engine = s.routes()
	return s
}

// Handler serves the API.
func (s *Server) Handler() http.Handler { return s.engine }

// ReportViewerRole toggles viewer_role in deal responses, as newer
// backends send it.
func (s *Server) ReportViewerRole(on bool) {
	s.mu.Lock()
	s.reportRole = on
	s.mu.Unlock()
}

// SetClock fixes the backend's notion of now.
func (s *Server) SetClock(now func() time.Time) {
	s.mu.Lock()
	s.now = now
	s.mu.Unlock()
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})
	r.POST("/auth/miniapp", s.handleLogin)

	authed := r.Group("/", s.requireUser)
	{
		authed.GET("/auth/me", s.handleMe)
		authed.POST("/auth/me/wallet", s.handleLinkWallet)

		authed.GET("/listings", s.handleListListings)
		authed.POST("/listings", s.handleCreateListing)
		authed.GET("/listings/:id", s.handleGetListing)

		authed.GET("/requests", s.handleListRequests)
		authed.POST("/requests", s.handleCreateRequest)
		authed.GET("/requests/:id", s.handleGetRequest)

		authed.GET("/channels", s.handleListChannels)
		authed.POST("/channels", s.handleCreateChannel)
		authed.DELETE("/channels/:id", s.handleDeleteChannel)
		authed.GET("/channels/:id/managers", s.handleListManagers)
		authed.POST("/channels/:id/managers", s.handleAddManager)
		authed.DELETE("/channels/:id/managers/:mid", s.handleRemoveManager)
		authed.GET("/channels/:id/tg-admins", s.handleTgAdmins)
		authed.POST("/stats/channels/:id/refresh", s.handleRefreshStats)

		authed.GET("/deals", s.handleListDeals)
		authed.POST("/deals", s.handleCreateDeal)
		authed.POST("/deals/media/upload", s.handleUpload)
		authed.GET("/deals/:id", s.handleGetDeal)
		authed.GET("/deals/:id/events", s.handleEvents)
		authed.POST("/deals/:id/terms", s.handleTerms)
		authed.POST("/deals/:id/publish_at", s.handlePublishAt)
		authed.POST("/deals/:id/status", s.handleStatus)
		authed.POST("/deals/:id/creative", s.handleSubmitCreative)
		authed.GET("/deals/:id/creative", s.handleGetCreative)
		authed.POST("/deals/:id/creative/status", s.handleReviewCreative)
		authed.POST("/deals/:id/advertiser_brief", s.handleBrief)

		authed.POST("/escrow/deals/:id/deposit", s.handleDeposit)
	}
	return r
}

func fail(c *gin.Context, status int, detail string) {
	c.AbortWithStatusJSON(status, gin.H{"detail": detail})
}

func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		fail(c, http.StatusNotFound, "Not found")
		return 0, false
	}
	return id, true
}

func currentUser(c *gin.Context) *api.User {
	return c.MustGet(userKey).(*api.User)
}

func (s *Server) requireUser(c *gin.Context) {
	token, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
	if !ok {
		fail(c, http.StatusUnauthorized, "Not authenticated")
		return
	}
	s.mu.RLock()
	userID, ok := s.tokens[token]
	user := s.users[userID]
	s.mu.RUnlock()
	if !ok {
		fail(c, http.StatusUnauthorized, "Invalid token")
		return
	}
	c.Set(userKey, user)
	c.Next()
}

func (s *Server) handleLogin(c *gin.Context) {
	var req api.AuthRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.InitData == "" {
		fail(c, http.StatusUnauthorized, "Invalid init data")
		return
	}
	params, err := telegram.ParseInitData(req.InitData)
	if err != nil || params.User == nil || params.User.ID == 0 {
		fail(c, http.StatusUnauthorized, "Invalid init data")
		return
	}

	s.mu.Lock()
	user := s.userByTg(params.User.ID, params.User.Username)
	out := *user
	s.mu.Unlock()

	c.JSON(http.StatusOK, api.AuthResponse{Token: tokenFor(user.ID), User: &out})
}

func (s *Server) handleMe(c *gin.Context) {
	s.mu.RLock()
	out := *currentUser(c)
	s.mu.RUnlock()
	c.JSON(http.StatusOK, out)
}

func (s *Server) handleLinkWallet(c *gin.Context) {
	var req api.WalletRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.LinkedWallet == "" {
		fail(c, http.StatusUnprocessableEntity, "linked_wallet is required")
		return
	}
	s.mu.Lock()
	user := currentUser(c)
	wallet := req.LinkedWallet
	user.LinkedWallet = &wallet
	out := *user
	s.mu.Unlock()
	c.JSON(http.StatusOK, out)
}

func queryDecimal(c *gin.Context, key string) (*decimal.Decimal, bool) {
	raw := c.Query(key)
	if raw == "" {
		return nil, true
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		fail(c, http.StatusUnprocessableEntity, key+" must be a number")
		return nil, false
	}
	return &d, true
}

func queryPage(c *gin.Context) (limit, offset int) {
	limit, _ = strconv.Atoi(c.Query("limit"))
	offset, _ = strconv.Atoi(c.Query("offset"))
	return limit, offset
}
