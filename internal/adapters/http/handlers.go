package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/Classroom/internal/app/orch"
	"github.com/dkeye/Classroom/internal/app/session"
	"github.com/dkeye/Classroom/internal/domain"
)

type initRequest struct {
	UserUUID  string `json:"userUuid"`
	UserToken string `json:"userToken"`
}

type sessionResponse struct {
	UserUUID   domain.UserUUID `json:"userUuid"`
	Generation uint64          `json:"generation"`
	RoomUUID   domain.RoomUUID `json:"roomUuid,omitempty"`
}

type classResponse struct {
	Room      domain.Room          `json:"room"`
	Members   []domain.Member      `json:"members"`
	Pending   []orch.PendingAction `json:"pending"`
	Capturing bool                 `json:"capturing"`
}

type mediaRequest struct {
	UserUUID   domain.UserUUID   `json:"userUuid"`
	Capability domain.Capability `json:"capability"`
	Enabled    *bool             `json:"enabled"`
}

type shareRequest struct {
	UserUUID domain.UserUUID `json:"userUuid"`
}

type grantRequest struct {
	UserUUID   domain.UserUUID   `json:"userUuid"`
	Capability domain.Capability `json:"capability"`
	Granted    bool              `json:"granted"`
}

type playbackRequest struct {
	UserUUID   domain.UserUUID   `json:"userUuid"`
	Capability domain.Capability `json:"capability"`
	Enabled    bool              `json:"enabled"`
}

type handRequest struct {
	Raise bool `json:"raise"`
}

type stageRequest struct {
	UserUUID domain.UserUUID `json:"userUuid"`
	OnStage  bool            `json:"onStage"`
}

func (a *API) throttle() gin.HandlerFunc {
	return func(c *gin.Context) {
		if a.Limiter != nil && !a.Limiter.Allow(c.GetString(clientTokenKey)) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
			return
		}
		c.Next()
	}
}

func (a *API) session(c *gin.Context) (*session.Session, bool) {
	s, ok := a.Sessions.Current()
	if !ok {
		fail(c, errNoSession)
		return nil, false
	}
	return s, true
}

func (a *API) coordinator(c *gin.Context) (*orch.Orchestrator, bool) {
	s, ok := a.session(c)
	if !ok {
		return nil, false
	}
	o, err := s.Coordinator()
	if err != nil {
		fail(c, err)
		return nil, false
	}
	return o, true
}

func (a *API) initSession(c *gin.Context) {
	var req initRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid body")
		return
	}
	s, err := a.Sessions.Init(c.Request.Context(), req.UserUUID, req.UserToken)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, sessionResponse{UserUUID: s.Credentials().UserUUID, Generation: s.Generation(), RoomUUID: s.RoomUUID()})
}

func (a *API) currentSession(c *gin.Context) {
	s, ok := a.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, sessionResponse{UserUUID: s.Credentials().UserUUID, Generation: s.Generation(), RoomUUID: s.RoomUUID()})
}

func (a *API) destroySession(c *gin.Context) {
	s, ok := a.Sessions.Current()
	if !ok {
		c.Status(http.StatusNoContent)
		return
	}
	err := s.Destroy(c.Request.Context())
	if a.Stream != nil {
		a.Stream.Registry.CancelGeneration(s.Generation())
	}
	if a.Limiter != nil {
		a.Limiter.Forget(c.GetString(clientTokenKey))
	}
	if err != nil {
		log.Warn().Err(err).Str("module", "adapters.http").Msg("destroy finished with errors")
	}
	c.Status(http.StatusNoContent)
}

func (a *API) enterClass(c *gin.Context) {
	var opts domain.ClassOptions
	if err := c.ShouldBindJSON(&opts); err != nil || opts.RoomUUID == "" {
		badRequest(c, "invalid class options")
		return
	}
	s, ok := a.session(c)
	if !ok {
		return
	}
	snap, err := s.EnterClass(c.Request.Context(), opts)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

func (a *API) classSnapshot(c *gin.Context) {
	s, ok := a.session(c)
	if !ok {
		return
	}
	o, err := s.Coordinator()
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, classResponse{
		Room:      s.Room.Snapshot(),
		Members:   s.Roster.Snapshot(),
		Pending:   o.Pending(),
		Capturing: o.Capturing(),
	})
}

func (a *API) syncClass(c *gin.Context) {
	s, ok := a.session(c)
	if !ok {
		return
	}
	snap, err := s.SyncSnapshot(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

func (a *API) toggleMedia(c *gin.Context) {
	var req mediaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid body")
		return
	}
	o, ok := a.coordinator(c)
	if !ok {
		return
	}
	var err error
	if req.UserUUID == "" || o.Roster.IsSelf(req.UserUUID) {
		err = o.ToggleLocalMedia(c.Request.Context(), req.Capability, req.Enabled)
	} else {
		if req.Enabled == nil {
			badRequest(c, "enabled required for another member")
			return
		}
		err = o.ToggleRemoteMedia(c.Request.Context(), req.UserUUID, req.Capability, *req.Enabled)
	}
	if err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (a *API) startShare(c *gin.Context) {
	var req shareRequest
	_ = c.ShouldBindJSON(&req)
	o, ok := a.coordinator(c)
	if !ok {
		return
	}
	var err error
	if req.UserUUID == "" || o.Roster.IsSelf(req.UserUUID) {
		err = o.ShareScreen(c.Request.Context())
	} else {
		err = o.StartScreenShare(c.Request.Context(), req.UserUUID)
	}
	if err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (a *API) stopShare(c *gin.Context) {
	var req shareRequest
	_ = c.ShouldBindJSON(&req)
	o, ok := a.coordinator(c)
	if !ok {
		return
	}
	user := req.UserUUID
	if user == "" {
		self, found := o.Roster.GetLocal()
		if !found {
			fail(c, domain.ErrNotEntered)
			return
		}
		user = self.UserUUID
	}
	if err := o.StopScreenShare(c.Request.Context(), user); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (a *API) grant(c *gin.Context) {
	var req grantRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.UserUUID == "" {
		badRequest(c, "invalid body")
		return
	}
	o, ok := a.coordinator(c)
	if !ok {
		return
	}
	if err := o.GrantCapability(c.Request.Context(), req.UserUUID, req.Capability, req.Granted); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (a *API) startClass(c *gin.Context) {
	o, ok := a.coordinator(c)
	if !ok {
		return
	}
	if err := o.StartClass(c.Request.Context()); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (a *API) finishClass(c *gin.Context) {
	o, ok := a.coordinator(c)
	if !ok {
		return
	}
	if err := o.FinishClass(c.Request.Context()); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (a *API) raiseHand(c *gin.Context) {
	var req handRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid body")
		return
	}
	o, ok := a.coordinator(c)
	if !ok {
		return
	}
	if err := o.RaiseHand(c.Request.Context(), req.Raise); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (a *API) stage(c *gin.Context) {
	var req stageRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.UserUUID == "" {
		badRequest(c, "invalid body")
		return
	}
	o, ok := a.coordinator(c)
	if !ok {
		return
	}
	if err := o.SetOnStage(c.Request.Context(), req.UserUUID, req.OnStage); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (a *API) playback(c *gin.Context) {
	var req playbackRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.UserUUID == "" {
		badRequest(c, "invalid body")
		return
	}
	o, ok := a.coordinator(c)
	if !ok {
		return
	}
	if err := o.SetPlayback(c.Request.Context(), req.UserUUID, req.Capability, req.Enabled); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
