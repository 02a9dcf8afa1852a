package httpadapter

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/the-articles/articles-api/internal/app/chat"
	"github.com/the-articles/articles-api/internal/app/content"
	"github.com/the-articles/articles-api/internal/app/datacache"
	"github.com/the-articles/articles-api/internal/app/identity"
	"github.com/the-articles/articles-api/internal/app/interactions"
	"github.com/the-articles/articles-api/internal/app/socialgraph"
	"github.com/the-articles/articles-api/internal/app/trends"
	"github.com/the-articles/articles-api/internal/domain"
)

// ChannelServer is the websocket bridge the chat attach endpoint hands
// connections to.
type ChannelServer interface {
	Serve(w http.ResponseWriter, r *http.Request, handle string)
}

type Server struct {
	auth      domain.AuthGateway
	sync      *identity.Synchronizer
	cache     *datacache.Cache
	graph     *socialgraph.Mutator
	reactions *interactions.Service
	content   *content.Service
	chats     *chat.HandshakeService
	trends    *trends.Service
	analyst   *trends.Analyst
	channels  ChannelServer

	adminDomain string
}

type Deps struct {
	Auth        domain.AuthGateway
	Sync        *identity.Synchronizer
	Cache       *datacache.Cache
	Graph       *socialgraph.Mutator
	Reactions   *interactions.Service
	Content     *content.Service
	Chats       *chat.HandshakeService
	Trends      *trends.Service
	Analyst     *trends.Analyst
	Channels    ChannelServer
	AdminDomain string
}

func NewServer(d Deps) http.Handler {
	s := &Server{
		auth:        d.Auth,
		sync:        d.Sync,
		cache:       d.Cache,
		graph:       d.Graph,
		reactions:   d.Reactions,
		content:     d.Content,
		chats:       d.Chats,
		trends:      d.Trends,
		analyst:     d.Analyst,
		channels:    d.Channels,
		adminDomain: d.AdminDomain,
	}

	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", s.handleHealthz)
	mux.HandleFunc("/stats", s.handleStats)

	mux.HandleFunc("/auth/signup", s.handleSignUp)
	mux.HandleFunc("/auth/signin", s.handleSignIn)
	mux.HandleFunc("/auth/signout", s.handleSignOut)
	mux.HandleFunc("/auth/session", s.handleSession)

	// /profiles            → GET: list, POST: setup
	// /profiles/{id}       → GET / POST (owner edit) / DELETE (admin)
	// /profiles/{id}/follow → POST: toggle follow
	mux.HandleFunc("/profiles", s.handleProfiles)
	mux.HandleFunc("/profiles/", s.handleProfileWithID)

	// /articles                 → GET: feed, POST: publish
	// /articles/{id}            → GET / POST (author edit) / DELETE
	// /articles/{id}/comments   → GET / POST
	// /articles/{id}/reactions  → POST: like/dislike
	mux.HandleFunc("/articles", s.handleArticles)
	mux.HandleFunc("/articles/", s.handleArticleWithID)

	// /chat/requests              → GET / POST
	// /chat/requests/{id}/accept  → POST
	// /chat/channels/{handle}     → GET: websocket attach
	mux.HandleFunc("/chat/requests", s.handleChatRequests)
	mux.HandleFunc("/chat/requests/", s.handleChatRequestWithID)
	mux.HandleFunc("/chat/channels/", s.handleChannelAttach)

	mux.HandleFunc("/trends", s.handleTrends)
	mux.HandleFunc("/drafts/analyze", s.handleAnalyzeDraft)

	return chainMiddlewares(mux, withCORS, withLogging)
}

// ─────────────────────────────────────────────
// DTOs (request/response)
// ─────────────────────────────────────────────

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expires_at"`
}

type authResponse struct {
	Token   string          `json:"token"`
	Session sessionResponse `json:"session"`
}

type sessionStateResponse struct {
	LoggedIn bool             `json:"logged_in"`
	Profile  *profileResponse `json:"profile"`
}

type profileResponse struct {
	ID             string    `json:"id"`
	DisplayName    string    `json:"display_name"`
	Handle         string    `json:"handle"`
	Serial         string    `json:"serial"`
	Role           string    `json:"role"`
	Following      []string  `json:"following"`
	FollowingCount int       `json:"following_count"`
	FollowersCount int       `json:"followers_count"`
	Reputation     int       `json:"reputation"`
	Bio            string    `json:"bio"`
	AvatarURL      string    `json:"avatar_url"`
	CoverURL       string    `json:"cover_url"`
	Private        bool      `json:"private"`
	CreatedAt      time.Time `json:"created_at"`
}

type createProfileRequest struct {
	DisplayName string `json:"display_name"`
	Handle      string `json:"handle"`
	Bio         string `json:"bio,omitempty"`
	AvatarURL   string `json:"avatar_url,omitempty"`
	CoverURL    string `json:"cover_url,omitempty"`
	Private     bool   `json:"private,omitempty"`
}

type updateProfileRequest struct {
	DisplayName *string `json:"display_name"`
	Handle      *string `json:"handle"`
	Bio         *string `json:"bio"`
	AvatarURL   *string `json:"avatar_url"`
	CoverURL    *string `json:"cover_url"`
	Private     *bool   `json:"private"`
}

type articleResponse struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Body         string    `json:"body"`
	Category     string    `json:"category"`
	AuthorID     string    `json:"author_id"`
	AuthorName   string    `json:"author_name"`
	AuthorSerial string    `json:"author_serial"`
	Likes        int       `json:"likes"`
	Dislikes     int       `json:"dislikes"`
	Comments     int       `json:"comments"`
	ImageURL     string    `json:"image_url"`
	Hidden       bool      `json:"hidden"`
	Hashtags     []string  `json:"hashtags"`
	CreatedAt    time.Time `json:"created_at"`
}

type publishArticleRequest struct {
	Title    string   `json:"title"`
	Body     string   `json:"body"`
	Category string   `json:"category"`
	ImageURL string   `json:"image_url,omitempty"`
	Hidden   bool     `json:"hidden,omitempty"`
	Hashtags []string `json:"hashtags,omitempty"`
}

type editArticleRequest struct {
	Title    *string  `json:"title"`
	Body     *string  `json:"body"`
	Category *string  `json:"category"`
	ImageURL *string  `json:"image_url"`
	Hidden   *bool    `json:"hidden"`
	Hashtags []string `json:"hashtags"`
}

type commentResponse struct {
	ID         string    `json:"id"`
	ArticleID  string    `json:"article_id"`
	AuthorID   string    `json:"author_id"`
	AuthorName string    `json:"author_name"`
	Text       string    `json:"text"`
	CreatedAt  time.Time `json:"created_at"`
}

type addCommentRequest struct {
	Text string `json:"text"`
}

type reactionRequest struct {
	Kind string `json:"kind"`
}

type chatRequestResponse struct {
	ID        string    `json:"id"`
	FromID    string    `json:"from_id"`
	ToID      string    `json:"to_id"`
	Status    string    `json:"status"`
	Handle    string    `json:"handle"`
	CreatedAt time.Time `json:"created_at"`
}

type createChatRequest struct {
	To string `json:"to"`
}

type analyzeDraftRequest struct {
	DraftID  string `json:"draft_id"`
	Title    string `json:"title"`
	Body     string `json:"body"`
	Category string `json:"category,omitempty"`
}

type statsResponse struct {
	ActiveNodes int `json:"active_nodes"`
}

// ─────────────────────────────────────────────
// Auth plumbing
// ─────────────────────────────────────────────

// session resolves the bearer token, or nil when absent/invalid.
func (s *Server) session(r *http.Request) *domain.Session {
	h := r.Header.Get("Authorization")
	if !strings.HasPrefix(h, "Bearer ") {
		return nil
	}
	sess, err := s.auth.CurrentSession(r.Context(), strings.TrimPrefix(h, "Bearer "))
	if err != nil {
		return nil
	}
	return sess
}

// actingProfile resolves the session principal's cached profile with the
// effective role recomputed. nil when signed out or profile pending.
func (s *Server) actingProfile(r *http.Request) (*domain.Session, *domain.Profile) {
	sess := s.session(r)
	if sess == nil {
		return nil, nil
	}
	p := s.cache.Profile(sess.UserID)
	if p == nil {
		return sess, nil
	}
	p = p.Clone()
	p.Role = identity.ResolveEffectiveRole(p.Role, sess, s.adminDomain)
	return sess, p
}

// ─────────────────────────────────────────────
// Health / stats
// ─────────────────────────────────────────────

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	writeJSON(w, http.StatusOK, statsResponse{ActiveNodes: s.cache.ActiveNodeCount()})
}

// ─────────────────────────────────────────────
// Auth handlers
// ─────────────────────────────────────────────

func (s *Server) handleSignUp(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}

	sess, token, err := s.auth.SignUp(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	s.sync.HandleAuthEvent(r.Context(), domain.AuthEvent{Kind: domain.AuthSignedIn, Session: sess})
	writeJSON(w, http.StatusCreated, authResponse{Token: token, Session: toSessionResponse(sess)})
}

func (s *Server) handleSignIn(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}

	sess, token, err := s.auth.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	s.sync.HandleAuthEvent(r.Context(), domain.AuthEvent{Kind: domain.AuthSignedIn, Session: sess})
	writeJSON(w, http.StatusOK, authResponse{Token: token, Session: toSessionResponse(sess)})
}

func (s *Server) handleSignOut(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	h := r.Header.Get("Authorization")
	if strings.HasPrefix(h, "Bearer ") {
		_ = s.auth.SignOut(r.Context(), strings.TrimPrefix(h, "Bearer "))
	}

	s.sync.HandleAuthEvent(r.Context(), domain.AuthEvent{Kind: domain.AuthSignedOut})
	w.WriteHeader(http.StatusNoContent)
}

// handleSession reports the synchronized pair (logged_in, profile) for
// the bearer token. "Logged in, profile null" is a valid answer and means
// the caller must route to profile setup.
func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}

	sess, p := s.actingProfile(r)
	if sess == nil {
		writeJSON(w, http.StatusOK, sessionStateResponse{LoggedIn: false})
		return
	}

	resp := sessionStateResponse{LoggedIn: true}
	if p != nil {
		pr := toProfileResponse(p)
		resp.Profile = &pr
	}
	writeJSON(w, http.StatusOK, resp)
}

// ─────────────────────────────────────────────
// Profile handlers
// ─────────────────────────────────────────────

func (s *Server) handleProfiles(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		profiles := s.cache.Profiles()
		out := make([]profileResponse, 0, len(profiles))
		for _, p := range profiles {
			out = append(out, toProfileResponse(p))
		}
		writeJSON(w, http.StatusOK, out)

	case http.MethodPost:
		sess := s.session(r)
		var req createProfileRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			badRequest(w, "invalid JSON body")
			return
		}
		if req.DisplayName == "" || req.Handle == "" {
			badRequest(w, "display_name and handle are required")
			return
		}

		p, err := s.sync.CreateProfile(r.Context(), sess, identity.CreateProfileInput{
			DisplayName: req.DisplayName,
			Handle:      req.Handle,
			Bio:         req.Bio,
			AvatarURL:   req.AvatarURL,
			CoverURL:    req.CoverURL,
			Private:     req.Private,
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toProfileResponse(p))

	default:
		methodNotAllowed(w)
	}
}

func (s *Server) handleProfileWithID(w http.ResponseWriter, r *http.Request) {
	parts := splitPath(r.URL.Path, "/profiles/")
	if len(parts) == 0 {
		http.NotFound(w, r)
		return
	}
	id := domain.ProfileID(parts[0])

	if len(parts) == 2 && parts[1] == "follow" {
		if r.Method != http.MethodPost {
			methodNotAllowed(w)
			return
		}
		_, acting := s.actingProfile(r)
		updated, err := s.graph.ToggleFollow(r.Context(), acting, id)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toProfileResponse(updated))
		return
	}

	if len(parts) != 1 {
		http.NotFound(w, r)
		return
	}

	switch r.Method {
	case http.MethodGet:
		p := s.cache.Profile(id)
		if p == nil {
			http.NotFound(w, r)
			return
		}
		s.sync.ViewProfile(id)
		writeJSON(w, http.StatusOK, toProfileResponse(p))

	case http.MethodPost:
		sess := s.session(r)
		if sess == nil {
			writeError(w, domain.ErrUnauthenticated)
			return
		}
		if sess.UserID != id {
			writeError(w, domain.ErrForbidden)
			return
		}

		var req updateProfileRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			badRequest(w, "invalid JSON body")
			return
		}

		p, err := s.sync.UpdateProfile(r.Context(), sess, identity.UpdateProfileInput{
			DisplayName: req.DisplayName,
			Handle:      req.Handle,
			Bio:         req.Bio,
			AvatarURL:   req.AvatarURL,
			CoverURL:    req.CoverURL,
			Private:     req.Private,
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toProfileResponse(p))

	case http.MethodDelete:
		_, acting := s.actingProfile(r)
		if err := s.sync.DeleteProfile(r.Context(), acting, id); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		methodNotAllowed(w)
	}
}

// ─────────────────────────────────────────────
// Article handlers
// ─────────────────────────────────────────────

func (s *Server) handleArticles(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		articles := s.cache.Articles()
		out := make([]articleResponse, 0, len(articles))
		for _, a := range articles {
			out = append(out, toArticleResponse(a))
		}
		writeJSON(w, http.StatusOK, out)

	case http.MethodPost:
		_, acting := s.actingProfile(r)
		var req publishArticleRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			badRequest(w, "invalid JSON body")
			return
		}
		if strings.TrimSpace(req.Title) == "" {
			badRequest(w, "title is required")
			return
		}

		a, err := s.content.Publish(r.Context(), acting, content.PublishInput{
			Title:    req.Title,
			Body:     req.Body,
			Category: domain.Category(req.Category),
			ImageURL: req.ImageURL,
			Hidden:   req.Hidden,
			Hashtags: req.Hashtags,
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toArticleResponse(a))

	default:
		methodNotAllowed(w)
	}
}

func (s *Server) handleArticleWithID(w http.ResponseWriter, r *http.Request) {
	parts := splitPath(r.URL.Path, "/articles/")
	if len(parts) == 0 {
		http.NotFound(w, r)
		return
	}
	id := domain.ArticleID(parts[0])

	if len(parts) == 2 {
		switch parts[1] {
		case "comments":
			s.handleComments(w, r, id)
		case "reactions":
			s.handleReaction(w, r, id)
		default:
			http.NotFound(w, r)
		}
		return
	}

	if len(parts) != 1 {
		http.NotFound(w, r)
		return
	}

	switch r.Method {
	case http.MethodGet:
		a := s.cache.Article(id)
		if a == nil {
			http.NotFound(w, r)
			return
		}
		writeJSON(w, http.StatusOK, toArticleResponse(a))

	case http.MethodPost:
		_, acting := s.actingProfile(r)
		var req editArticleRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			badRequest(w, "invalid JSON body")
			return
		}

		var category *domain.Category
		if req.Category != nil {
			c := domain.Category(*req.Category)
			category = &c
		}

		a, err := s.content.Edit(r.Context(), acting, id, content.EditInput{
			Title:    req.Title,
			Body:     req.Body,
			Category: category,
			ImageURL: req.ImageURL,
			Hidden:   req.Hidden,
			Hashtags: req.Hashtags,
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toArticleResponse(a))

	case http.MethodDelete:
		_, acting := s.actingProfile(r)
		if err := s.content.Delete(r.Context(), acting, id); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		methodNotAllowed(w)
	}
}

func (s *Server) handleComments(w http.ResponseWriter, r *http.Request, id domain.ArticleID) {
	switch r.Method {
	case http.MethodGet:
		comments := s.content.ListComments(r.Context(), id)
		out := make([]commentResponse, 0, len(comments))
		for _, c := range comments {
			out = append(out, toCommentResponse(c))
		}
		writeJSON(w, http.StatusOK, out)

	case http.MethodPost:
		_, acting := s.actingProfile(r)
		var req addCommentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			badRequest(w, "invalid JSON body")
			return
		}
		if strings.TrimSpace(req.Text) == "" {
			badRequest(w, "text is required")
			return
		}

		c, err := s.content.AddComment(r.Context(), acting, id, req.Text)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toCommentResponse(c))

	default:
		methodNotAllowed(w)
	}
}

func (s *Server) handleReaction(w http.ResponseWriter, r *http.Request, id domain.ArticleID) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	_, acting := s.actingProfile(r)
	var req reactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}

	kind := domain.InteractionKind(req.Kind)
	if kind != domain.InteractionLike && kind != domain.InteractionDislike {
		badRequest(w, "kind must be like or dislike")
		return
	}

	if err := s.reactions.ApplyInteraction(r.Context(), acting, kind, id); err != nil {
		writeError(w, err)
		return
	}

	a := s.cache.Article(id)
	if a == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, toArticleResponse(a))
}

// ─────────────────────────────────────────────
// Chat handlers
// ─────────────────────────────────────────────

func (s *Server) handleChatRequests(w http.ResponseWriter, r *http.Request) {
	_, acting := s.actingProfile(r)

	switch r.Method {
	case http.MethodGet:
		reqs, err := s.chats.ListForProfile(r.Context(), acting)
		if err != nil {
			writeError(w, err)
			return
		}
		out := make([]chatRequestResponse, 0, len(reqs))
		for _, cr := range reqs {
			out = append(out, toChatRequestResponse(cr))
		}
		writeJSON(w, http.StatusOK, out)

	case http.MethodPost:
		var req createChatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			badRequest(w, "invalid JSON body")
			return
		}
		if req.To == "" {
			badRequest(w, "to is required")
			return
		}

		cr, err := s.chats.Request(r.Context(), acting, domain.ProfileID(req.To))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toChatRequestResponse(cr))

	default:
		methodNotAllowed(w)
	}
}

func (s *Server) handleChatRequestWithID(w http.ResponseWriter, r *http.Request) {
	parts := splitPath(r.URL.Path, "/chat/requests/")
	if len(parts) != 2 || parts[1] != "accept" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	_, acting := s.actingProfile(r)
	cr, err := s.chats.Accept(r.Context(), acting, domain.ChatRequestID(parts[0]))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toChatRequestResponse(cr))
}

// handleChannelAttach upgrades to a websocket on the named channel. The
// handle is the whole capability: no participant check happens here.
func (s *Server) handleChannelAttach(w http.ResponseWriter, r *http.Request) {
	parts := splitPath(r.URL.Path, "/chat/channels/")
	if len(parts) != 1 || parts[0] == "" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	s.channels.Serve(w, r, parts[0])
}

// ─────────────────────────────────────────────
// AI handlers
// ─────────────────────────────────────────────

func (s *Server) handleTrends(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	writeJSON(w, http.StatusOK, s.trends.Trending(r.Context()))
}

func (s *Server) handleAnalyzeDraft(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	sess := s.session(r)
	if sess == nil {
		writeError(w, domain.ErrUnauthenticated)
		return
	}

	var req analyzeDraftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}
	if req.DraftID == "" {
		badRequest(w, "draft_id is required")
		return
	}

	analysis := s.analyst.Analyze(r.Context(), req.DraftID, domain.ArticleDraft{
		Title:    req.Title,
		Body:     req.Body,
		Category: domain.Category(req.Category),
	})
	if analysis == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, analysis)
}

// ─────────────────────────────────────────────
// Response helpers
// ─────────────────────────────────────────────

func toSessionResponse(s *domain.Session) sessionResponse {
	return sessionResponse{
		UserID:    string(s.UserID),
		Email:     s.Email,
		ExpiresAt: s.ExpiresAt,
	}
}

func toProfileResponse(p *domain.Profile) profileResponse {
	following := make([]string, 0, len(p.Following))
	for _, id := range p.Following {
		following = append(following, string(id))
	}
	return profileResponse{
		ID:             string(p.ID),
		DisplayName:    p.DisplayName,
		Handle:         p.Handle,
		Serial:         p.Serial,
		Role:           string(p.Role),
		Following:      following,
		FollowingCount: p.FollowingCount,
		FollowersCount: p.FollowersCount,
		Reputation:     p.Reputation,
		Bio:            p.Bio,
		AvatarURL:      p.AvatarURL,
		CoverURL:       p.CoverURL,
		Private:        p.Private,
		CreatedAt:      p.CreatedAt,
	}
}

func toArticleResponse(a *domain.Article) articleResponse {
	return articleResponse{
		ID:           string(a.ID),
		Title:        a.Title,
		Body:         a.Body,
		Category:     string(a.Category),
		AuthorID:     string(a.AuthorID),
		AuthorName:   a.AuthorName,
		AuthorSerial: a.AuthorSerial,
		Likes:        a.Likes,
		Dislikes:     a.Dislikes,
		Comments:     a.Comments,
		ImageURL:     a.ImageURL,
		Hidden:       a.Hidden,
		Hashtags:     a.Hashtags,
		CreatedAt:    a.CreatedAt,
	}
}

func toCommentResponse(c *domain.Comment) commentResponse {
	return commentResponse{
		ID:         string(c.ID),
		ArticleID:  string(c.ArticleID),
		AuthorID:   string(c.AuthorID),
		AuthorName: c.AuthorName,
		Text:       c.Text,
		CreatedAt:  c.CreatedAt,
	}
}

func toChatRequestResponse(r *domain.ChatRequest) chatRequestResponse {
	return chatRequestResponse{
		ID:        string(r.ID),
		FromID:    string(r.FromID),
		ToID:      string(r.ToID),
		Status:    string(r.Status),
		Handle:    chat.HandleFor(r.ID),
		CreatedAt: r.CreatedAt,
	}
}

// splitPath strips prefix and returns the non-empty path segments.
func splitPath(path, prefix string) []string {
	rest := strings.TrimPrefix(path, prefix)
	if rest == "" {
		return nil
	}
	parts := strings.Split(strings.TrimSuffix(rest, "/"), "/")
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// ─────────────────────────────────────────────
// HTTP Helpers
// ─────────────────────────────────────────────

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrUnauthenticated):
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
	case errors.Is(err, domain.ErrForbidden):
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "forbidden"})
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrLookupFailure):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
	case errors.Is(err, domain.ErrAlreadyExists):
		writeJSON(w, http.StatusConflict, map[string]string{"error": "already exists"})
	case errors.Is(err, domain.ErrGraphWriteConflict):
		writeJSON(w, http.StatusConflict, map[string]string{"error": "graph write conflict"})
	default:
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
	}
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, map[string]string{
		"error": msg,
	})
}

func methodNotAllowed(w http.ResponseWriter) {
	writeJSON(w, http.StatusMethodNotAllowed, map[string]string{
		"error": "method not allowed",
	})
}
