package handlers

import (
	"net/http"

	models "github.com/hangoctan1012/FaceCookTan/posts/internal/models"
	"github.com/hangoctan1012/FaceCookTan/posts/internal/repositories"
	services "github.com/hangoctan1012/FaceCookTan/posts/internal/service"
	"github.com/hangoctan1012/FaceCookTan/pkg/messaging"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// PostHandler is the post write path: it blocks on the violation check
// round trip, persists the post, bumps the monthly counter and announces
// the post to the author's followers.
type PostHandler struct {
	posts     *repositories.PostRepository
	counters  *repositories.CounterRepository
	checker   *services.ViolationChecker
	publisher *messaging.Publisher
	log       *logrus.Logger
}

func NewPostHandler(
	posts *repositories.PostRepository,
	counters *repositories.CounterRepository,
	checker *services.ViolationChecker,
	publisher *messaging.Publisher,
	log *logrus.Logger,
) *PostHandler {
	return &PostHandler{
		posts:     posts,
		counters:  counters,
		checker:   checker,
		publisher: publisher,
		log:       log,
	}
}

// CreatePost handles POST /posts. The user id comes from the x-user-id
// header set by the gateway.
func (h *PostHandler) CreatePost(c echo.Context) error {
	ctx := c.Request().Context()

	userID := c.Request().Header.Get("x-user-id")
	if userID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Missing user id")
	}

	var req struct {
		Content string `json:"content"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if req.Content == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Missing content")
	}

	check, err := h.checker.Check(ctx, userID, "post")
	if err != nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "Violation check unavailable")
	}
	if !check.Expired {
		return echo.NewHTTPError(http.StatusForbidden, "You are banned from posting")
	}

	post := &models.Post{
		UserID:  userID,
		Content: req.Content,
	}
	if err := h.posts.Create(ctx, post); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create post")
	}
	if err := h.counters.IncMonthlyCount(ctx, post.CreatedAt.Year(), int(post.CreatedAt.Month())); err != nil {
		h.log.WithError(err).Error("Failed to bump monthly post counter")
	}

	ev := messaging.NotificationEvent{
		ActorID:  userID,
		Type:     "new_post",
		TargetID: post.ID,
	}
	if err := h.publisher.Publish(ctx, messaging.QueueNotifications, ev); err != nil {
		h.log.WithError(err).Error("Failed to publish new post event")
	}

	return c.JSON(http.StatusCreated, post)
}

// CommentHandler is the comment write path: it blocks on the violation
// check round trip, persists the comment, then fires notification events.
type CommentHandler struct {
	posts     *repositories.PostRepository
	comments  *repositories.CommentRepository
	checker   *services.ViolationChecker
	publisher *messaging.Publisher
	log       *logrus.Logger
}

func NewCommentHandler(
	posts *repositories.PostRepository,
	comments *repositories.CommentRepository,
	checker *services.ViolationChecker,
	publisher *messaging.Publisher,
	log *logrus.Logger,
) *CommentHandler {
	return &CommentHandler{
		posts:     posts,
		comments:  comments,
		checker:   checker,
		publisher: publisher,
		log:       log,
	}
}

// CreateComment handles POST /comments. The user id comes from the
// x-user-id header set by the gateway.
func (h *CommentHandler) CreateComment(c echo.Context) error {
	ctx := c.Request().Context()

	userID := c.Request().Header.Get("x-user-id")
	if userID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Missing user id")
	}

	var req struct {
		PostID  string `json:"postID"`
		Content string `json:"content"`
		Reply   string `json:"reply"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if req.PostID == "" || req.Content == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Missing postID or content")
	}

	check, err := h.checker.Check(ctx, userID, "comment")
	if err != nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "Violation check unavailable")
	}
	if !check.Expired {
		return echo.NewHTTPError(http.StatusForbidden, "You are banned from commenting")
	}

	post, err := h.posts.GetByID(ctx, req.PostID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load post")
	}
	if post == nil {
		return echo.NewHTTPError(http.StatusNotFound, "Post not found")
	}

	comment := &models.Comment{
		PostID:  req.PostID,
		UserID:  userID,
		Content: req.Content,
	}

	var parent *models.Comment
	if req.Reply != "" {
		parent, err = h.comments.GetByID(ctx, req.Reply)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load parent comment")
		}
		if parent == nil {
			return echo.NewHTTPError(http.StatusNotFound, "Comment to reply to not found")
		}
		comment.ParentID = &parent.ID
		comment.Depth = parent.Depth + 1
		if comment.Depth > 2 {
			comment.Depth = 2
		}
	}

	if err := h.comments.Create(ctx, comment); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create comment")
	}
	if err := h.posts.AddCommentCount(ctx, req.PostID, 1); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update comment count")
	}

	// notification events are fire-and-forget: a publish failure only logs
	ev := messaging.NotificationEvent{
		ActorID:  userID,
		Type:     "comment",
		TargetID: req.PostID,
		UserID:   post.UserID,
	}
	if parent != nil {
		// one reply event covers both recipients: the post owner and the
		// author of the comment being replied to
		ev.Type = "reply"
		ev.ReplyToUserID = parent.UserID
	}
	if err := h.publisher.Publish(ctx, messaging.QueueNotifications, ev); err != nil {
		h.log.WithError(err).Error("Failed to publish comment event")
	}

	return c.JSON(http.StatusCreated, comment)
}
