package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rize-social/rize/internal/middleware"
	"github.com/rize-social/rize/internal/model"
	"github.com/rize-social/rize/internal/service"
	"github.com/rize-social/rize/internal/transport"
)

// PostHandler serves posts, feeds, likes, bookmarks and comments.
type PostHandler struct{ S *service.PostService }

func NewPostHandler(s *service.PostService) *PostHandler { return &PostHandler{s} }

func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in model.NewPost
	if err := decodeJSON(w, r, &in); err != nil {
		transport.Error(r.Context(), w, err)
		return
	}
	v, err := h.S.Create(r.Context(), middleware.Principal(r.Context()), in)
	if err != nil {
		transport.Error(r.Context(), w, err)
		return
	}
	transport.WriteJSON(w, http.StatusCreated, v)
}

func (h *PostHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		transport.Error(r.Context(), w, err)
		return
	}
	v, err := h.S.Get(r.Context(), middleware.Principal(r.Context()), id)
	if err != nil {
		transport.Error(r.Context(), w, err)
		return
	}
	transport.WriteJSON(w, http.StatusOK, v)
}

func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	withID(w, r, func(id string) error {
		return h.S.Delete(r.Context(), middleware.Principal(r.Context()), id)
	})
}

func (h *PostHandler) ListByUsername(w http.ResponseWriter, r *http.Request) {
	page, err := pagination(r)
	if err != nil {
		transport.Error(r.Context(), w, err)
		return
	}
	posts, err := h.S.ListByUsername(r.Context(), middleware.Principal(r.Context()), chi.URLParam(r, "username"), page)
	if err != nil {
		transport.Error(r.Context(), w, err)
		return
	}
	transport.WriteJSON(w, http.StatusOK, posts)
}

func (h *PostHandler) Top(w http.ResponseWriter, r *http.Request) {
	posts, err := h.S.Top(r.Context(), middleware.Principal(r.Context()), chi.URLParam(r, "username"))
	if err != nil {
		transport.Error(r.Context(), w, err)
		return
	}
	transport.WriteJSON(w, http.StatusOK, posts)
}

// Feed returns recent posts. Clients page with ?before=<created_at of the
// last post seen>.
func (h *PostHandler) Feed(w http.ResponseWriter, r *http.Request) {
	page, err := pagination(r)
	if err != nil {
		transport.Error(r.Context(), w, err)
		return
	}
	before, err := timeParam(r, "before")
	if err != nil {
		transport.Error(r.Context(), w, err)
		return
	}
	posts, err := h.S.Feed(r.Context(), middleware.Principal(r.Context()), before, page)
	if err != nil {
		transport.Error(r.Context(), w, err)
		return
	}
	transport.WriteJSON(w, http.StatusOK, posts)
}

func (h *PostHandler) Bookmarked(w http.ResponseWriter, r *http.Request) {
	page, err := pagination(r)
	if err != nil {
		transport.Error(r.Context(), w, err)
		return
	}
	posts, err := h.S.Bookmarked(r.Context(), middleware.Principal(r.Context()), page)
	if err != nil {
		transport.Error(r.Context(), w, err)
		return
	}
	transport.WriteJSON(w, http.StatusOK, posts)
}

func (h *PostHandler) Like(w http.ResponseWriter, r *http.Request) {
	withID(w, r, func(id string) error {
		return h.S.SetLike(r.Context(), middleware.Principal(r.Context()), id, true)
	})
}

func (h *PostHandler) Unlike(w http.ResponseWriter, r *http.Request) {
	withID(w, r, func(id string) error {
		return h.S.SetLike(r.Context(), middleware.Principal(r.Context()), id, false)
	})
}

func (h *PostHandler) Bookmark(w http.ResponseWriter, r *http.Request) {
	withID(w, r, func(id string) error {
		return h.S.SetBookmark(r.Context(), middleware.Principal(r.Context()), id, true)
	})
}

func (h *PostHandler) Unbookmark(w http.ResponseWriter, r *http.Request) {
	withID(w, r, func(id string) error {
		return h.S.SetBookmark(r.Context(), middleware.Principal(r.Context()), id, false)
	})
}

func (h *PostHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	postID, err := idParam(r)
	if err != nil {
		transport.Error(r.Context(), w, err)
		return
	}
	var in model.NewComment
	if err := decodeJSON(w, r, &in); err != nil {
		transport.Error(r.Context(), w, err)
		return
	}
	c, err := h.S.AddComment(r.Context(), middleware.Principal(r.Context()), postID, in)
	if err != nil {
		transport.Error(r.Context(), w, err)
		return
	}
	transport.WriteJSON(w, http.StatusCreated, c)
}

func (h *PostHandler) ListComments(w http.ResponseWriter, r *http.Request) {
	postID, err := idParam(r)
	if err != nil {
		transport.Error(r.Context(), w, err)
		return
	}
	page, err := pagination(r)
	if err != nil {
		transport.Error(r.Context(), w, err)
		return
	}
	comments, err := h.S.ListComments(r.Context(), postID, page)
	if err != nil {
		transport.Error(r.Context(), w, err)
		return
	}
	transport.WriteJSON(w, http.StatusOK, comments)
}

func (h *PostHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	withID(w, r, func(id string) error {
		return h.S.DeleteComment(r.Context(), middleware.Principal(r.Context()), id)
	})
}
